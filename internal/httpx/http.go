package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func ReadBody[Body any](r *http.Request) (Body, error) {
	var body Body
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return body, err
	}
	return body, nil
}

func JSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// GetUUID parses the {uuid} route variable. On failure it writes a 400 and
// returns false.
func GetUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["uuid"])
	if err != nil {
		Error(w, http.StatusBadRequest, "Некорректный идентификатор опроса")
		return uuid.Nil, false
	}
	return id, true
}
