package httptransport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hyperus/surveys/internal/domains"
	"github.com/hyperus/surveys/internal/httpx"
	"github.com/hyperus/surveys/internal/service"
	"github.com/hyperus/surveys/internal/storage"

	"github.com/google/uuid"
)

// Anonymous respondents carry their response uuid in this cookie.
const responseCookieName = "user_response_uuid"
const responseCookieTTL = 60 * 60 * 24 * 7

type SurveyHandlers struct {
	surveys   SurveyServices
	stats     StatServices
	responses ResponseServices
}

type SurveyServices interface {
	ListSurveys(ctx context.Context, filter string, userID int64) ([]domains.Survey, error)
}

type StatServices interface {
	SurveyStatistics(ctx context.Context, userID int64, surveyUUID uuid.UUID) ([]domains.SurveyStat, error)
	UserSurveyStatistics(ctx context.Context, userID int64, surveyUUID uuid.UUID) ([]domains.SurveyUserStat, error)
}

type ResponseServices interface {
	CompleteSurvey(ctx context.Context, surveyUUID uuid.UUID, userID *int64, responseUUID *uuid.UUID) error
	SubmitAnswer(ctx context.Context, req domains.UserAnswerRequest) (domains.SubmitAnswerResult, error)
}

func NewSurveyHandlers(surveys SurveyServices, stats StatServices, responses ResponseServices) *SurveyHandlers {
	return &SurveyHandlers{
		surveys:   surveys,
		stats:     stats,
		responses: responses,
	}
}

func (h *SurveyHandlers) ListSurveys(w http.ResponseWriter, r *http.Request) {
	user, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	surveys, err := h.surveys.ListSurveys(r.Context(), r.URL.Query().Get("filter"), user)
	if err != nil {
		slog.Error("ListSurveys failed", "err", err, "user", user)
		httpx.Error(w, http.StatusInternalServerError, "Не удалось получить опросы")
		return
	}

	httpx.JSON(w, http.StatusOK, surveys)
}

func (h *SurveyHandlers) SurveyStat(w http.ResponseWriter, r *http.Request) {
	surveyUUID, ok := httpx.GetUUID(w, r)
	if !ok {
		return
	}
	user, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stats, err := h.stats.SurveyStatistics(r.Context(), user, surveyUUID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotOwner):
			httpx.Error(w, http.StatusForbidden, "Не являетесь владельцем опроса")
		case errors.Is(err, service.ErrNoStatistics):
			httpx.Error(w, http.StatusNotFound, "Статистика по опросу отсутствует")
		case errors.Is(err, storage.ErrNotFound):
			httpx.Error(w, http.StatusNotFound, "Опрос не найден")
		default:
			slog.Error("SurveyStat failed", "err", err, "survey", surveyUUID)
			httpx.Error(w, http.StatusInternalServerError, "Не удалось получить статистику")
		}
		return
	}

	httpx.JSON(w, http.StatusOK, stats)
}

func (h *SurveyHandlers) SurveyUserStat(w http.ResponseWriter, r *http.Request) {
	surveyUUID, ok := httpx.GetUUID(w, r)
	if !ok {
		return
	}
	user, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stats, err := h.stats.UserSurveyStatistics(r.Context(), user, surveyUUID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotOwner):
			httpx.Error(w, http.StatusForbidden, "Не являетесь владельцем опроса")
		case errors.Is(err, storage.ErrNotFound):
			httpx.Error(w, http.StatusNotFound, "Опрос не найден")
		default:
			slog.Error("SurveyUserStat failed", "err", err, "survey", surveyUUID)
			httpx.Error(w, http.StatusInternalServerError, "Не удалось получить статистику")
		}
		return
	}

	if len(stats) == 0 {
		httpx.JSON(w, http.StatusOK, map[string][]domains.UserStat{"users": {}})
		return
	}

	for i := range stats {
		for j := range stats[i].Users {
			if photo := stats[i].Users[j].Photo; photo != nil {
				absolute := absoluteURL(r, *photo)
				stats[i].Users[j].Photo = &absolute
			}
		}
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func (h *SurveyHandlers) CompleteSurvey(w http.ResponseWriter, r *http.Request) {
	surveyUUID, ok := httpx.GetUUID(w, r)
	if !ok {
		return
	}

	var userID *int64
	if user, ok := httpx.UserIDFromContext(r.Context()); ok {
		userID = &user
	}

	responseUUID := h.readResponseUUID(r)
	if responseUUID == nil {
		// anonymous clients without the cookie may pass the uuid in the body
		if body, err := httpx.ReadBody[CompleteSurveyBody](r); err == nil && body.UserResponseUUID != nil {
			if parsed, err := uuid.Parse(*body.UserResponseUUID); err == nil {
				responseUUID = &parsed
			}
		}
	}

	if err := h.responses.CompleteSurvey(r.Context(), surveyUUID, userID, responseUUID); err != nil {
		var validation *service.ValidationError
		switch {
		case errors.As(err, &validation):
			httpx.JSON(w, http.StatusBadRequest, validation)
		case errors.Is(err, service.ErrResponseNotFound):
			httpx.Error(w, http.StatusNotFound, "Пользователь не начал проходить опрос")
		case errors.Is(err, storage.ErrNotFound):
			httpx.Error(w, http.StatusNotFound, "Опрос не найден")
		default:
			slog.Error("CompleteSurvey failed", "err", err, "survey", surveyUUID)
			httpx.Error(w, http.StatusInternalServerError, "Не удалось завершить опрос")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SurveyHandlers) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	body, err := httpx.ReadBody[UserAnswerBody](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	surveyUUID, err := uuid.Parse(body.Survey)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Некорректный идентификатор опроса")
		return
	}
	questionUUID, err := uuid.Parse(body.Question)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Некорректный идентификатор вопроса")
		return
	}
	var optionUUID *uuid.UUID
	if body.AnswerOption != nil && *body.AnswerOption != "" {
		parsed, err := uuid.Parse(*body.AnswerOption)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "Некорректный идентификатор варианта ответа")
			return
		}
		optionUUID = &parsed
	}

	req := domains.UserAnswerRequest{
		SurveyUUID:       surveyUUID,
		QuestionUUID:     questionUUID,
		AnswerOptionUUID: optionUUID,
		TextAnswer:       body.TextAnswer,
		ResponseUUID:     h.readResponseUUID(r),
	}
	if user, ok := httpx.UserIDFromContext(r.Context()); ok {
		req.UserID = &user
	}

	result, err := h.responses.SubmitAnswer(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSurveyNotActive):
			httpx.Error(w, http.StatusBadRequest, "Опрос не активен")
		case errors.Is(err, service.ErrSurveyCompleted):
			httpx.Error(w, http.StatusBadRequest, "Опрос уже пройден")
		case errors.Is(err, service.ErrOptionRequired),
			errors.Is(err, service.ErrOptionMismatch),
			errors.Is(err, service.ErrTextOnChoice),
			errors.Is(err, service.ErrOptionOnText):
			httpx.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, storage.ErrNotFound):
			httpx.Error(w, http.StatusNotFound, "Опрос или вопрос не найден")
		default:
			slog.Error("SubmitAnswer failed", "err", err, "survey", surveyUUID)
			httpx.Error(w, http.StatusInternalServerError, "Не удалось сохранить ответ")
		}
		return
	}

	if req.UserID == nil && result.ResponseCreated {
		http.SetCookie(w, &http.Cookie{
			Name:     responseCookieName,
			Value:    result.ResponseUUID.String(),
			MaxAge:   responseCookieTTL,
			SameSite: http.SameSiteLaxMode,
			Path:     "/",
		})
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *SurveyHandlers) readResponseUUID(r *http.Request) *uuid.UUID {
	cookie, err := r.Cookie(responseCookieName)
	if err != nil {
		return nil
	}
	parsed, err := uuid.Parse(cookie.Value)
	if err != nil {
		return nil
	}
	return &parsed
}

// absoluteURL rebuilds a stored relative photo path into an absolute URL for
// the inbound request's host.
func absoluteURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + path
}
