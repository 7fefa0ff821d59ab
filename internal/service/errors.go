package service

import "errors"

var (
	ErrSurveyNotActive  = errors.New("survey is not active")
	ErrSurveyCompleted  = errors.New("survey already completed")
	ErrResponseNotFound = errors.New("survey response not found")
	ErrNoStatistics     = errors.New("survey has no statistics")
	ErrNotOwner         = errors.New("user is not a survey owner")
	ErrOptionRequired   = errors.New("answer must contain a selected option")
	ErrOptionMismatch   = errors.New("answer option does not belong to the question")
	ErrTextOnChoice     = errors.New("choice question cannot take a text answer")
	ErrOptionOnText     = errors.New("text question cannot take an answer option")
	ErrUnknownQuestion  = errors.New("unknown question type")
)

// ValidationError aggregates per-question completion failures so the caller
// can report every unfinished question at once.
type ValidationError struct {
	Message        string            `json:"error"`
	QuestionErrors map[string]string `json:"questions_error_map,omitempty"`
}

func (e *ValidationError) Error() string {
	return e.Message
}
