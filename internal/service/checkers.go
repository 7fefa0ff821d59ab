package service

import (
	"github.com/hyperus/surveys/internal/domains"

	"github.com/google/uuid"
)

// IsCompleted reports whether a response has been completed.
func IsCompleted(response *domains.UserResponse) bool {
	return response != nil && response.Status == domains.ResponseStatusCompleted
}

// CanFinish reports whether every question of the survey has at least one
// answer in the response.
func CanFinish(questions []domains.Question, answers []domains.UserAnswer) bool {
	answered := make(map[uuid.UUID]struct{}, len(answers))
	for _, answer := range answers {
		answered[answer.QuestionUUID] = struct{}{}
	}
	return len(answered) == len(questions)
}

// validateQuestionAnswers checks every question of a survey against the
// answers given in one response: text questions need a non-empty text
// answer, single choice exactly one selected option, multiple choice at
// least one. Returns a question uuid -> message map, empty when valid.
func validateQuestionAnswers(questions []domains.Question, answers []domains.UserAnswer) map[string]string {
	byQuestion := make(map[uuid.UUID][]domains.UserAnswer, len(answers))
	for _, answer := range answers {
		byQuestion[answer.QuestionUUID] = append(byQuestion[answer.QuestionUUID], answer)
	}

	questionErrors := make(map[string]string)
	for _, question := range questions {
		given := byQuestion[question.UUID]
		if msg := validateQuestion(question, given); msg != "" {
			questionErrors[question.UUID.String()] = msg
		}
	}
	return questionErrors
}

func validateQuestion(question domains.Question, answers []domains.UserAnswer) string {
	if len(answers) == 0 {
		return "answer is missing"
	}
	switch question.Type {
	case domains.QuestionTypeText:
		first := answers[0]
		if first.TextAnswer == nil || *first.TextAnswer == "" {
			return "text answer is empty"
		}
	case domains.QuestionTypeSingleChoice:
		if len(answers) > 1 {
			return "multiple answers for a single choice question"
		}
	case domains.QuestionTypeMultipleChoice:
		// any non-empty answer set is valid
	}
	return ""
}
