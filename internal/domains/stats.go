package domains

import (
	"time"

	"github.com/google/uuid"
)

// AnswerCountRow is one flat, pre-aggregated row of survey statistics: the
// count and percentage of one (question, answer option) pair across all
// completed responses, joined with the survey and question it belongs to.
// Rows come out of the database already counted; the service layer only
// pivots them into the nested SurveyStat tree.
type AnswerCountRow struct {
	SurveyUUID   uuid.UUID  `db:"survey_uuid"`
	SurveyName   string     `db:"survey_name"`
	SurveyStatus string     `db:"survey_status"`
	QuestionUUID uuid.UUID  `db:"question_uuid"`
	QuestionName string     `db:"question_name"`
	QuestionType string     `db:"question_type"`
	TotalCount   int64      `db:"total_count"`
	AnswerUUID   *uuid.UUID `db:"answer_uuid"`
	AnswerName   *string    `db:"answer_name"`
	AnswerCount  int64      `db:"answer_count"`
	Percentage   float64    `db:"percentage"`
}

// UserAnswerRow is one flat row of per-user survey statistics: a single
// answer given by a single user, joined with survey, question and respondent
// identity. Ordered by user so the pivot groups deterministically.
type UserAnswerRow struct {
	SurveyUUID   uuid.UUID  `db:"survey_uuid"`
	SurveyName   string     `db:"survey_name"`
	SurveyStatus string     `db:"survey_status"`
	UserID       int64      `db:"user_id"`
	FirstName    string     `db:"first_name"`
	LastName     string     `db:"last_name"`
	Photo        *string    `db:"photo"`
	CompletedAt  *time.Time `db:"completed_at"`
	QuestionUUID uuid.UUID  `db:"question_uuid"`
	QuestionName string     `db:"question_name"`
	QuestionType string     `db:"question_type"`
	AnswerUUID   *uuid.UUID `db:"answer_uuid"`
	AnswerName   *string    `db:"answer_name"`
	TextAnswer   *string    `db:"text_answer"`
}

type AnswerStat struct {
	UUID       *uuid.UUID `db:"uuid" json:"uuid"`
	Name       string     `db:"name" json:"name"`
	Count      int64      `db:"count" json:"count"`
	Percentage float64    `db:"percentage" json:"percentage"`
}

type QuestionStat struct {
	UUID       uuid.UUID    `json:"uuid"`
	Name       string       `json:"name"`
	Type       string       `json:"type"`
	TotalCount int64        `json:"total_count"`
	Answers    []AnswerStat `json:"answers"`
}

type SurveyStat struct {
	UUID      uuid.UUID      `json:"uuid"`
	Name      string         `json:"name"`
	Status    string         `json:"status"`
	Questions []QuestionStat `json:"questions"`
}

// UserAnswerStat is one answer inside the per-user tree. It is a two-case
// variant: choice answers carry the option uuid and name, free-text answers
// carry only the text and a null uuid.
type UserAnswerStat struct {
	UUID *uuid.UUID `json:"uuid"`
	Name string     `json:"name,omitempty"`
	Text string     `json:"text,omitempty"`
}

func ChoiceAnswerStat(optionUUID *uuid.UUID, name string) UserAnswerStat {
	return UserAnswerStat{UUID: optionUUID, Name: name}
}

func TextAnswerStat(text string) UserAnswerStat {
	return UserAnswerStat{Text: text}
}

type UserQuestionStat struct {
	UUID    uuid.UUID        `json:"uuid"`
	Name    string           `json:"name"`
	Type    string           `json:"type"`
	Answers []UserAnswerStat `json:"answers"`
}

type UserStat struct {
	UUID        int64              `json:"uuid"`
	Name        string             `json:"name"`
	Photo       *string            `json:"photo"`
	CompletedAt *time.Time         `json:"user_completed_at"`
	Questions   []UserQuestionStat `json:"questions"`
}

type SurveyUserStat struct {
	UUID   uuid.UUID  `json:"uuid"`
	Name   string     `json:"name"`
	Status string     `json:"status"`
	Users  []UserStat `json:"users"`
}
