package domains

import (
	"time"

	"github.com/google/uuid"
)

const (
	SurveyStatusDraft    = "draft"
	SurveyStatusActive   = "active"
	SurveyStatusClosed   = "closed"
	SurveyStatusArchived = "archived"
)

const (
	QuestionTypeSingleChoice   = "single_choice"
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeText           = "text"
)

// Survey listing filters.
const (
	SurveyFilterOwn       = "own"
	SurveyFilterAllActive = "all_active"
)

type Survey struct {
	UUID        uuid.UUID  `db:"uuid" json:"uuid"`
	Name        string     `db:"name" json:"name"`
	Status      string     `db:"status" json:"status"`
	EndDate     *time.Time `db:"end_date" json:"end_date,omitempty"`
	IsAnonymous bool       `db:"is_anonymous" json:"is_anonymous"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

type Question struct {
	UUID       uuid.UUID `db:"uuid" json:"uuid"`
	SurveyUUID uuid.UUID `db:"survey_uuid" json:"survey"`
	SeqID      int       `db:"seq_id" json:"seq_id"`
	Name       string    `db:"name" json:"name"`
	Type       string    `db:"type" json:"type"`
	IsActive   bool      `db:"is_active" json:"is_active"`
}

type AnswerOption struct {
	UUID         uuid.UUID `db:"uuid" json:"uuid"`
	QuestionUUID uuid.UUID `db:"question_uuid" json:"question"`
	SeqID        int       `db:"seq_id" json:"seq_id"`
	Name         string    `db:"name" json:"name"`
	IsActive     bool      `db:"is_active" json:"is_active"`
}
