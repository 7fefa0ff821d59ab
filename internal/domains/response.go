package domains

import (
	"time"

	"github.com/google/uuid"
)

const (
	ResponseStatusInProgress = "IN_PROGRESS"
	ResponseStatusCompleted  = "COMPLETED"
)

type UserResponse struct {
	UUID        uuid.UUID  `db:"uuid" json:"uuid"`
	SurveyUUID  uuid.UUID  `db:"survey_uuid" json:"survey"`
	UserID      *int64     `db:"user_id" json:"user,omitempty"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

type UserAnswer struct {
	UUID             uuid.UUID  `db:"uuid" json:"uuid"`
	UserResponseUUID uuid.UUID  `db:"user_response_uuid" json:"user_response"`
	QuestionUUID     uuid.UUID  `db:"question_uuid" json:"question"`
	AnswerOptionUUID *uuid.UUID `db:"answer_option_uuid" json:"answer_option,omitempty"`
	TextAnswer       *string    `db:"text_answer" json:"text_answer,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// UserAnswerRequest is one inbound answer mutation: a user (or an anonymous
// respondent identified by a response uuid) answering one question of a survey.
type UserAnswerRequest struct {
	SurveyUUID       uuid.UUID
	QuestionUUID     uuid.UUID
	AnswerOptionUUID *uuid.UUID
	TextAnswer       *string
	UserID           *int64
	ResponseUUID     *uuid.UUID
}

// SubmitAnswerResult reports which response the answer landed in and whether
// that response was created by this call. Handlers use it to issue the
// anonymous response cookie.
type SubmitAnswerResult struct {
	ResponseUUID    uuid.UUID `json:"user_response_uuid"`
	ResponseCreated bool      `json:"-"`
	CanFinish       bool      `json:"can_finish"`
}
