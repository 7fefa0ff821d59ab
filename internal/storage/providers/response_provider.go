package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyperus/surveys/internal/domains"
	"github.com/hyperus/surveys/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ResponseProvider struct {
	db *pgxpool.Pool
}

func NewResponseProvider(db *pgxpool.Pool) *ResponseProvider {
	return &ResponseProvider{
		db: db,
	}
}

// GetUserResponse resolves the unique response for (survey, user). Anonymous
// surveys are matched by the response uuid the respondent carries; all others
// by the authenticated user.
func (r ResponseProvider) GetUserResponse(ctx context.Context, survey domains.Survey, userID *int64, responseUUID *uuid.UUID) (domains.UserResponse, error) {
	query := `
          SELECT uuid, survey_uuid, user_id, status, created_at, completed_at
          FROM user_responses
          WHERE survey_uuid = $1 AND user_id = $2
          ORDER BY created_at DESC
          LIMIT 1`
	var arg interface{} = userID

	if survey.IsAnonymous {
		query = `
          SELECT uuid, survey_uuid, user_id, status, created_at, completed_at
          FROM user_responses
          WHERE survey_uuid = $1 AND uuid = $2
          ORDER BY created_at DESC
          LIMIT 1`
		arg = responseUUID
	}
	if (survey.IsAnonymous && responseUUID == nil) || (!survey.IsAnonymous && userID == nil) {
		return domains.UserResponse{}, fmt.Errorf("get user response: %w", storage.ErrNotFound)
	}

	rows, err := r.db.Query(ctx, query, survey.UUID, arg)
	if err != nil {
		return domains.UserResponse{}, fmt.Errorf("query user response: %w", err)
	}
	defer rows.Close()

	response, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domains.UserResponse])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.UserResponse{}, fmt.Errorf("get user response: %w", storage.ErrNotFound)
		}
		return domains.UserResponse{}, fmt.Errorf("collect user response: %w", err)
	}
	return response, nil
}

// GetOrCreateUserResponse returns the respondent's in-flight response,
// creating an IN_PROGRESS one on first answer. The second return reports
// whether a new response was created.
func (r ResponseProvider) GetOrCreateUserResponse(ctx context.Context, survey domains.Survey, userID *int64, responseUUID *uuid.UUID) (domains.UserResponse, bool, error) {
	response, err := r.GetUserResponse(ctx, survey, userID, responseUUID)
	if err == nil {
		return response, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return domains.UserResponse{}, false, err
	}

	rows, err := r.db.Query(ctx, `
          INSERT INTO user_responses (uuid, survey_uuid, user_id, status)
          VALUES ($1, $2, $3, $4)
          RETURNING uuid, survey_uuid, user_id, status, created_at, completed_at`,
		uuid.New(), survey.UUID, userID, domains.ResponseStatusInProgress,
	)
	if err != nil {
		return domains.UserResponse{}, false, fmt.Errorf("insert user response: %w", err)
	}
	defer rows.Close()

	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domains.UserResponse])
	if err != nil {
		return domains.UserResponse{}, false, fmt.Errorf("collect user response: %w", err)
	}
	return created, true, nil
}

func (r ResponseProvider) CompleteUserResponse(ctx context.Context, responseUUID uuid.UUID, completedAt time.Time) error {
	tag, err := r.db.Exec(ctx, `
          UPDATE user_responses
          SET status = $1, completed_at = $2
          WHERE uuid = $3`,
		domains.ResponseStatusCompleted, completedAt, responseUUID,
	)
	if err != nil {
		return fmt.Errorf("complete user response: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("complete user response: %w", storage.ErrNotFound)
	}
	return nil
}

func (r ResponseProvider) ListAnswers(ctx context.Context, responseUUID uuid.UUID) ([]domains.UserAnswer, error) {
	rows, err := r.db.Query(ctx, `
          SELECT ua.uuid, ua.user_response_uuid, ua.question_uuid,
                 ua.answer_option_uuid, ua.text_answer, ua.created_at
          FROM user_answers ua
          JOIN questions q ON q.uuid = ua.question_uuid
          WHERE ua.user_response_uuid = $1
          ORDER BY q.seq_id`,
		responseUUID,
	)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	answers, err := pgx.CollectRows(rows, pgx.RowToStructByName[domains.UserAnswer])
	if err != nil {
		return nil, fmt.Errorf("collect answers: %w", err)
	}
	return answers, nil
}

func (r ResponseProvider) ListAnswersForQuestion(ctx context.Context, responseUUID, questionUUID uuid.UUID) ([]domains.UserAnswer, error) {
	rows, err := r.db.Query(ctx, `
          SELECT uuid, user_response_uuid, question_uuid,
                 answer_option_uuid, text_answer, created_at
          FROM user_answers
          WHERE user_response_uuid = $1 AND question_uuid = $2
          ORDER BY created_at`,
		responseUUID, questionUUID,
	)
	if err != nil {
		return nil, fmt.Errorf("query question answers: %w", err)
	}
	defer rows.Close()

	answers, err := pgx.CollectRows(rows, pgx.RowToStructByName[domains.UserAnswer])
	if err != nil {
		return nil, fmt.Errorf("collect question answers: %w", err)
	}
	return answers, nil
}

func (r ResponseProvider) CreateUserAnswer(ctx context.Context, responseUUID, questionUUID uuid.UUID, optionUUID *uuid.UUID, textAnswer *string) error {
	if _, err := r.db.Exec(ctx, `
          INSERT INTO user_answers (uuid, user_response_uuid, question_uuid, answer_option_uuid, text_answer)
          VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), responseUUID, questionUUID, optionUUID, textAnswer,
	); err != nil {
		return fmt.Errorf("insert answer: %w", err)
	}
	return nil
}

func (r ResponseProvider) UpdateAnswerText(ctx context.Context, answerUUID uuid.UUID, textAnswer string) error {
	if _, err := r.db.Exec(ctx,
		`UPDATE user_answers SET text_answer = $1 WHERE uuid = $2`,
		textAnswer, answerUUID,
	); err != nil {
		return fmt.Errorf("update answer text: %w", err)
	}
	return nil
}

func (r ResponseProvider) UpdateAnswerOption(ctx context.Context, answerUUID uuid.UUID, optionUUID uuid.UUID) error {
	if _, err := r.db.Exec(ctx,
		`UPDATE user_answers SET answer_option_uuid = $1 WHERE uuid = $2`,
		optionUUID, answerUUID,
	); err != nil {
		return fmt.Errorf("update answer option: %w", err)
	}
	return nil
}

func (r ResponseProvider) DeleteUserAnswer(ctx context.Context, answerUUID uuid.UUID) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM user_answers WHERE uuid = $1`,
		answerUUID,
	); err != nil {
		return fmt.Errorf("delete answer: %w", err)
	}
	return nil
}
