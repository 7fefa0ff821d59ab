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

type SurveyProvider struct {
	db *pgxpool.Pool
}

func NewSurveyProvider(db *pgxpool.Pool) *SurveyProvider {
	return &SurveyProvider{
		db: db,
	}
}

func (s SurveyProvider) GetSurveyByUUID(ctx context.Context, surveyUUID uuid.UUID) (domains.Survey, error) {
	rows, err := s.db.Query(ctx, `
          SELECT uuid, name, status, end_date, is_anonymous, created_at
          FROM surveys
          WHERE uuid = $1`,
		surveyUUID,
	)
	if err != nil {
		return domains.Survey{}, fmt.Errorf("query survey: %w", err)
	}
	defer rows.Close()

	survey, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domains.Survey])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.Survey{}, fmt.Errorf("get survey: %w", storage.ErrNotFound)
		}
		return domains.Survey{}, fmt.Errorf("collect survey: %w", err)
	}
	return survey, nil
}

func (s SurveyProvider) ListSurveys(ctx context.Context, filter string, userID int64) ([]domains.Survey, error) {
	query := `
          SELECT s.uuid, s.name, s.status, s.end_date, s.is_anonymous, s.created_at
          FROM surveys s
          JOIN survey_owners so ON so.survey_uuid = s.uuid
          WHERE so.user_id = $1 AND s.status <> 'archived'
          ORDER BY s.created_at DESC`
	args := []interface{}{userID}

	if filter == domains.SurveyFilterAllActive {
		query = `
          SELECT uuid, name, status, end_date, is_anonymous, created_at
          FROM surveys
          WHERE status = 'active'
          ORDER BY created_at DESC`
		args = nil
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query surveys: %w", err)
	}
	defer rows.Close()

	surveys, err := pgx.CollectRows(rows, pgx.RowToStructByName[domains.Survey])
	if err != nil {
		return nil, fmt.Errorf("collect surveys: %w", err)
	}
	return surveys, nil
}

func (s SurveyProvider) IsUserOwner(ctx context.Context, surveyUUID uuid.UUID, userID int64) (bool, error) {
	var owner bool
	err := s.db.QueryRow(ctx, `
          SELECT EXISTS (
              SELECT 1 FROM survey_owners
              WHERE survey_uuid = $1 AND user_id = $2
          )`,
		surveyUUID, userID,
	).Scan(&owner)
	if err != nil {
		return false, fmt.Errorf("check survey owner: %w", err)
	}
	return owner, nil
}

func (s SurveyProvider) GetQuestionByUUID(ctx context.Context, questionUUID uuid.UUID) (domains.Question, error) {
	rows, err := s.db.Query(ctx, `
          SELECT uuid, survey_uuid, seq_id, name, type, is_active
          FROM questions
          WHERE uuid = $1`,
		questionUUID,
	)
	if err != nil {
		return domains.Question{}, fmt.Errorf("query question: %w", err)
	}
	defer rows.Close()

	question, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domains.Question])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.Question{}, fmt.Errorf("get question: %w", storage.ErrNotFound)
		}
		return domains.Question{}, fmt.Errorf("collect question: %w", err)
	}
	return question, nil
}

func (s SurveyProvider) GetAnswerOptionByUUID(ctx context.Context, optionUUID uuid.UUID) (domains.AnswerOption, error) {
	rows, err := s.db.Query(ctx, `
          SELECT uuid, question_uuid, seq_id, name, is_active
          FROM answer_options
          WHERE uuid = $1`,
		optionUUID,
	)
	if err != nil {
		return domains.AnswerOption{}, fmt.Errorf("query answer option: %w", err)
	}
	defer rows.Close()

	option, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domains.AnswerOption])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.AnswerOption{}, fmt.Errorf("get answer option: %w", storage.ErrNotFound)
		}
		return domains.AnswerOption{}, fmt.Errorf("collect answer option: %w", err)
	}
	return option, nil
}

func (s SurveyProvider) ListQuestions(ctx context.Context, surveyUUID uuid.UUID) ([]domains.Question, error) {
	rows, err := s.db.Query(ctx, `
          SELECT uuid, survey_uuid, seq_id, name, type, is_active
          FROM questions
          WHERE survey_uuid = $1
          ORDER BY seq_id`,
		surveyUUID,
	)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	questions, err := pgx.CollectRows(rows, pgx.RowToStructByName[domains.Question])
	if err != nil {
		return nil, fmt.Errorf("collect questions: %w", err)
	}
	return questions, nil
}

// CloseExpiredSurveys flips active surveys whose end_date has passed to
// closed. Used by the lifecycle scheduler.
func (s SurveyProvider) CloseExpiredSurveys(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `
          UPDATE surveys
          SET status = 'closed'
          WHERE status = 'active' AND end_date IS NOT NULL AND end_date <= $1`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("close expired surveys: %w", err)
	}
	return tag.RowsAffected(), nil
}
