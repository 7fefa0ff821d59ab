package providers

import (
	"context"
	"fmt"

	"github.com/hyperus/surveys/internal/domains"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsProvider struct {
	db *pgxpool.Pool
}

func NewStatsProvider(db *pgxpool.Pool) *StatsProvider {
	return &StatsProvider{
		db: db,
	}
}

// GetSurveyStat returns the flat per-answer-option statistic rows for one
// survey: each row is the count of a (question, answer option) pair across
// completed responses, with the per-question total and rounded percentage
// already computed. Ordered by question and option sequence.
func (s StatsProvider) GetSurveyStat(ctx context.Context, surveyUUID uuid.UUID) ([]domains.AnswerCountRow, error) {
	rows, err := s.db.Query(ctx, `
          WITH totals AS (
              SELECT ua.question_uuid, COUNT(ua.uuid) AS total_count
              FROM user_answers ua
              JOIN user_responses ur ON ur.uuid = ua.user_response_uuid
              WHERE ur.survey_uuid = $1 AND ur.status = 'COMPLETED'
              GROUP BY ua.question_uuid
          )
          SELECT
              s.uuid AS survey_uuid, s.name AS survey_name, s.status AS survey_status,
              q.uuid AS question_uuid, q.name AS question_name, q.type AS question_type,
              t.total_count,
              ao.uuid AS answer_uuid, ao.name AS answer_name,
              COUNT(ua.uuid) AS answer_count,
              (ROUND(COUNT(ua.uuid) * 100.0 / t.total_count, 2))::float8 AS percentage
          FROM user_answers ua
          JOIN user_responses ur ON ur.uuid = ua.user_response_uuid
          JOIN questions q ON q.uuid = ua.question_uuid
          JOIN surveys s ON s.uuid = q.survey_uuid
          JOIN totals t ON t.question_uuid = q.uuid
          LEFT JOIN answer_options ao ON ao.uuid = ua.answer_option_uuid
          WHERE ur.survey_uuid = $1 AND ur.status = 'COMPLETED'
          GROUP BY s.uuid, s.name, s.status,
                   q.uuid, q.name, q.type, q.seq_id,
                   t.total_count, ao.uuid, ao.name, ao.seq_id
          ORDER BY q.seq_id, ao.seq_id`,
		surveyUUID,
	)
	if err != nil {
		return nil, fmt.Errorf("query survey stat: %w", err)
	}
	defer rows.Close()

	stat, err := pgx.CollectRows(rows, pgx.RowToStructByName[domains.AnswerCountRow])
	if err != nil {
		return nil, fmt.Errorf("collect survey stat: %w", err)
	}
	return stat, nil
}

// GetSurveyUserStat returns one row per answer of every completed,
// non-anonymous response, joined with respondent identity. Ordered by user
// so the pivot groups deterministically.
func (s StatsProvider) GetSurveyUserStat(ctx context.Context, surveyUUID uuid.UUID) ([]domains.UserAnswerRow, error) {
	rows, err := s.db.Query(ctx, `
          SELECT
              s.uuid AS survey_uuid, s.name AS survey_name, s.status AS survey_status,
              a.id AS user_id, a.first_name, a.last_name, a.photo,
              ur.completed_at,
              q.uuid AS question_uuid, q.name AS question_name, q.type AS question_type,
              ao.uuid AS answer_uuid, ao.name AS answer_name,
              ua.text_answer
          FROM user_answers ua
          JOIN user_responses ur ON ur.uuid = ua.user_response_uuid
          JOIN accounts a ON a.id = ur.user_id
          JOIN surveys s ON s.uuid = ur.survey_uuid
          JOIN questions q ON q.uuid = ua.question_uuid
          LEFT JOIN answer_options ao ON ao.uuid = ua.answer_option_uuid
          WHERE ur.survey_uuid = $1
            AND ur.status = 'COMPLETED'
            AND ur.user_id IS NOT NULL
          ORDER BY ur.user_id, q.seq_id, ao.seq_id`,
		surveyUUID,
	)
	if err != nil {
		return nil, fmt.Errorf("query survey user stat: %w", err)
	}
	defer rows.Close()

	stat, err := pgx.CollectRows(rows, pgx.RowToStructByName[domains.UserAnswerRow])
	if err != nil {
		return nil, fmt.Errorf("collect survey user stat: %w", err)
	}
	return stat, nil
}

// GetUnansweredOptions returns the answer options of a question that are not
// in the exclusion set, annotated with zero count and zero percentage.
func (s StatsProvider) GetUnansweredOptions(ctx context.Context, questionUUID uuid.UUID, excluding []uuid.UUID) ([]domains.AnswerStat, error) {
	rows, err := s.db.Query(ctx, `
          SELECT uuid, name, 0::bigint AS count, 0::float8 AS percentage
          FROM answer_options
          WHERE question_uuid = $1 AND NOT (uuid = ANY($2))
          ORDER BY seq_id`,
		questionUUID, excluding,
	)
	if err != nil {
		return nil, fmt.Errorf("query unanswered options: %w", err)
	}
	defer rows.Close()

	options, err := pgx.CollectRows(rows, pgx.RowToStructByName[domains.AnswerStat])
	if err != nil {
		return nil, fmt.Errorf("collect unanswered options: %w", err)
	}
	return options, nil
}
