package service

import (
	"context"
	"log/slog"

	"github.com/hyperus/surveys/internal/domains"

	"github.com/google/uuid"
)

type StatService struct {
	stats   StatsProvider
	surveys SurveyOwnerProvider
}

type StatsProvider interface {
	GetSurveyStat(ctx context.Context, surveyUUID uuid.UUID) ([]domains.AnswerCountRow, error)
	GetSurveyUserStat(ctx context.Context, surveyUUID uuid.UUID) ([]domains.UserAnswerRow, error)
	GetUnansweredOptions(ctx context.Context, questionUUID uuid.UUID, excluding []uuid.UUID) ([]domains.AnswerStat, error)
}

type SurveyOwnerProvider interface {
	IsUserOwner(ctx context.Context, surveyUUID uuid.UUID, userID int64) (bool, error)
}

func NewStatService(stats StatsProvider, surveys SurveyOwnerProvider) *StatService {
	return &StatService{
		stats:   stats,
		surveys: surveys,
	}
}

// SurveyStatistics builds the aggregated tree for one survey, null-filled so
// every defined answer option appears even with zero responses. Only owners
// may read statistics; a survey with no completed answers yields
// ErrNoStatistics.
func (s *StatService) SurveyStatistics(ctx context.Context, userID int64, surveyUUID uuid.UUID) ([]domains.SurveyStat, error) {
	if err := s.checkOwner(ctx, userID, surveyUUID); err != nil {
		return nil, err
	}

	rows, err := s.stats.GetSurveyStat(ctx, surveyUUID)
	if err != nil {
		slog.Error("GetSurveyStat failed", "err", err, "survey", surveyUUID)
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoStatistics
	}

	stats := StatSurvey(rows)
	return s.AddNullAnswerOptions(ctx, stats)
}

// UserSurveyStatistics builds the per-user tree for one survey. An empty row
// set yields an empty slice, which the transport renders as {"users": []}.
func (s *StatService) UserSurveyStatistics(ctx context.Context, userID int64, surveyUUID uuid.UUID) ([]domains.SurveyUserStat, error) {
	if err := s.checkOwner(ctx, userID, surveyUUID); err != nil {
		return nil, err
	}

	rows, err := s.stats.GetSurveyUserStat(ctx, surveyUUID)
	if err != nil {
		slog.Error("GetSurveyUserStat failed", "err", err, "survey", surveyUUID)
		return nil, err
	}
	return StatUserSurvey(rows), nil
}

// AddNullAnswerOptions appends a zero-count, zero-percentage entry for every
// answer option of every question that has no answers yet. Existing entries
// are never touched; the same slice is returned.
func (s *StatService) AddNullAnswerOptions(ctx context.Context, stats []domains.SurveyStat) ([]domains.SurveyStat, error) {
	for i := range stats {
		for j := range stats[i].Questions {
			question := &stats[i].Questions[j]

			answered := make([]uuid.UUID, 0, len(question.Answers))
			for _, answer := range question.Answers {
				if answer.UUID != nil {
					answered = append(answered, *answer.UUID)
				}
			}

			unanswered, err := s.stats.GetUnansweredOptions(ctx, question.UUID, answered)
			if err != nil {
				slog.Error("GetUnansweredOptions failed", "err", err, "question", question.UUID)
				return nil, err
			}
			question.Answers = append(question.Answers, unanswered...)
		}
	}
	return stats, nil
}

func (s *StatService) checkOwner(ctx context.Context, userID int64, surveyUUID uuid.UUID) error {
	owner, err := s.surveys.IsUserOwner(ctx, surveyUUID, userID)
	if err != nil {
		slog.Error("IsUserOwner failed", "err", err, "survey", surveyUUID, "user", userID)
		return err
	}
	if !owner {
		return ErrNotOwner
	}
	return nil
}
