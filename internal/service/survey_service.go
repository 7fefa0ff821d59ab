package service

import (
	"context"
	"log/slog"

	"github.com/hyperus/surveys/internal/domains"
)

type SurveyService struct {
	provider SurveyListProvider
}

type SurveyListProvider interface {
	ListSurveys(ctx context.Context, filter string, userID int64) ([]domains.Survey, error)
}

func NewSurveyService(provider SurveyListProvider) *SurveyService {
	return &SurveyService{
		provider: provider,
	}
}

// ListSurveys returns the user's own non-archived surveys, or every active
// survey when the all_active filter is requested.
func (s *SurveyService) ListSurveys(ctx context.Context, filter string, userID int64) ([]domains.Survey, error) {
	if filter != domains.SurveyFilterAllActive {
		filter = domains.SurveyFilterOwn
	}
	surveys, err := s.provider.ListSurveys(ctx, filter, userID)
	if err != nil {
		slog.Error("ListSurveys failed", "err", err, "filter", filter, "user", userID)
		return nil, err
	}
	return surveys, nil
}
