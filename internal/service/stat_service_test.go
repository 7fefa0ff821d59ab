package service

import (
	"context"
	"errors"
	"testing"

	"github.com/hyperus/surveys/internal/domains"

	"github.com/google/uuid"
)

type fakeStatsProvider struct {
	stat     []domains.AnswerCountRow
	userStat []domains.UserAnswerRow
	options  map[uuid.UUID][]domains.AnswerStat
	excluded map[uuid.UUID][]uuid.UUID
	err      error
}

func (f *fakeStatsProvider) GetSurveyStat(_ context.Context, _ uuid.UUID) ([]domains.AnswerCountRow, error) {
	return f.stat, f.err
}

func (f *fakeStatsProvider) GetSurveyUserStat(_ context.Context, _ uuid.UUID) ([]domains.UserAnswerRow, error) {
	return f.userStat, f.err
}

func (f *fakeStatsProvider) GetUnansweredOptions(_ context.Context, questionUUID uuid.UUID, excluding []uuid.UUID) ([]domains.AnswerStat, error) {
	if f.excluded == nil {
		f.excluded = make(map[uuid.UUID][]uuid.UUID)
	}
	f.excluded[questionUUID] = excluding
	return f.options[questionUUID], nil
}

type fakeOwnerProvider struct {
	owner bool
	err   error
}

func (f *fakeOwnerProvider) IsUserOwner(_ context.Context, _ uuid.UUID, _ int64) (bool, error) {
	return f.owner, f.err
}

func TestSurveyStatisticsNotOwner(t *testing.T) {
	svc := NewStatService(&fakeStatsProvider{}, &fakeOwnerProvider{owner: false})

	if _, err := svc.SurveyStatistics(context.Background(), 1, uuid.New()); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestSurveyStatisticsNoRows(t *testing.T) {
	svc := NewStatService(&fakeStatsProvider{}, &fakeOwnerProvider{owner: true})

	if _, err := svc.SurveyStatistics(context.Background(), 1, uuid.New()); !errors.Is(err, ErrNoStatistics) {
		t.Fatalf("expected ErrNoStatistics, got %v", err)
	}
}

func TestSurveyStatisticsAddsNullOptions(t *testing.T) {
	survey := uuid.New()
	question := uuid.New()
	answered := uuid.New()
	unanswered := uuid.New()

	stats := &fakeStatsProvider{
		stat: []domains.AnswerCountRow{countRow(survey, question, answered)},
		options: map[uuid.UUID][]domains.AnswerStat{
			question: {{UUID: &unanswered, Name: "Never picked"}},
		},
	}
	svc := NewStatService(stats, &fakeOwnerProvider{owner: true})

	result, err := svc.SurveyStatistics(context.Background(), 1, survey)
	if err != nil {
		t.Fatalf("SurveyStatistics failed: %v", err)
	}

	answers := result[0].Questions[0].Answers
	if len(answers) != 2 {
		t.Fatalf("expected answered + null-filled answers, got %d", len(answers))
	}
	if answers[0].UUID == nil || *answers[0].UUID != answered {
		t.Errorf("existing answer entry must stay first, got %+v", answers[0])
	}
	filled := answers[1]
	if filled.UUID == nil || *filled.UUID != unanswered {
		t.Errorf("expected null-filled option %s, got %+v", unanswered, filled)
	}
	if filled.Count != 0 || filled.Percentage != 0.0 {
		t.Errorf("null-filled entry must be zeroed, got %+v", filled)
	}

	excluded := stats.excluded[question]
	if len(excluded) != 1 || excluded[0] != answered {
		t.Errorf("expected answered option in the exclusion set, got %v", excluded)
	}
}

func TestUserSurveyStatisticsEmptyRows(t *testing.T) {
	svc := NewStatService(&fakeStatsProvider{}, &fakeOwnerProvider{owner: true})

	result, err := svc.UserSurveyStatistics(context.Background(), 1, uuid.New())
	if err != nil {
		t.Fatalf("UserSurveyStatistics failed: %v", err)
	}
	if len(result) != 0 {
		t.Fatalf("expected empty result, got %d surveys", len(result))
	}
}
