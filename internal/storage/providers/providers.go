package providers

import "github.com/jackc/pgx/v5/pgxpool"

type Providers struct {
	SurveyProvider   *SurveyProvider
	ResponseProvider *ResponseProvider
	StatsProvider    *StatsProvider
}

func New(db *pgxpool.Pool) *Providers {
	return &Providers{
		SurveyProvider:   NewSurveyProvider(db),
		ResponseProvider: NewResponseProvider(db),
		StatsProvider:    NewStatsProvider(db),
	}
}
