package httptransport

import (
	"net/http"

	"github.com/hyperus/surveys/internal/config"
	"github.com/hyperus/surveys/internal/httpx"
	"github.com/hyperus/surveys/internal/service"
	"github.com/hyperus/surveys/internal/storage/providers"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
)

func Router(db *pgxpool.Pool, cfg *config.Config) *mux.Router {
	router := mux.NewRouter()

	allProviders := providers.New(db)
	surveyService := service.NewSurveyService(allProviders.SurveyProvider)
	statService := service.NewStatService(allProviders.StatsProvider, allProviders.SurveyProvider)
	responseService := service.NewResponseService(allProviders.SurveyProvider, allProviders.ResponseProvider)
	handlers := NewSurveyHandlers(surveyService, statService, responseService)

	protected := httpx.Protected(cfg.JWT.Secret)
	maybe := httpx.MaybeProtected(cfg.JWT.Secret)

	api := router.PathPrefix("/api").Subrouter()

	api.Handle("/surveys", protected(http.HandlerFunc(handlers.ListSurveys))).Methods(http.MethodGet)
	api.Handle("/surveys/{uuid}/stat", protected(http.HandlerFunc(handlers.SurveyStat))).Methods(http.MethodGet)
	api.Handle("/surveys/{uuid}/stat/users", protected(http.HandlerFunc(handlers.SurveyUserStat))).Methods(http.MethodGet)
	api.Handle("/surveys/{uuid}/complete", maybe(http.HandlerFunc(handlers.CompleteSurvey))).Methods(http.MethodPost)
	api.Handle("/answers", maybe(http.HandlerFunc(handlers.SubmitAnswer))).Methods(http.MethodPost)

	return router
}
