package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/hyperus/surveys/internal/config"
	"github.com/hyperus/surveys/internal/scheduler"
	"github.com/hyperus/surveys/internal/server"
	"github.com/hyperus/surveys/internal/storage"
	"github.com/hyperus/surveys/internal/storage/providers"
	httptransport "github.com/hyperus/surveys/internal/transport/http"
)

func main() {
	cfg := config.MustLoad()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := storage.InitDB(cfg.DatabaseUrl)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	allProviders := providers.New(db)
	scheduler.NewSurveyScheduler(allProviders.SurveyProvider, time.Minute).Start(ctx)

	router := httptransport.Router(db, cfg)

	addr := ":" + cfg.Server.Port
	log.Printf("listening on %s", addr)
	if err := server.Start(ctx, addr, router, cfg.CORS.AllowedOrigins); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
