// Command server runs the chat backend HTTP API.
//
// It loads configuration from the environment (optionally seeded from a .env
// file), opens the SQLite store, wires the sentiment classifier client, and
// serves the REST API with graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stajtalk/chat-backend/internal/config"
	httpapi "github.com/stajtalk/chat-backend/internal/http"
	"github.com/stajtalk/chat-backend/internal/observability"
	"github.com/stajtalk/chat-backend/internal/repo"
	"github.com/stajtalk/chat-backend/internal/sentiment"
	"github.com/stajtalk/chat-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	shutdownOTel, err := observability.SetupOTel(context.Background(), cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("init tracing")
	}

	classifier := sentiment.NewHTTPClassifier(cfg.Sentiment)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, classifier, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("version", version).
			Str("sentiment_url", cfg.Sentiment.BaseURL).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := shutdownOTel(ctx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}
