package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sentiment-rest-api/internal/cache"
	"sentiment-rest-api/internal/classifier"
	"sentiment-rest-api/internal/config"
	"sentiment-rest-api/internal/handler"
	"sentiment-rest-api/internal/middleware"
	"sentiment-rest-api/internal/repository"
	"sentiment-rest-api/internal/router"
	"sentiment-rest-api/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.MustLoad()
	setupLogging(cfg.App)

	log.Info().
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting_sentiment_api")

	// Audit store
	auditRepo, err := repository.OpenAuditLog(cfg.AuditDB.Type, cfg.AuditDB.DSN())
	if err != nil {
		log.Fatal().Err(err).Str("type", cfg.AuditDB.Type).Msg("audit_store_init_failed")
	}
	defer auditRepo.Close()

	// Prediction cache
	predictionCache := newCache(cfg.Cache)
	if predictionCache != nil {
		defer predictionCache.Close()
	}

	// Classifier (nil means the model is unavailable)
	var clf classifier.Classifier
	if cfg.Classifier.Enabled {
		clf = classifier.NewHTTPClassifier(classifier.HTTPConfig{
			BaseURL: cfg.Classifier.URL,
			Model:   cfg.Classifier.Model,
			Token:   cfg.Classifier.Token,
			Timeout: cfg.Classifier.Timeout,
		})
		if predictionCache != nil {
			clf = classifier.NewCachedClassifier(clf, predictionCache, cfg.Cache.TTL)
		}
		log.Info().Str("model", cfg.Classifier.Model).Msg("classifier_initialized")
	} else {
		log.Warn().Msg("classifier_disabled")
	}

	// Services
	auditService := service.NewAuditService(auditRepo)
	predictionService := service.NewPredictionService(clf, auditService)

	// Handlers
	h := handler.New(handler.Config{
		Model:     predictionService,
		Audit:     auditService,
		Cache:     predictionCache,
		StaticDir: cfg.Server.StaticDir,
		Version:   cfg.App.Version,
	})

	if len(cfg.App.AuditKeys) == 0 {
		log.Warn().Msg("audit_endpoint_unprotected")
	}

	r := router.New(router.Config{
		Handler:           h,
		PredictionHandler: handler.NewPredictionHandler(predictionService),
		LogHandler:        handler.NewLogHandler(auditService),
		AuditMiddleware:   middleware.NewAPIKeyMiddleware(cfg.App.AuditKeys),
		StaticDir:         cfg.Server.StaticDir,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Address()).Msg("server_listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server_error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server_shutdown_error")
	}

	log.Info().Msg("server_stopped")
}

// setupLogging configures the global zerolog logger.
func setupLogging(app config.AppConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(app.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if app.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// newCache builds the prediction cache. A Redis outage at startup falls back
// to the in-memory cache.
func newCache(cfg config.CacheConfig) cache.Cache {
	switch strings.ToLower(cfg.Type) {
	case "none", "off", "":
		log.Info().Msg("prediction_cache_disabled")
		return nil
	case "redis":
		rc, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.RedisAddress(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err == nil {
			return rc
		}
		log.Warn().Err(err).Msg("redis_unavailable_using_memory_cache")
	}
	return cache.NewMemoryCache(time.Minute)
}
