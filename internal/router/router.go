package router

import (
	"net/http"

	"sentiment-rest-api/internal/handler"
	"sentiment-rest-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler           *handler.Handler
	PredictionHandler *handler.PredictionHandler
	LogHandler        *handler.LogHandler
	AuditMiddleware   func(http.Handler) http.Handler
	StaticDir         string
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-API-Key"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	if cfg.Handler != nil {
		r.Get("/", cfg.Handler.Home)
		r.Get("/health", cfg.Handler.Health)
		r.Get("/api/status", cfg.Handler.Status)
	}

	if cfg.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(cfg.StaticDir))
		r.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	if cfg.PredictionHandler != nil {
		r.Post("/predict", cfg.PredictionHandler.Predict)
	}

	// Audit trail (optionally API-key protected)
	if cfg.LogHandler != nil {
		r.Group(func(r chi.Router) {
			if cfg.AuditMiddleware != nil {
				r.Use(cfg.AuditMiddleware)
			}
			r.Get("/logs", cfg.LogHandler.ListLogs)
		})
	}

	return r
}
