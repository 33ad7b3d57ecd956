package handler

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"sentiment-rest-api/internal/cache"
	"sentiment-rest-api/pkg/response"
)

// ModelStatus reports whether the sentiment model is usable.
type ModelStatus interface {
	ModelLoaded() bool
}

// StatsSource exposes audit store statistics.
type StatsSource interface {
	Stats(ctx context.Context) (map[string]interface{}, error)
}

// Handler contains shared HTTP handlers and their dependencies.
type Handler struct {
	model     ModelStatus
	audit     StatsSource
	cache     cache.Cache
	staticDir string
	version   string
	startTime time.Time
}

// Config holds Handler dependencies. Nil fields are reported as not configured.
type Config struct {
	Model     ModelStatus
	Audit     StatsSource
	Cache     cache.Cache
	StaticDir string
	Version   string
}

// New creates a new handler.
func New(cfg Config) *Handler {
	return &Handler{
		model:     cfg.Model,
		audit:     cfg.Audit,
		cache:     cfg.Cache,
		staticDir: cfg.StaticDir,
		version:   cfg.Version,
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response.Raw(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		ModelLoaded: h.model != nil && h.model.ModelLoaded(),
	})
}

// Home handles GET / by serving index.html from the static directory,
// or a short usage hint when there is none.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if h.staticDir != "" {
		index := filepath.Join(h.staticDir, "index.html")
		if info, err := os.Stat(index); err == nil && !info.IsDir() {
			http.ServeFile(w, r, index)
			return
		}
	}
	response.Raw(w, http.StatusOK, map[string]string{
		"message": "Sentiment API is running. Use POST on /predict.",
	})
}

// StatusResponse represents the status response for monitoring.
type StatusResponse struct {
	Service       string                 `json:"service"`
	Status        string                 `json:"status"`
	Version       string                 `json:"version"`
	Timestamp     string                 `json:"timestamp"`
	UptimeSeconds int64                  `json:"uptime_seconds"`
	MemoryMB      float64                `json:"memory_mb"`
	Goroutines    int                    `json:"goroutines"`
	ModelLoaded   bool                   `json:"model_loaded"`
	AuditLog      map[string]interface{} `json:"audit_log"`
	Cache         *cache.Stats           `json:"cache,omitempty"`
}

// Status handles GET /api/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	memoryMB := float64(memStats.Alloc) / 1024 / 1024

	resp := StatusResponse{
		Service:       "sentiment-api",
		Status:        "ok",
		Version:       h.version,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		MemoryMB:      float64(int(memoryMB*100)) / 100,
		Goroutines:    runtime.NumGoroutine(),
		ModelLoaded:   h.model != nil && h.model.ModelLoaded(),
	}

	if h.audit != nil {
		stats, err := h.audit.Stats(r.Context())
		if err != nil {
			resp.Status = "degraded"
			resp.AuditLog = map[string]interface{}{"status": "error"}
		} else {
			stats["status"] = "connected"
			resp.AuditLog = stats
		}
	} else {
		resp.AuditLog = map[string]interface{}{"status": "not_configured"}
	}

	if h.cache != nil {
		s := h.cache.Stats()
		resp.Cache = &s
	}

	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	response.OK(w, resp)
}
