package handler

import (
	"context"
	"net/http"
	"strconv"

	"sentiment-rest-api/internal/model"
	"sentiment-rest-api/internal/repository"
	"sentiment-rest-api/pkg/apierror"
	"sentiment-rest-api/pkg/response"

	"github.com/rs/zerolog/log"
)

// MaxLogsLimit caps the limit query parameter of GET /logs.
const MaxLogsLimit = 1000

// AuditReader lists audit records.
type AuditReader interface {
	ListRecent(ctx context.Context, limit int) ([]model.LogRecord, error)
}

// LogHandler serves the read-only audit trail.
type LogHandler struct {
	audit AuditReader
}

// NewLogHandler creates a new log handler.
func NewLogHandler(audit AuditReader) *LogHandler {
	return &LogHandler{audit: audit}
}

// ListLogs handles GET /logs?limit=N and returns only anonymized fields.
func (h *LogHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit := repository.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxLogsLimit {
			response.Error(w, apierror.BadRequest("limit must be an integer between 1 and 1000"))
			return
		}
		limit = n
	}

	records, err := h.audit.ListRecent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("audit_list_failed")
		response.Error(w, apierror.InternalError("Failed to fetch logs"))
		return
	}

	entries := make([]model.LogEntry, len(records))
	for i := range records {
		entries[i] = records[i].Entry()
	}

	response.Raw(w, http.StatusOK, entries)
}
