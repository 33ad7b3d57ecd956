package repository

import (
	"context"
	"errors"

	"sentiment-rest-api/internal/model"
)

// DefaultListLimit is used by ListRecent when limit is not positive.
const DefaultListLimit = 100

// ErrStoreClosed is returned by operations on a closed store.
var ErrStoreClosed = errors.New("audit store is closed")

// AuditLogRepository is an append-only store of classification events.
type AuditLogRepository interface {
	// Append persists rec in one transaction and sets rec.ID.
	// Implementations serialize concurrent appends; ids follow commit order.
	Append(ctx context.Context, rec *model.LogRecord) error

	// ListRecent returns up to limit records, newest (highest id) first.
	// The original hash is never read back.
	ListRecent(ctx context.Context, limit int) ([]model.LogRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)

	// Stats returns storage statistics for status reporting.
	Stats(ctx context.Context) (map[string]interface{}, error)

	// Close closes the repository connection.
	Close() error
}
