package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"sentiment-rest-api/internal/model"

	"github.com/rs/zerolog/log"
)

// dialect holds the statements that differ between SQL backends.
type dialect struct {
	name      string
	schema    []string
	insert    string
	returning bool // insert ends with RETURNING id
	list      string
}

// SQLAuditLogRepository implements AuditLogRepository on top of database/sql.
// A single RWMutex guards the handle: appends are exclusive, reads share.
type SQLAuditLogRepository struct {
	db      *sql.DB
	dialect dialect
	mu      sync.RWMutex
	closed  bool
}

func newSQLAuditLogRepository(db *sql.DB, d dialect) (*SQLAuditLogRepository, error) {
	if err := createLogsTable(db, d); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &SQLAuditLogRepository{db: db, dialect: d}, nil
}

// createLogsTable creates the logs table if absent.
func createLogsTable(db *sql.DB, d dialect) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, stmt := range d.schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Append inserts rec and assigns its id.
func (r *SQLAuditLogRepository) Append(ctx context.Context, rec *model.LogRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrStoreClosed
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	args := []interface{}{
		rec.CreatedAtString(),
		rec.OriginalHash,
		rec.AnonymizedText,
		rec.Label,
		rec.Score,
		nullString(rec.ClientIP),
	}

	var id int64
	if r.dialect.returning {
		if err := tx.QueryRowContext(ctx, r.dialect.insert, args...).Scan(&id); err != nil {
			return fmt.Errorf("failed to insert log record: %w", err)
		}
	} else {
		res, err := tx.ExecContext(ctx, r.dialect.insert, args...)
		if err != nil {
			return fmt.Errorf("failed to insert log record: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read log record id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	rec.ID = id
	return nil
}

// ListRecent returns up to limit records ordered by id descending.
func (r *SQLAuditLogRepository) ListRecent(ctx context.Context, limit int) ([]model.LogRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, ErrStoreClosed
	}

	rows, err := r.db.QueryContext(ctx, r.dialect.list, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query log records: %w", err)
	}
	defer rows.Close()

	records := make([]model.LogRecord, 0, min(limit, DefaultListLimit))
	for rows.Next() {
		var (
			rec       model.LogRecord
			createdAt string
			clientIP  sql.NullString
		)
		if err := rows.Scan(&rec.ID, &createdAt, &rec.AnonymizedText, &rec.Label, &rec.Score, &clientIP); err != nil {
			return nil, fmt.Errorf("failed to scan log record: %w", err)
		}
		if rec.CreatedAt, err = time.Parse(model.CreatedAtLayout, createdAt); err != nil {
			return nil, fmt.Errorf("log record %d has malformed created_at %q: %w", rec.ID, createdAt, err)
		}
		if clientIP.Valid {
			ip := clientIP.String
			rec.ClientIP = &ip
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate log records: %w", err)
	}

	return records, nil
}

// Count returns the number of stored records.
func (r *SQLAuditLogRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return 0, ErrStoreClosed
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM logs").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count log records: %w", err)
	}
	return count, nil
}

// Stats returns statistics about the audit store.
func (r *SQLAuditLogRepository) Stats(ctx context.Context) (map[string]interface{}, error) {
	count, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := map[string]interface{}{
		"backend":       r.dialect.name,
		"total_records": count,
	}

	var lastCreated sql.NullString
	if err := r.db.QueryRowContext(ctx, "SELECT MAX(created_at) FROM logs").Scan(&lastCreated); err == nil && lastCreated.Valid {
		stats["last_record_at"] = lastCreated.String
	}

	if r.dialect.name == "sqlite" {
		if size, err := r.sqliteSize(ctx); err == nil {
			stats["db_size_bytes"] = size
		} else {
			log.Warn().Err(err).Msg("sqlite_size_unavailable")
		}
	}

	return stats, nil
}

// sqliteSize returns page_count * page_size. Callers hold r.mu.
func (r *SQLAuditLogRepository) sqliteSize(ctx context.Context) (int64, error) {
	var pageCount, pageSize int64
	if err := r.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0, fmt.Errorf("failed to read page_count: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0, fmt.Errorf("failed to read page_size: %w", err)
	}
	return pageCount * pageSize, nil
}

// Close closes the database connection.
func (r *SQLAuditLogRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	log.Info().Str("backend", r.dialect.name).Msg("audit_store_closed")
	return r.db.Close()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// Ensure SQLAuditLogRepository implements AuditLogRepository
var _ AuditLogRepository = (*SQLAuditLogRepository)(nil)
