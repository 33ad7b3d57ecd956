package repository

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

var sqliteDialect = dialect{
	name: "sqlite",
	schema: []string{`
	CREATE TABLE IF NOT EXISTS logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TEXT NOT NULL,
		original_hash TEXT NOT NULL,
		anonymized_text TEXT NOT NULL,
		label TEXT NOT NULL,
		score REAL NOT NULL,
		client_ip TEXT
	)`},
	insert: `
		INSERT INTO logs (created_at, original_hash, anonymized_text, label, score, client_ip)
		VALUES (?, ?, ?, ?, ?, ?)`,
	list: `
		SELECT id, created_at, anonymized_text, label, score, client_ip
		FROM logs
		ORDER BY id DESC
		LIMIT ?`,
}

// NewSQLiteAuditLogRepository opens (or creates) the audit database at dbPath.
func NewSQLiteAuditLogRepository(dbPath string) (*SQLAuditLogRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports 1 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	repo, err := newSQLAuditLogRepository(db, sqliteDialect)
	if err != nil {
		return nil, err
	}

	log.Info().Str("path", dbPath).Msg("sqlite_audit_store_initialized")
	return repo, nil
}
