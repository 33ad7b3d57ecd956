package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
)

var mysqlDialect = dialect{
	name: "mysql",
	schema: []string{`
	CREATE TABLE IF NOT EXISTS logs (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		created_at VARCHAR(20) NOT NULL,
		original_hash CHAR(64) NOT NULL,
		anonymized_text TEXT NOT NULL,
		label VARCHAR(64) NOT NULL,
		score DOUBLE NOT NULL,
		client_ip VARCHAR(45) NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	insert: `
		INSERT INTO logs (created_at, original_hash, anonymized_text, label, score, client_ip)
		VALUES (?, ?, ?, ?, ?, ?)`,
	list: `
		SELECT id, created_at, anonymized_text, label, score, client_ip
		FROM logs
		ORDER BY id DESC
		LIMIT ?`,
}

// NewMySQLAuditLogRepository connects to a MySQL audit database.
// dsn format: "user:password@tcp(host:port)/dbname"
func NewMySQLAuditLogRepository(dsn string) (*SQLAuditLogRepository, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	repo, err := newSQLAuditLogRepository(db, mysqlDialect)
	if err != nil {
		return nil, err
	}

	log.Info().Int("max_open_conns", 10).Msg("mysql_audit_store_initialized")
	return repo, nil
}
