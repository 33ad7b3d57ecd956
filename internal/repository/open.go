package repository

import "fmt"

// OpenAuditLog opens the audit store for the given backend type.
// An empty type selects SQLite.
func OpenAuditLog(dbType, dsn string) (*SQLAuditLogRepository, error) {
	switch dbType {
	case "", "sqlite", "sqlite3":
		return NewSQLiteAuditLogRepository(dsn)
	case "mysql":
		return NewMySQLAuditLogRepository(dsn)
	case "postgres", "postgresql":
		return NewPostgresAuditLogRepository(dsn)
	default:
		return nil, fmt.Errorf("unsupported audit database type %q", dbType)
	}
}
