// Package audit keeps an append-only record of result-scoped actions
// (webhook resends, exports, bulk-export requests). Search history is
// deliberately not persisted; only operator actions are.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DB wraps the audit database connection.
type DB struct {
	conn *sql.DB
	path string
}

// schema is the single audit table. The log is append-only; rows are never
// updated or deleted by the application.
const schema = `
CREATE TABLE IF NOT EXISTS action_log (
	id          TEXT PRIMARY KEY,
	action      TEXT NOT NULL,
	kind        TEXT NOT NULL,
	result_id   TEXT NOT NULL,
	business_id TEXT NOT NULL DEFAULT '',
	session_id  TEXT NOT NULL DEFAULT '',
	outcome     TEXT NOT NULL,
	message     TEXT NOT NULL DEFAULT '',
	detail      BLOB,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_action_log_created_at ON action_log(created_at);
CREATE INDEX IF NOT EXISTS idx_action_log_result ON action_log(kind, result_id);
`

// Open opens (and if necessary creates) the audit database. The connection
// uses WAL with full synchronous writes; this is an audit trail, safety wins
// over speed.
func Open(path string) (*DB, error) {
	// file: URIs are used for in-memory databases in tests; skip filepath
	// resolution for those.
	if !strings.HasPrefix(path, "file:") {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve audit database path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create audit database directory: %w", err)
		}
		path = absPath
	}

	connStr := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(FULL)" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=busy_timeout(5000)"

	conn, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxIdleTime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping audit database: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to apply audit schema: %w", err)
	}

	return &DB{conn: conn, path: path}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Conn returns the underlying connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// WALCheckpoint truncates the WAL file; run before backing up the database so
// the archive contains a complete snapshot.
func (db *DB) WALCheckpoint() error {
	if _, err := db.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("WAL checkpoint failed: %w", err)
	}
	return nil
}

// HealthCheck pings the database and verifies integrity.
func (db *DB) HealthCheck(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	var result string
	if err := db.conn.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check query failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}
	return nil
}
