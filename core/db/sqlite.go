package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type SQLiteConfig struct {
	Path string
}

// created_at is a fixed-width UTC timestamp so text ordering matches time ordering.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS query_history (
    id              INTEGER PRIMARY KEY,
    schema          TEXT NOT NULL,
    user_story      TEXT NOT NULL,
    generated_query TEXT NOT NULL,
    created_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_query_history_created_at ON query_history (created_at DESC, id DESC);
`

// OpenSQLite opens (creating if needed) a SQLite database and applies the
// history schema. Use ":memory:" for an ephemeral database.
func OpenSQLite(ctx context.Context, cfg SQLiteConfig) (*sql.DB, error) {
	dsn := cfg.Path
	if dsn != ":memory:" {
		dsn += "?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// SQLite serializes writers anyway; a single connection also keeps an
	// in-memory database alive for the lifetime of the pool.
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, sqliteSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running sqlite schema migration: %w", err)
	}
	return conn, nil
}
