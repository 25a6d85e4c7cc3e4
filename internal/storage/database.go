// Package storage persists the LLM call log in SQLite. Brand books themselves are
// never stored.
package storage

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 database/sql driver
)

const schema = `
CREATE TABLE IF NOT EXISTS llm_calls (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    request_id    TEXT NOT NULL DEFAULT '',
    provider      TEXT NOT NULL,
    model         TEXT NOT NULL,
    kind          TEXT NOT NULL,
    success       BOOLEAN NOT NULL DEFAULT 0,
    duration_ms   INTEGER,
    error_message TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_llm_calls_request ON llm_calls(request_id);
CREATE INDEX IF NOT EXISTS idx_llm_calls_kind ON llm_calls(kind);
`

// NewDatabase opens the SQLite file, verifies the connection and runs migrations.
func NewDatabase(dbPath string) (*sqlx.DB, error) {
	// WAL lets the stats endpoint read while a request is writing;
	// busy_timeout waits on lock contention instead of failing.
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", dbPath)

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// SQLite performs best with a single writer connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}
