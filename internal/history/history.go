// Package history provides a SQLite-backed log of question/answer exchanges.
// Each pipeline operation that produces generated text records one exchange;
// the log survives restarts and powers the `voyago history` command. The
// pipeline treats history as best-effort: a write failure is logged, never
// surfaced to the caller.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register "sqlite" driver
)

// Operation identifies which pipeline operation produced an exchange.
type Operation string

const (
	// OpQuery is a free-text travel question.
	OpQuery Operation = "query"
	// OpPlan is a preference-driven travel plan.
	OpPlan Operation = "plan"
	// OpDestination is a destination summary lookup.
	OpDestination Operation = "destination"
)

// Exchange is a single recorded question/answer pair.
type Exchange struct {
	// Operation is the pipeline operation that produced this exchange.
	Operation Operation
	// Prompt is the user's input: the query text, the formatted preferences,
	// or the destination name.
	Prompt string
	// Response is the generated answer.
	Response string
	// CreatedAt is when the exchange was persisted.
	CreatedAt time.Time
}

// Store persists and retrieves exchanges. Implementations must be safe for
// concurrent use.
type Store interface {
	// Append persists a single exchange.
	Append(ctx context.Context, ex Exchange) error
	// Recent returns the most recent n exchanges, ordered oldest-first.
	// If fewer than n exist, all are returned.
	Recent(ctx context.Context, n int) ([]Exchange, error)
	// Close releases any resources held by the store.
	Close() error
}

// SQLiteStore is a Store backed by a local SQLite database.
type SQLiteStore struct {
	// db is the underlying database connection pool.
	db *sql.DB
}

// DefaultDBPath returns the default path for the exchange history database.
// It resolves to ~/.voyago/history.db, creating the directory if needed.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("history: could not determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".voyago")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("history: could not create %s: %w", dir, err)
	}
	return filepath.Join(dir, "history.db"), nil
}

// Open opens (or creates) a SQLiteStore at the given path and runs the schema
// migration. Use ":memory:" for an in-memory database in tests.
func Open(path string) (*SQLiteStore, error) {
	// WAL mode improves concurrent read performance and is safe for single-host use.
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	// Limit to a single writer connection to avoid SQLITE_BUSY under concurrent writes.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// migrate creates the schema if it does not already exist.
func (s *SQLiteStore) migrate() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS exchanges (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    operation    TEXT    NOT NULL CHECK(operation IN ('query','plan','destination')),
    prompt       TEXT    NOT NULL,
    response     TEXT    NOT NULL,
    created_at   INTEGER NOT NULL  -- Unix timestamp (seconds)
);
CREATE INDEX IF NOT EXISTS idx_exchanges_created
    ON exchanges (created_at);
`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("history: migrate: %w", err)
	}
	return nil
}

// Append persists a single exchange.
func (s *SQLiteStore) Append(ctx context.Context, ex Exchange) error {
	created := ex.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	const q = `INSERT INTO exchanges (operation, prompt, response, created_at) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, string(ex.Operation), ex.Prompt, ex.Response, created.Unix()); err != nil {
		return fmt.Errorf("history: append: %w", err)
	}
	return nil
}

// Recent returns the most recent n exchanges, ordered oldest-first. Uses a
// subquery to select the tail then re-order for display.
func (s *SQLiteStore) Recent(ctx context.Context, n int) ([]Exchange, error) {
	const q = `
SELECT operation, prompt, response, created_at FROM (
    SELECT id, operation, prompt, response, created_at
    FROM   exchanges
    ORDER  BY created_at DESC, id DESC
    LIMIT  ?
) ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, q, n)
	if err != nil {
		return nil, fmt.Errorf("history: recent: %w", err)
	}
	defer rows.Close()

	var exchanges []Exchange
	for rows.Next() {
		var ex Exchange
		var ts int64
		var op string
		if err := rows.Scan(&op, &ex.Prompt, &ex.Response, &ts); err != nil {
			return nil, fmt.Errorf("history: recent scan: %w", err)
		}
		ex.Operation = Operation(op)
		ex.CreatedAt = time.Unix(ts, 0)
		exchanges = append(exchanges, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: recent rows: %w", err)
	}
	return exchanges, nil
}

// Close releases the database connection pool.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("history: close: %w", err)
	}
	return nil
}
