// Package logbook persists finished transcript lines to SQLite so past
// sessions can be searched after the terminal scrollback is long gone.
package logbook

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    character TEXT NOT NULL,
    host TEXT NOT NULL,
    started_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS lines (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id INTEGER NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    destination TEXT NOT NULL,
    text TEXT NOT NULL,
    logged_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_lines_session ON lines(session_id, id);

CREATE VIRTUAL TABLE IF NOT EXISTS lines_fts USING fts5(
    text,
    content='lines',
    content_rowid='id'
);

CREATE TRIGGER IF NOT EXISTS lines_ai AFTER INSERT ON lines BEGIN
    INSERT INTO lines_fts(rowid, text) VALUES (new.id, new.text);
END;

CREATE TRIGGER IF NOT EXISTS lines_ad AFTER DELETE ON lines BEGIN
    INSERT INTO lines_fts(lines_fts, rowid, text) VALUES ('delete', old.id, old.text);
END;
`

// Store writes transcript lines for one session and answers searches over
// every session in the same database file.
type Store struct {
	db      *sql.DB
	session int64
}

// Entry is one logged line, as returned by Search and Tail.
type Entry struct {
	Destination string
	Text        string
	LoggedAt    time.Time
}

// Open opens (creating if needed) the logbook database at path and starts a
// new session row for the given character and host.
func Open(path, character, host string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create logbook directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open logbook: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize logbook schema: %w", err)
	}

	res, err := db.Exec(`INSERT INTO sessions (character, host) VALUES (?, ?)`, character, host)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("start logbook session: %w", err)
	}
	session, err := res.LastInsertId()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("start logbook session: %w", err)
	}

	return &Store{db: db, session: session}, nil
}

// Append records one finished line for a destination.
func (s *Store) Append(ctx context.Context, destination, text string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lines (session_id, destination, text) VALUES (?, ?, ?)`,
		s.session, destination, text)
	if err != nil {
		return fmt.Errorf("append line: %w", err)
	}
	return nil
}

// Search runs a full-text query over all sessions, newest match first.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.destination, l.text, l.logged_at
		FROM lines_fts f
		JOIN lines l ON l.id = f.rowid
		WHERE lines_fts MATCH ?
		ORDER BY l.id DESC
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search logbook: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Tail returns the most recent lines of the current session, oldest first.
func (s *Store) Tail(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT destination, text, logged_at
		FROM lines
		WHERE session_id = ?
		ORDER BY id DESC
		LIMIT ?`, s.session, limit)
	if err != nil {
		return nil, fmt.Errorf("tail logbook: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Destination, &e.Text, &e.LoggedAt); err != nil {
			return nil, fmt.Errorf("scan logbook line: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SearchFile runs a one-off full-text query against an existing logbook
// without starting a session. Used by the CLI.
func SearchFile(ctx context.Context, path, query string, limit int) ([]Entry, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no logbook at %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open logbook: %w", err)
	}
	defer db.Close()

	s := &Store{db: db}
	if limit <= 0 {
		limit = 50
	}
	return s.Search(ctx, query, limit)
}
