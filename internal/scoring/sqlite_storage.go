package scoring

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const resultsSchema = `
CREATE TABLE IF NOT EXISTS results (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT NOT NULL,
	hash        TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	mode        TEXT NOT NULL,
	variant     TEXT NOT NULL DEFAULT '',
	score       INTEGER NOT NULL,
	correct     INTEGER NOT NULL DEFAULT 0,
	incorrect   INTEGER NOT NULL DEFAULT 0,
	best_streak INTEGER NOT NULL DEFAULT 0,
	accuracy    REAL NOT NULL DEFAULT 0,
	end_reason  TEXT NOT NULL DEFAULT '',
	timestamp   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS results_hash_mode ON results (hash, mode);
`

// SQLiteStorage is a ScoreStorage backed by a SQLite database file.
type SQLiteStorage struct {
	db *sql.DB
}

// OpenSQLiteStorage opens (creating if needed) the database at path.
// ":memory:" is accepted for tests.
func OpenSQLiteStorage(path string) (*SQLiteStorage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("could not create directory for scores: %w", err)
		}
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serialises writers.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(resultsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create results schema: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStorage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// LoadAll returns every stored result in insertion order.
func (s *SQLiteStorage) LoadAll() ([]ResultEntry, error) {
	rows, err := s.db.Query(`SELECT session_id, hash, title, mode, variant, score,
		correct, incorrect, best_streak, accuracy, end_reason, timestamp
		FROM results ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	entries := make([]ResultEntry, 0)
	for rows.Next() {
		var e ResultEntry
		if err := rows.Scan(&e.SessionID, &e.Hash, &e.Title, &e.Mode, &e.Variant, &e.Score,
			&e.Correct, &e.Incorrect, &e.BestStreak, &e.Accuracy, &e.EndReason, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return entries, nil
}

// SaveAll replaces the stored results with entries in one transaction.
func (s *SQLiteStorage) SaveAll(entries []ResultEntry) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM results`); err != nil {
		return fmt.Errorf("clear results: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO results (session_id, hash, title, mode, variant, score,
		correct, incorrect, best_streak, accuracy, end_reason, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err = stmt.Exec(e.SessionID, e.Hash, e.Title, e.Mode, e.Variant, e.Score,
			e.Correct, e.Incorrect, e.BestStreak, e.Accuracy, e.EndReason, e.Timestamp); err != nil {
			return fmt.Errorf("insert result: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit results: %w", err)
	}
	return nil
}
