// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists handled interactions in a SQLite database
// under the workspace, so operators can audit what the bot was asked
// and what it answered. Recording is best-effort: a history failure is
// never surfaced to the end user.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "history.db"

// Status classifies the outcome of one interaction.
type Status string

const (
	StatusAnswered Status = "answered"
	StatusFailed   Status = "failed"
)

// Interaction is one handled question/answer pair.
type Interaction struct {
	ID        int64     `json:"id"`
	ChatID    int64     `json:"chat_id"`
	Question  string    `json:"question"`
	Mode      string    `json:"mode"`
	Answer    string    `json:"answer"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Store manages the interaction history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the history database at dir/history.db and
// creates the schema if needed.
func NewStore(dir string, maxResults int) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS interactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id INTEGER NOT NULL,
		question TEXT NOT NULL,
		mode TEXT NOT NULL,
		answer TEXT,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Record inserts one interaction. The stored answer is truncated only
// by SQLite's own limits; callers pass the full text.
func (s *Store) Record(ctx context.Context, in Interaction) error {
	ts := in.CreatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interactions (chat_id, question, mode, answer, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		in.ChatID, in.Question, in.Mode, in.Answer, string(in.Status), ts.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording interaction: %w", err)
	}
	return nil
}

// Recent returns the newest interactions, most recent first. A limit of
// 0 uses the store's configured maximum.
func (s *Store) Recent(ctx context.Context, limit int) ([]Interaction, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, chat_id, question, mode, answer, status, created_at
		 FROM interactions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying interactions: %w", err)
	}
	defer rows.Close()

	var out []Interaction
	for rows.Next() {
		var in Interaction
		var status, created string
		if err := rows.Scan(&in.ID, &in.ChatID, &in.Question, &in.Mode, &in.Answer, &status, &created); err != nil {
			return nil, fmt.Errorf("scanning interaction: %w", err)
		}
		in.Status = Status(status)
		if ts, err := time.Parse(time.RFC3339, created); err == nil {
			in.CreatedAt = ts
		}
		out = append(out, in)
	}
	return out, rows.Err()
}
