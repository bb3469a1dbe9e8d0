// CLAUDE:SUMMARY SQLite interaction journal: one row per answered question, newest-first listing.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

// ErrStoreClosed is returned by operations on a closed store or recorder.
var ErrStoreClosed = errors.New("journal closed")

const (
	defaultRecent = 20
	maxRecent     = 500
	maxQuestion   = 1000
)

// Interaction is one answered question.
type Interaction struct {
	ID        int64     `json:"id"`
	RequestID string    `json:"request_id"`
	Question  string    `json:"question"`
	Label     string    `json:"label"`
	Outcome   string    `json:"outcome"`
	Category  string    `json:"category,omitempty"`
	Score     float64   `json:"score"`
	Transport string    `json:"transport"`
	CreatedAt time.Time `json:"created_at"`
}

// Store manages the interactions SQLite table.
type Store struct {
	db     *sql.DB
	closed atomic.Bool
}

// Open opens (or creates) the SQLite database at path and ensures the
// interactions table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	const ddl = `CREATE TABLE IF NOT EXISTS interactions (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		request_id  TEXT NOT NULL DEFAULT '',
		question    TEXT NOT NULL,
		label       TEXT NOT NULL DEFAULT '',
		outcome     TEXT NOT NULL,
		category    TEXT NOT NULL DEFAULT '',
		score       REAL NOT NULL DEFAULT 0,
		transport   TEXT NOT NULL DEFAULT '',
		created_at  INTEGER NOT NULL
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create interactions table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the SQLite connection.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// Insert writes one interaction. CreatedAt defaults to now.
func (s *Store) Insert(ctx context.Context, it Interaction) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interactions
		(request_id, question, label, outcome, category, score, transport, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		it.RequestID, truncate(it.Question, maxQuestion), it.Label, it.Outcome,
		it.Category, it.Score, it.Transport, it.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// Recent returns up to limit interactions, newest first. A limit outside
// (0, 500] is clamped.
func (s *Store) Recent(ctx context.Context, limit int) ([]Interaction, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed
	}
	switch {
	case limit <= 0:
		limit = defaultRecent
	case limit > maxRecent:
		limit = maxRecent
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, request_id, question, label, outcome,
		category, score, transport, created_at
		FROM interactions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	out := []Interaction{}
	for rows.Next() {
		var it Interaction
		var created int64
		if err := rows.Scan(&it.ID, &it.RequestID, &it.Question, &it.Label, &it.Outcome,
			&it.Category, &it.Score, &it.Transport, &created); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		it.CreatedAt = time.UnixMilli(created)
		out = append(out, it)
	}
	return out, rows.Err()
}

// Count returns the number of stored interactions.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s.closed.Load() {
		return 0, ErrStoreClosed
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM interactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count interactions: %w", err)
	}
	return n, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
