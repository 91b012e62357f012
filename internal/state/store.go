// Package state persists build history in SQLite so the version counter and
// recent-build listing survive daemon rebuilds.
package state

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Build statuses recorded in the history.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// BuildRecord is one completed (or failed) build.
type BuildRecord struct {
	Seq      int64         `json:"seq"`
	BuildID  string        `json:"build_id"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Songs    int           `json:"songs"`
	Pages    int           `json:"pages"`
	Status   string        `json:"status"`
	Error    string        `json:"error,omitempty"`
}

// Store is a SQLite-backed build history.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates or opens a build-history database. Use ":memory:" for a
// history that lives only as long as the process.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open build history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize build history schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		started INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		songs INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		status TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// NextVersion returns the version counter the next build should carry.
func (s *Store) NextVersion(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var max sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT MAX(seq) FROM builds").Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("query version counter: %w", err)
	}
	return max.Int64 + 1, nil
}

// Record appends a completed build to the history.
func (s *Store) Record(ctx context.Context, rec BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (build_id, started, duration_ms, songs, pages, status, error) VALUES (?, ?, ?, ?, ?, ?, ?)",
		rec.BuildID, rec.Started.Unix(), rec.Duration.Milliseconds(),
		rec.Songs, rec.Pages, rec.Status, rec.Error,
	)
	if err != nil {
		return fmt.Errorf("record build: %w", err)
	}
	return nil
}

// Recent returns up to n builds, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]BuildRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT seq, build_id, started, duration_ms, songs, pages, status, error FROM builds ORDER BY seq DESC LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("query build history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []BuildRecord
	for rows.Next() {
		var rec BuildRecord
		var started, durationMS int64
		if err := rows.Scan(&rec.Seq, &rec.BuildID, &started, &durationMS,
			&rec.Songs, &rec.Pages, &rec.Status, &rec.Error); err != nil {
			return nil, fmt.Errorf("scan build row: %w", err)
		}
		rec.Started = time.Unix(started, 0)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, rec)
	}
	return out, rows.Err()
}
