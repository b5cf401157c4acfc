// Package history persists a local record of completed builds.
//
// The store is purely additive observability: the build pipeline writes one
// row per completed build and never reads the table back, so deleting the
// database is always safe.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Build is one recorded build.
type Build struct {
	ID           string
	Fingerprint  string
	Pages        int
	Fragments    int
	Variants     int
	SkippedPages int
	Duration     time.Duration
	CreatedAt    time.Time
}

// Store records builds in SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if needed) the build-history database.
// Use ":memory:" for an in-memory database.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		pages INTEGER NOT NULL,
		fragments INTEGER NOT NULL,
		variants INTEGER NOT NULL,
		skipped_pages INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		created INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_created ON builds(created);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record appends one completed build.
func (s *Store) Record(ctx context.Context, b Build) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := b.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (build_id, fingerprint, pages, fragments, variants, skipped_pages, duration_ms, created) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		b.ID, b.Fingerprint, b.Pages, b.Fragments, b.Variants, b.SkippedPages,
		b.Duration.Milliseconds(), created.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

// ListRecent returns up to limit builds, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Build, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT build_id, fingerprint, pages, fragments, variants, skipped_pages, duration_ms, created FROM builds ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		var b Build
		var durationMs, created int64
		if err := rows.Scan(&b.ID, &b.Fingerprint, &b.Pages, &b.Fragments, &b.Variants, &b.SkippedPages, &durationMs, &created); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		b.Duration = time.Duration(durationMs) * time.Millisecond
		b.CreatedAt = time.Unix(created, 0)
		builds = append(builds, b)
	}
	return builds, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
