// Package store persists the state of partially failed cleanup runs so a
// later invocation can resume from the first uncleaned segment instead of
// re-paying for the whole transcript.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Store is a SQLite-backed record of partial runs, keyed by video ID.
type Store struct {
	db *sql.DB
}

// PartialRun captures everything needed to resume a failed cleanup run:
// the raw transcript as it was chunked, the chunk size that chunking used,
// how far it got, and the cleaned prefix document produced so far.
type PartialRun struct {
	VideoID   string
	Title     string
	RawText   string
	ChunkSize int // words per segment the failed run chunked with
	Completed int // segments cleaned; also the index to resume from
	Total     int
	Document  string // cleaned segments joined with blank lines
	UpdatedAt time.Time
}

// Open opens or creates the state database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	// Databases from before the chunk_size column lack it; the ALTER fails
	// with a duplicate-column error everywhere else, which is fine.
	_, _ = db.Exec(`ALTER TABLE partial_runs ADD COLUMN chunk_size INTEGER NOT NULL DEFAULT 0`)

	return &Store{db: db}, nil
}

// Close closes the state database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SavePartial stores the state of a partially failed run, replacing any
// earlier state for the same video.
func (s *Store) SavePartial(run PartialRun) error {
	updatedAt := run.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err := s.db.Exec(`INSERT OR REPLACE INTO partial_runs
		(video_id, title, raw_text, chunk_size, completed, total, document, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.VideoID, run.Title, run.RawText, run.ChunkSize, run.Completed,
		run.Total, run.Document, updatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving partial run: %w", err)
	}
	return nil
}

// LoadPartial returns the stored state for a video, if any.
func (s *Store) LoadPartial(videoID string) (PartialRun, bool, error) {
	row := s.db.QueryRow(`SELECT video_id, title, raw_text, chunk_size, completed, total, document, updated_at
		FROM partial_runs WHERE video_id = ?`, videoID)

	var run PartialRun
	var updatedAt string
	err := row.Scan(&run.VideoID, &run.Title, &run.RawText, &run.ChunkSize,
		&run.Completed, &run.Total, &run.Document, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return PartialRun{}, false, nil
	}
	if err != nil {
		return PartialRun{}, false, fmt.Errorf("loading partial run: %w", err)
	}

	if ts, parseErr := time.Parse(time.RFC3339, updatedAt); parseErr == nil {
		run.UpdatedAt = ts
	}
	return run, true, nil
}

// Delete removes the stored state for a video. Deleting absent state is
// not an error.
func (s *Store) Delete(videoID string) error {
	if _, err := s.db.Exec(`DELETE FROM partial_runs WHERE video_id = ?`, videoID); err != nil {
		return fmt.Errorf("deleting partial run: %w", err)
	}
	return nil
}
