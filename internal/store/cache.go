// Package store caches raw per-activity stream payloads in a local SQLite
// database. Streams for a finished activity do not change, so caching them
// saves the most expensive provider calls on repeated runs. The cache only
// feeds the fetch layer, never the outputs: deleting it changes no output
// byte.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Cache is a stream payload cache keyed by activity id.
type Cache struct {
	db *sql.DB
}

// Open opens the cache database at the given path, creating it if necessary.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached payload for an activity, if present.
func (c *Cache) Get(activityID int64) ([]byte, bool, error) {
	var payload []byte
	err := c.db.QueryRow(
		"SELECT payload FROM stream_cache WHERE activity_id = ?", activityID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cached streams: %w", err)
	}
	return payload, true, nil
}

// Put stores or replaces the payload for an activity.
func (c *Cache) Put(activityID int64, payload []byte) error {
	_, err := c.db.Exec(`
		INSERT INTO stream_cache (activity_id, payload, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(activity_id) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at
	`, activityID, payload, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("caching streams: %w", err)
	}
	return nil
}

// Prune removes every cached payload whose activity id is not in keep.
func (c *Cache) Prune(keep []int64) error {
	if len(keep) == 0 {
		if _, err := c.db.Exec("DELETE FROM stream_cache"); err != nil {
			return fmt.Errorf("pruning cache: %w", err)
		}
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keep)), ",")
	args := make([]any, len(keep))
	for i, id := range keep {
		args[i] = id
	}

	query := fmt.Sprintf("DELETE FROM stream_cache WHERE activity_id NOT IN (%s)", placeholders)
	if _, err := c.db.Exec(query, args...); err != nil {
		return fmt.Errorf("pruning cache: %w", err)
	}
	return nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS stream_cache (
			activity_id INTEGER PRIMARY KEY,
			payload BLOB NOT NULL,
			fetched_at TEXT NOT NULL
		)
	`)
	return err
}
