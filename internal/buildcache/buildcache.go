// Package buildcache caches emitted class files between command line
// builds. Entries are keyed by a digest of the recipe bytes, so a recipe
// that has not changed is served from the cache instead of being compiled
// again. The cache lives in a single sqlite database file.
package buildcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// formatVersion is folded into every key. Bumping it invalidates all
// existing entries, which is required whenever the emitted class file
// format changes for the same recipe.
const formatVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS classes (
	key     TEXT PRIMARY KEY,
	name    TEXT NOT NULL,
	data    BLOB NOT NULL,
	created INTEGER NOT NULL
);`

// Key returns the cache key for a recipe document.
func Key(recipe []byte) string {
	h := sha256.New()
	fmt.Fprintf(h, "bromejvm/%d\n", formatVersion)
	h.Write(recipe)
	return hex.EncodeToString(h.Sum(nil))
}

// Entry is one cached build: the class internal name and the serialized
// class file.
type Entry struct {
	Name string
	Data []byte
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries int64
	Bytes   int64
}

// Cache is a build cache backed by a sqlite database file.
type Cache struct {
	db *sql.DB
}

// Open opens the cache in dir, creating the directory and the database as
// needed.
func Open(ctx context.Context, dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("opening build cache: %w", err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, "cache.db"))
	if err != nil {
		return nil, fmt.Errorf("opening build cache: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening build cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Get looks up a cached build. The second return value reports whether the
// key was present.
func (c *Cache) Get(ctx context.Context, key string) (*Entry, bool, error) {
	var e Entry
	row := c.db.QueryRowContext(ctx,
		"SELECT name, data FROM classes WHERE key = ?", key)
	if err := row.Scan(&e.Name, &e.Data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading build cache: %w", err)
	}
	return &e, true, nil
}

// Put stores a build under key, replacing any existing entry.
func (c *Cache) Put(ctx context.Context, key, name string, data []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO classes (key, name, data, created) VALUES (?, ?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET name = excluded.name, data = excluded.data`,
		key, name, data, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("writing build cache: %w", err)
	}
	return nil
}

// Stats reports the number of cached classes and their total size.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	row := c.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(LENGTH(data)), 0) FROM classes")
	if err := row.Scan(&s.Entries, &s.Bytes); err != nil {
		return Stats{}, fmt.Errorf("reading build cache: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
