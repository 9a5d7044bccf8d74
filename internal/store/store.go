// Package store provides a SQLite-backed cache for rendered diagrams.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // register sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS renders (
	hash     TEXT PRIMARY KEY,
	svg      TEXT NOT NULL,
	created  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_renders_created ON renders(created);
`

// Cache maps diagram sources to rendered SVG.
type Cache struct {
	mu  sync.Mutex
	db  *sql.DB
	ttl time.Duration
}

// Open creates or opens a cache database at the given path.
// ttl controls how long entries remain fresh.
func Open(dbPath string, ttl time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	c := &Cache{db: db, ttl: ttl}
	c.purgeStale()
	return c, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}

// Key returns the cache key for text rendered with theme.
func Key(theme, text string) string {
	sum := sha256.Sum256([]byte(theme + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached SVG for text rendered with theme.
// Safe to call on a nil receiver (returns miss).
func (c *Cache) Get(theme, text string) (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().Add(-c.ttl).Unix()
	var svg string
	err := c.db.QueryRow(
		"SELECT svg FROM renders WHERE hash = ? AND created > ?",
		Key(theme, text), cutoff,
	).Scan(&svg)
	if err != nil {
		return "", false
	}
	return svg, true
}

// Put stores a rendered SVG. No-op on nil receiver.
func (c *Cache) Put(theme, text, svg string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	hash := Key(theme, text)
	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO renders (hash, svg, created) VALUES (?, ?, ?)",
		hash, svg, time.Now().Unix(),
	)
	if err != nil {
		log.Warn().Err(err).Str("hash", hash).Msg("failed to cache render")
	}
}

// Len returns the number of stored renders, fresh or not.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM renders").Scan(&n); err != nil {
		return 0
	}
	return n
}

// purgeStale removes entries older than the TTL.
func (c *Cache) purgeStale() {
	cutoff := time.Now().Add(-c.ttl).Unix()
	res, err := c.db.Exec("DELETE FROM renders WHERE created <= ?", cutoff)
	if err != nil {
		log.Warn().Err(err).Msg("failed to purge stale renders")
		return
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Info().Int64("deleted", n).Msg("purged stale render cache entries")
	}
}
