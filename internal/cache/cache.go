// Package cache provides a SQLite-backed cache of rendered extraction
// documents. The cache lives in .cwrap/cache.db by default; an entry is
// valid while the header's content hash and the extraction options hash
// both match.
package cache

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Cache manages the SQLite database holding rendered documents and the
// per-file scan state.
type Cache struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the cache database at dbPath.
// It initializes the schema if the database is new.
func Open(dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	// Enable WAL mode for concurrent readers while serving
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	cache := &Cache{db: db, dbPath: dbPath}
	if err := cache.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return cache, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Clear removes all cached documents and file entries.
func (c *Cache) Clear() error {
	_, err := c.db.Exec("DELETE FROM documents; DELETE FROM file_index;")
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.dbPath
}

// Stats returns cache statistics.
type Stats struct {
	Documents int64
	Files     int64
	Bytes     int64
}

// GetStats returns statistics about the cache contents.
func (c *Cache) GetStats() (*Stats, error) {
	var stats Stats

	err := c.db.QueryRow("SELECT COUNT(*), COALESCE(SUM(LENGTH(document)), 0) FROM documents").
		Scan(&stats.Documents, &stats.Bytes)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	err = c.db.QueryRow("SELECT COUNT(*) FROM file_index").Scan(&stats.Files)
	if err != nil {
		return nil, fmt.Errorf("count file index: %w", err)
	}

	return &stats, nil
}
