package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// FileEntry holds the last content hash seen for a file.
type FileEntry struct {
	FilePath    string
	ContentHash string
	ScannedAt   time.Time
}

// GetFileEntry retrieves the file entry for path.
// Returns sql.ErrNoRows if the file has not been extracted.
func (c *Cache) GetFileEntry(path string) (*FileEntry, error) {
	var entry FileEntry
	var scannedAt string
	err := c.db.QueryRow(`
		SELECT file_path, content_hash, scanned_at FROM file_index WHERE file_path = ?`,
		path).Scan(&entry.FilePath, &entry.ContentHash, &scannedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get file entry %s: %w", path, err)
	}
	entry.ScannedAt, _ = time.Parse(time.RFC3339, scannedAt)
	return &entry, nil
}

// IsFileChanged checks if a file's content has changed since it was last
// extracted. Returns true if the file has changed or was never extracted.
func (c *Cache) IsFileChanged(path, newHash string) (bool, error) {
	entry, err := c.GetFileEntry(path)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return entry.ContentHash != newHash, nil
}

// GetAllFileEntries retrieves all file entries ordered by path.
func (c *Cache) GetAllFileEntries() ([]FileEntry, error) {
	rows, err := c.db.Query(`
		SELECT file_path, content_hash, scanned_at FROM file_index ORDER BY file_path`)
	if err != nil {
		return nil, fmt.Errorf("query file entries: %w", err)
	}
	defer rows.Close()

	var entries []FileEntry
	for rows.Next() {
		var entry FileEntry
		var scannedAt string
		if err := rows.Scan(&entry.FilePath, &entry.ContentHash, &scannedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		entry.ScannedAt, _ = time.Parse(time.RFC3339, scannedAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return entries, nil
}

// DeleteFile removes a file and all its documents.
func (c *Cache) DeleteFile(path string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM documents WHERE file_path = ?", path); err != nil {
		tx.Rollback()
		return fmt.Errorf("delete documents %s: %w", path, err)
	}
	if _, err := tx.Exec("DELETE FROM file_index WHERE file_path = ?", path); err != nil {
		tx.Rollback()
		return fmt.Errorf("delete file entry %s: %w", path, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// PruneStaleEntries removes files for which keep returns false, typically
// because they no longer exist on disk.
func (c *Cache) PruneStaleEntries(keep func(path string) bool) (int, error) {
	entries, err := c.GetAllFileEntries()
	if err != nil {
		return 0, err
	}

	var pruned int
	for _, entry := range entries {
		if keep(entry.FilePath) {
			continue
		}
		if err := c.DeleteFile(entry.FilePath); err != nil {
			return pruned, err
		}
		pruned++
	}
	return pruned, nil
}
