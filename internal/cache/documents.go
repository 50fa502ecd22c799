package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Key identifies one rendered document.
type Key struct {
	Path        string
	ContentHash string
	OptionsHash string
}

// GetDocument returns the document stored under key. ok is false when
// nothing is stored or the stored document was built from other content.
func (c *Cache) GetDocument(key Key) (doc string, ok bool, err error) {
	var contentHash string
	err = c.db.QueryRow(`
		SELECT content_hash, document FROM documents WHERE file_path = ? AND options_hash = ?`,
		key.Path, key.OptionsHash).Scan(&contentHash, &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get document %s: %w", key.Path, err)
	}
	if contentHash != key.ContentHash {
		return "", false, nil
	}
	return doc, true, nil
}

// PutDocument stores doc under key and records the file's content hash.
// Documents for the same file built from older content are dropped.
func (c *Cache) PutDocument(key Key, doc string) error {
	now := time.Now().Format(time.RFC3339)

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM documents WHERE file_path = ? AND content_hash != ?`,
		key.Path, key.ContentHash); err != nil {
		tx.Rollback()
		return fmt.Errorf("drop stale documents %s: %w", key.Path, err)
	}
	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO documents (file_path, options_hash, content_hash, document, extracted_at)
		VALUES (?, ?, ?, ?, ?)`,
		key.Path, key.OptionsHash, key.ContentHash, doc, now); err != nil {
		tx.Rollback()
		return fmt.Errorf("save document %s: %w", key.Path, err)
	}
	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO file_index (file_path, content_hash, scanned_at)
		VALUES (?, ?, ?)`,
		key.Path, key.ContentHash, now); err != nil {
		tx.Rollback()
		return fmt.Errorf("set file scanned %s: %w", key.Path, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
