package cache

// schemaSQL defines the SQLite schema for the cache database.
// Tables:
//   - documents: rendered documents per file and options hash
//   - file_index: last content hash seen per file
const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
    file_path TEXT NOT NULL,
    options_hash TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    document TEXT NOT NULL,
    extracted_at TEXT NOT NULL,
    PRIMARY KEY (file_path, options_hash)
);

CREATE TABLE IF NOT EXISTS file_index (
    file_path TEXT PRIMARY KEY,
    content_hash TEXT NOT NULL,
    scanned_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_content ON documents(content_hash);
`

// initSchema creates the database tables and indexes if they don't exist.
func (c *Cache) initSchema() error {
	_, err := c.db.Exec(schemaSQL)
	return err
}
