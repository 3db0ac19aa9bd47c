// Package index provides the SQLite-backed library catalog: one row per
// .story archive, refreshed by checksum-gated sync and a file watcher.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS stories (
	path            TEXT PRIMARY KEY,
	title           TEXT NOT NULL DEFAULT '',
	author          TEXT NOT NULL DEFAULT '',
	genre           TEXT NOT NULL DEFAULT '',
	description     TEXT NOT NULL DEFAULT '',
	checksum        TEXT NOT NULL DEFAULT '',
	created         DATETIME,
	edited          DATETIME,
	word_count      INTEGER NOT NULL DEFAULT 0,
	quote_count     INTEGER NOT NULL DEFAULT 0,
	paragraph_count INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_stories_edited ON stories(edited);
`

// StoryIndex defines the catalog operations. Consumers should depend on
// this interface rather than the concrete *DB type to facilitate testing
// with mocks.
type StoryIndex interface {
	UpsertStory(row StoryRow) error
	DeleteStory(path string) error
	GetStory(path string) (*StoryRow, error)
	GetChecksum(path string) (string, error)
	ListStories() ([]StoryRow, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies StoryIndex at compile time.
var _ StoryIndex = (*DB)(nil)

// DB wraps a sql.DB with catalog-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
