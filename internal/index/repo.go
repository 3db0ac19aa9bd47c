package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andersmmg/novel-app/internal/apperr"
)

// StoryRow represents a row in the stories table.
type StoryRow struct {
	Path           string
	Title          string
	Author         string
	Genre          string
	Description    string
	Checksum       string
	Created        time.Time
	Edited         time.Time
	WordCount      int
	QuoteCount     int
	ParagraphCount int
}

// UpsertStory inserts or replaces a catalog row.
func (db *DB) UpsertStory(row StoryRow) error {
	_, err := db.conn.Exec(`
		INSERT INTO stories (path, title, author, genre, description, checksum,
			created, edited, word_count, quote_count, paragraph_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title           = excluded.title,
			author          = excluded.author,
			genre           = excluded.genre,
			description     = excluded.description,
			checksum        = excluded.checksum,
			created         = excluded.created,
			edited          = excluded.edited,
			word_count      = excluded.word_count,
			quote_count     = excluded.quote_count,
			paragraph_count = excluded.paragraph_count
	`, row.Path, row.Title, row.Author, row.Genre, row.Description, row.Checksum,
		row.Created, row.Edited, row.WordCount, row.QuoteCount, row.ParagraphCount)
	if err != nil {
		return fmt.Errorf("index: upsert story: %w", err)
	}
	return nil
}

// DeleteStory removes a catalog row.
func (db *DB) DeleteStory(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM stories WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete story: %w", err)
	}
	return nil
}

// GetStory returns one catalog row, or ErrNotFound.
func (db *DB) GetStory(path string) (*StoryRow, error) {
	row := db.conn.QueryRow(`
		SELECT path, title, author, genre, description, checksum,
			created, edited, word_count, quote_count, paragraph_count
		FROM stories WHERE path = ?`, path)
	var out StoryRow
	err := scanStory(row.Scan, &out)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("index: story %s: %w", path, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("index: get story: %w", err)
	}
	return &out, nil
}

// GetChecksum returns the stored checksum for an archive, or empty string
// if not indexed.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM stories WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// ListStories returns every catalog row, most recently edited first.
func (db *DB) ListStories() ([]StoryRow, error) {
	rows, err := db.conn.Query(`
		SELECT path, title, author, genre, description, checksum,
			created, edited, word_count, quote_count, paragraph_count
		FROM stories ORDER BY edited DESC, path ASC`)
	if err != nil {
		return nil, fmt.Errorf("index: list stories: %w", err)
	}
	defer rows.Close()

	var out []StoryRow
	for rows.Next() {
		var r StoryRow
		if err := scanStory(rows.Scan, &r); err != nil {
			return nil, fmt.Errorf("index: scan story: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AllChecksums returns path→checksum for every indexed archive.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM stories`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

func scanStory(scan func(dest ...any) error, r *StoryRow) error {
	var created, edited sql.NullTime
	err := scan(&r.Path, &r.Title, &r.Author, &r.Genre, &r.Description, &r.Checksum,
		&created, &edited, &r.WordCount, &r.QuoteCount, &r.ParagraphCount)
	if err != nil {
		return err
	}
	r.Created = created.Time
	r.Edited = edited.Time
	return nil
}
