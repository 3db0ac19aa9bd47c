// Package library is the service layer over the archive store and the
// catalog: it loads, saves, creates and deletes .story archives and keeps
// the catalog row for each one current.
package library

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/andersmmg/novel-app/internal/apperr"
	"github.com/andersmmg/novel-app/internal/archive"
	"github.com/andersmmg/novel-app/internal/checksum"
	"github.com/andersmmg/novel-app/internal/index"
	"github.com/andersmmg/novel-app/internal/storage"
	"github.com/andersmmg/novel-app/internal/story"
)

// Library coordinates the archive store and the catalog.
type Library struct {
	store  storage.Provider
	db     index.StoryIndex
	stats  story.ConfigProvider
	logger *slog.Logger
}

// New creates a Library. stats may be nil when no live statistics
// configuration is available; loaded stories then fall back to defaults.
func New(store storage.Provider, db index.StoryIndex, stats story.ConfigProvider, logger *slog.Logger) *Library {
	return &Library{store: store, db: db, stats: stats, logger: logger}
}

// List returns the catalog rows, most recently edited first.
func (l *Library) List() ([]index.StoryRow, error) {
	return l.db.ListStories()
}

// Load reads and fully decodes the archive at path.
func (l *Library) Load(path string) (*story.Story, error) {
	data, err := l.read(path)
	if err != nil {
		return nil, err
	}
	st, err := archive.Read(data)
	if err != nil {
		return nil, fmt.Errorf("library: decode %s: %w", path, err)
	}
	st.Path = path
	if l.stats != nil {
		st.SetStatsProvider(l.stats)
	}
	return st, nil
}

// LoadMetadata reads only the metadata record of the archive at path.
func (l *Library) LoadMetadata(path string) (*story.Metadata, error) {
	data, err := l.read(path)
	if err != nil {
		return nil, err
	}
	md, err := archive.ReadMetadata(data)
	if err != nil {
		return nil, fmt.Errorf("library: decode %s: %w", path, err)
	}
	return md, nil
}

// Save serializes the story, writes its archive atomically and refreshes
// the catalog row.
func (l *Library) Save(st *story.Story) error {
	if st.Path == "" {
		return fmt.Errorf("library: save: story has no path")
	}
	data, err := archive.Write(st)
	if err != nil {
		return fmt.Errorf("library: encode %s: %w", st.Path, err)
	}
	if err := l.store.Write(st.Path, data); err != nil {
		return fmt.Errorf("library: save %s: %w", st.Path, err)
	}
	l.reindex(st.Path, data, st.Metadata())
	return nil
}

// Create makes a new story with the given title, persists it and returns
// it. The archive path is derived from a fresh ULID; an unlikely collision
// surfaces as ErrAlreadyExists.
func (l *Library) Create(title string) (*story.Story, error) {
	st := story.NewEmpty(title)
	exists, err := l.store.Exists(st.Path)
	if err != nil {
		return nil, fmt.Errorf("library: create: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("library: create %s: %w", st.Path, apperr.ErrAlreadyExists)
	}
	if l.stats != nil {
		st.SetStatsProvider(l.stats)
	}
	if err := l.Save(st); err != nil {
		return nil, err
	}
	l.logger.Info("library: created story", slog.String("path", st.Path), slog.String("title", st.Metadata().Title))
	return st, nil
}

// Delete removes the archive and its catalog row.
func (l *Library) Delete(path string) error {
	if err := l.store.Delete(path); err != nil {
		return fmt.Errorf("library: delete %s: %w", path, err)
	}
	if err := l.db.DeleteStory(path); err != nil {
		l.logger.Warn("library: catalog delete failed", slog.String("path", path), slog.String("error", err.Error()))
	}
	return nil
}

// Rename moves an archive and migrates its catalog row.
func (l *Library) Rename(oldPath, newPath string) error {
	exists, err := l.store.Exists(newPath)
	if err != nil {
		return fmt.Errorf("library: rename: %w", err)
	}
	if exists {
		return fmt.Errorf("library: rename to %s: %w", newPath, apperr.ErrConflict)
	}
	if err := l.store.Move(oldPath, newPath); err != nil {
		return fmt.Errorf("library: rename %s: %w", oldPath, err)
	}
	if err := l.db.DeleteStory(oldPath); err != nil {
		l.logger.Warn("library: catalog delete failed", slog.String("path", oldPath), slog.String("error", err.Error()))
	}
	data, err := l.store.Read(newPath)
	if err != nil {
		return nil
	}
	md, err := archive.ReadMetadata(data)
	if err != nil {
		md = &story.Metadata{}
	}
	l.reindex(newPath, data, *md)
	return nil
}

// read loads raw archive bytes, mapping a missing file to ErrNotFound so
// callers can distinguish it from IO failures.
func (l *Library) read(path string) ([]byte, error) {
	data, err := l.store.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("library: %s: %w", path, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("library: load %s: %w", path, err)
	}
	return data, nil
}

func (l *Library) reindex(path string, data []byte, md story.Metadata) {
	row := index.StoryRow{
		Path:           path,
		Title:          md.Title,
		Author:         md.Author,
		Genre:          md.Genre,
		Description:    md.Description,
		Checksum:       checksum.Sum(data),
		Created:        md.Created,
		Edited:         md.Edited,
		WordCount:      md.WordCount,
		QuoteCount:     md.QuoteCount,
		ParagraphCount: md.ParagraphCount,
	}
	if err := l.db.UpsertStory(row); err != nil {
		l.logger.Warn("library: catalog update failed", slog.String("path", path), slog.String("error", err.Error()))
	}
}
