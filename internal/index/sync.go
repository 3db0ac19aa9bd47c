package index

import (
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/andersmmg/novel-app/internal/apperr"
	"github.com/andersmmg/novel-app/internal/archive"
	"github.com/andersmmg/novel-app/internal/storage"
	"github.com/andersmmg/novel-app/internal/story"
)

// syncWorkers bounds the number of archives decoded concurrently.
const syncWorkers = 4

// Sync walks the library and brings the catalog up to date:
//   - new/changed archives are decoded (metadata only) and upserted
//   - archives removed from disk are deleted from the catalog
//
// Decoding fans out across workers; SQLite serializes the writes.
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	infos, err := store.List()
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(infos))
	var g errgroup.Group
	g.SetLimit(syncWorkers)
	for _, info := range infos {
		disk[info.Path] = struct{}{}

		if checksums[info.Path] == info.Checksum {
			continue
		}

		g.Go(func() error {
			data, err := store.Read(info.Path)
			if err != nil {
				logger.Warn("sync: read failed", slog.String("path", info.Path), slog.String("error", err.Error()))
				return nil
			}
			if err := indexArchive(db, info, data); err != nil {
				logger.Warn("sync: index failed", slog.String("path", info.Path), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: indexed", slog.String("path", info.Path))
			}
			return nil
		})
	}
	_ = g.Wait()

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteStory(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexArchive decodes an archive's metadata record and upserts it. An
// archive without a story.yml is still cataloged, under an empty title.
func indexArchive(db *DB, info storage.ArchiveInfo, data []byte) error {
	md, err := archive.ReadMetadata(data)
	if errors.Is(err, apperr.ErrNotFound) {
		md = &story.Metadata{}
	} else if err != nil {
		return err
	}

	return db.UpsertStory(StoryRow{
		Path:           info.Path,
		Title:          md.Title,
		Author:         md.Author,
		Genre:          md.Genre,
		Description:    md.Description,
		Checksum:       info.Checksum,
		Created:        md.Created,
		Edited:         md.Edited,
		WordCount:      md.WordCount,
		QuoteCount:     md.QuoteCount,
		ParagraphCount: md.ParagraphCount,
	})
}
