package api

import (
	"context"
	"fmt"

	"github.com/andersmmg/novel-app/internal/apperr"
	"github.com/andersmmg/novel-app/internal/library"
	"github.com/andersmmg/novel-app/internal/sse"
	"github.com/andersmmg/novel-app/internal/story"
)

// Service coordinates library operations for the API layer and publishes
// change events to the SSE broker.
type Service struct {
	lib    *library.Library
	broker *sse.Broker
}

// NewService creates a new API service. broker may be nil when no event
// stream is wanted.
func NewService(lib *library.Library, broker *sse.Broker) *Service {
	return &Service{lib: lib, broker: broker}
}

// ListStories returns the catalog, most recently edited first.
func (s *Service) ListStories(ctx context.Context) ([]StoryListItem, error) {
	rows, err := s.lib.List()
	if err != nil {
		return nil, err
	}
	items := make([]StoryListItem, len(rows))
	for i, r := range rows {
		items[i] = listItemFromRow(r)
	}
	return items, nil
}

// CreateStory makes a new persisted story and announces it.
func (s *Service) CreateStory(ctx context.Context, title string) (*StoryDetail, error) {
	st, err := s.lib.Create(title)
	if err != nil {
		return nil, err
	}
	s.publish("created", st.Path)
	return s.detail(ctx, st)
}

// GetStory loads and fully decodes one story.
func (s *Service) GetStory(ctx context.Context, path string) (*StoryDetail, error) {
	st, err := s.lib.Load(path)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, st)
}

// DeleteStory removes a story and announces the removal.
func (s *Service) DeleteStory(ctx context.Context, path string) error {
	if err := s.lib.Delete(path); err != nil {
		return err
	}
	s.publish("deleted", path)
	return nil
}

// GetChapter returns one chapter of a story, frontmatter included.
func (s *Service) GetChapter(ctx context.Context, path, chapterPath string) (*ChapterDetail, error) {
	st, err := s.lib.Load(path)
	if err != nil {
		return nil, err
	}
	ch := st.ChapterByPath(chapterPath)
	if ch == nil {
		return nil, errChapterNotFound(chapterPath)
	}
	return chapterDetail(ch), nil
}

// UpdateChapter replaces a chapter's content, persists the story and
// announces the change. Counters are recomputed by the update.
func (s *Service) UpdateChapter(ctx context.Context, path, chapterPath, content string) (*ChapterDetail, error) {
	st, err := s.lib.Load(path)
	if err != nil {
		return nil, err
	}
	if !st.UpdateChapter(chapterPath, story.FileUpdate{Content: &content}) {
		return nil, errChapterNotFound(chapterPath)
	}
	if err := s.lib.Save(st); err != nil {
		return nil, err
	}
	s.publish("updated", path)
	return chapterDetail(st.ChapterByPath(chapterPath)), nil
}

// Stats returns the derived statistics for one story. The paragraph count
// is computed against the live configuration.
func (s *Service) Stats(ctx context.Context, path string) (*StatsResponse, error) {
	st, err := s.lib.Load(path)
	if err != nil {
		return nil, err
	}
	// A provider failure falls back to the default threshold; the
	// returned count is usable either way.
	paragraphs, _ := st.ParagraphCount(ctx)
	md := st.Metadata()
	resp := &StatsResponse{
		Path:           path,
		WordCount:      md.WordCount,
		QuoteCount:     md.QuoteCount,
		ParagraphCount: paragraphs,
	}
	if md.Goals != nil {
		resp.Goals = md.Goals
	}
	return resp, nil
}

func (s *Service) detail(ctx context.Context, st *story.Story) (*StoryDetail, error) {
	md := st.Metadata()
	out := &StoryDetail{
		Path:           st.Path,
		Title:          md.Title,
		Author:         md.Author,
		Genre:          md.Genre,
		Description:    md.Description,
		Created:        md.Created,
		Edited:         md.Edited,
		WordCount:      md.WordCount,
		QuoteCount:     md.QuoteCount,
		ParagraphCount: md.ParagraphCount,
		Goals:          md.Goals,
		Chapters:       []ChapterOutline{},
		Notes:          []NodeDTO{},
	}
	for _, ch := range st.SortedChapters() {
		out.Chapters = append(out.Chapters, chapterOutline(ch))
	}
	for _, n := range st.RootNotes() {
		out.Notes = append(out.Notes, nodeDTO(n))
	}
	for _, fo := range st.Folders() {
		out.Notes = append(out.Notes, nodeDTO(fo))
	}
	return out, nil
}

func errChapterNotFound(path string) error {
	return fmt.Errorf("api: chapter %s: %w", path, apperr.ErrNotFound)
}

func (s *Service) publish(kind, path string) {
	if s.broker != nil {
		s.broker.PublishStoryEvent(kind, path)
	}
}
