package api

import (
	"time"

	"github.com/andersmmg/novel-app/internal/index"
	"github.com/andersmmg/novel-app/internal/story"
)

// CreateStoryRequest is the request body for creating a story.
type CreateStoryRequest struct {
	Title string `json:"title" example:"My Novel"`
}

// UpdateChapterRequest is the request body for updating chapter content.
type UpdateChapterRequest struct {
	Content string `json:"content" validate:"required"`
}

// StoryListItem is a lightweight item in a list response.
type StoryListItem struct {
	Path           string    `json:"path"`
	Title          string    `json:"title"`
	Author         string    `json:"author,omitempty"`
	Genre          string    `json:"genre,omitempty"`
	Description    string    `json:"description,omitempty"`
	Created        time.Time `json:"created"`
	Edited         time.Time `json:"edited"`
	WordCount      int       `json:"wordCount"`
	QuoteCount     int       `json:"quoteCount"`
	ParagraphCount int       `json:"paragraphCount"`
}

// ChapterOutline summarizes one chapter in a story detail response.
type ChapterOutline struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

// ChapterDetail is the full chapter payload.
type ChapterDetail struct {
	Path     string         `json:"path"`
	Name     string         `json:"name"`
	Title    string         `json:"title"`
	Order    *int           `json:"order,omitempty"`
	Content  string         `json:"content"`
	Created  time.Time      `json:"created"`
	Edited   time.Time      `json:"edited"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NodeDTO is one node of the notes tree; kind is "file" or "folder".
type NodeDTO struct {
	Kind     string         `json:"kind"`
	Name     string         `json:"name"`
	Path     string         `json:"path"`
	Title    string         `json:"title,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Children []NodeDTO      `json:"children,omitempty"`
}

// StoryDetail is the full story response type.
type StoryDetail struct {
	Path           string           `json:"path"`
	Title          string           `json:"title"`
	Author         string           `json:"author,omitempty"`
	Genre          string           `json:"genre,omitempty"`
	Description    string           `json:"description,omitempty"`
	Created        time.Time        `json:"created"`
	Edited         time.Time        `json:"edited"`
	WordCount      int              `json:"wordCount"`
	QuoteCount     int              `json:"quoteCount"`
	ParagraphCount int              `json:"paragraphCount"`
	Goals          *story.Goals     `json:"goals,omitempty"`
	Chapters       []ChapterOutline `json:"chapters"`
	Notes          []NodeDTO        `json:"notes"`
}

// StatsResponse reports the derived statistics for one story.
type StatsResponse struct {
	Path           string       `json:"path"`
	WordCount      int          `json:"wordCount"`
	QuoteCount     int          `json:"quoteCount"`
	ParagraphCount int          `json:"paragraphCount"`
	Goals          *story.Goals `json:"goals,omitempty"`
}

// StoryListResponse wraps library listings.
type StoryListResponse struct {
	Stories []StoryListItem `json:"stories"`
	Total   int             `json:"total"`
}

func listItemFromRow(r index.StoryRow) StoryListItem {
	return StoryListItem{
		Path:           r.Path,
		Title:          r.Title,
		Author:         r.Author,
		Genre:          r.Genre,
		Description:    r.Description,
		Created:        r.Created,
		Edited:         r.Edited,
		WordCount:      r.WordCount,
		QuoteCount:     r.QuoteCount,
		ParagraphCount: r.ParagraphCount,
	}
}

func chapterOutline(f *story.File) ChapterOutline {
	out := ChapterOutline{Path: f.Path, Name: f.Name, Title: f.Title}
	if f.Order != nil {
		out.Order = *f.Order
	}
	return out
}

func chapterDetail(f *story.File) *ChapterDetail {
	return &ChapterDetail{
		Path:     f.Path,
		Name:     f.Name,
		Title:    f.Title,
		Order:    f.Order,
		Content:  f.Content,
		Created:  f.Created,
		Edited:   f.Edited,
		Metadata: f.Metadata,
	}
}

func nodeDTO(n story.Node) NodeDTO {
	switch v := n.(type) {
	case *story.Folder:
		out := NodeDTO{
			Kind:     "folder",
			Name:     v.Name,
			Path:     v.Path,
			Title:    v.Title,
			Metadata: v.Metadata,
		}
		for _, child := range v.Children {
			out.Children = append(out.Children, nodeDTO(child))
		}
		return out
	case *story.File:
		return NodeDTO{
			Kind:     "file",
			Name:     v.Name,
			Path:     v.Path,
			Title:    v.Title,
			Metadata: v.Metadata,
		}
	}
	return NodeDTO{}
}
