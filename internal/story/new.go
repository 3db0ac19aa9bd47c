package story

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/andersmmg/novel-app/internal/parser"
)

// NewEmpty creates a fresh story with default metadata and a generated
// archive filename.
func NewEmpty(title string) *Story {
	if title == "" {
		title = "Untitled Story"
	}
	now := time.Now()
	st := New(Metadata{
		Title:   title,
		Created: now,
		Edited:  now,
	})
	st.Path = strings.ToLower(ulid.Make().String()) + ".story"
	return st
}

// NewChapter creates a chapter file under chapters/ from a display title.
func NewChapter(title, content string) *File {
	return newFile("chapters/", title, content)
}

// NewNote creates a note file under notes/ from a display title.
func NewNote(title, content string) *File {
	return newFile("notes/", title, content)
}

func newFile(base, title, content string) *File {
	name := parser.Slug(title) + ".md"
	now := time.Now()
	return &File{
		ID:       strings.TrimSuffix(name, ".md"),
		Name:     name,
		Path:     base + name,
		Content:  content,
		Title:    title,
		Created:  now,
		Edited:   now,
		Metadata: map[string]any{"title": title},
	}
}

// NewFolder creates a note folder. The folder name defaults to the
// slugified title.
func NewFolder(title, name string) *Folder {
	if name == "" {
		name = parser.Slug(title)
	}
	return &Folder{
		ID:    name,
		Name:  name,
		Path:  "notes/" + name + "/",
		Title: title,
		Metadata: map[string]any{
			"title":   title,
			"created": time.Now(),
		},
	}
}
