// Package story defines the document model for a writing project: an
// ordered chapter list, a folder tree of notes, and story-level metadata
// with derived statistics.
package story

import "time"

// Kind discriminates the node variants of the notes tree.
type Kind int

const (
	KindFile Kind = iota
	KindFolder
)

// Node is a member of the notes tree: either a *File or a *Folder.
type Node interface {
	NodeKind() Kind
	NodeName() string
	NodePath() string
}

// File is a leaf entry: a chapter or a note. Path is the archive-relative
// location and doubles as the file's unique key. Content holds the raw
// entry text, frontmatter included when present.
type File struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Path     string         `json:"path"`
	Content  string         `json:"content"`
	Title    string         `json:"title,omitempty"`
	Created  time.Time      `json:"created,omitzero"`
	Edited   time.Time      `json:"edited,omitzero"`
	Order    *int           `json:"order,omitempty"` // chapters only
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (f *File) NodeKind() Kind   { return KindFile }
func (f *File) NodeName() string { return f.Name }
func (f *File) NodePath() string { return f.Path }

// Folder is an internal node of the notes tree. Path always ends in "/"
// and is the concatenation of the parent's path and the folder's name.
type Folder struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Path     string         `json:"path"`
	Title    string         `json:"title,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Children []Node         `json:"children"`
}

func (fo *Folder) NodeKind() Kind   { return KindFolder }
func (fo *Folder) NodeName() string { return fo.Name }
func (fo *Folder) NodePath() string { return fo.Path }

// Rebase moves the folder under parentPath, rewriting its own path and
// recursively every descendant's path so paths keep reflecting tree
// position.
func (fo *Folder) Rebase(parentPath string) {
	fo.Path = parentPath + fo.Name + "/"
	for _, child := range fo.Children {
		switch c := child.(type) {
		case *Folder:
			c.Rebase(fo.Path)
		case *File:
			c.Path = fo.Path + c.Name
		}
	}
}

// Files returns every file (not folder) transitively nested under the
// folder, in tree traversal order.
func (fo *Folder) Files() []*File {
	var out []*File
	for _, child := range fo.Children {
		switch c := child.(type) {
		case *Folder:
			out = append(out, c.Files()...)
		case *File:
			out = append(out, c)
		}
	}
	return out
}

// FileUpdate is a partial update for a File; nil fields are left alone.
// A non-nil Metadata replaces the file's metadata mapping as a whole.
type FileUpdate struct {
	Name     *string
	Content  *string
	Title    *string
	Order    *int
	Created  *time.Time
	Edited   *time.Time
	Metadata map[string]any
}

func (u FileUpdate) apply(f *File) {
	if u.Name != nil {
		f.Name = *u.Name
	}
	if u.Content != nil {
		f.Content = *u.Content
	}
	if u.Title != nil {
		f.Title = *u.Title
	}
	if u.Order != nil {
		order := *u.Order
		f.Order = &order
	}
	if u.Created != nil {
		f.Created = *u.Created
	}
	if u.Edited != nil {
		f.Edited = *u.Edited
	}
	if u.Metadata != nil {
		f.Metadata = u.Metadata
	}
}

// FolderUpdate is a partial update for a Folder; nil fields are left alone.
type FolderUpdate struct {
	Title    *string
	Metadata map[string]any
}

func (u FolderUpdate) apply(fo *Folder) {
	if u.Title != nil {
		fo.Title = *u.Title
	}
	if u.Metadata != nil {
		fo.Metadata = u.Metadata
	}
}
