package story

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Story is the aggregate root of a writing project. Mutating operations
// are synchronous and keep the model's invariants intact before returning:
// chapter order values stay a dense 0..N-1 permutation, note paths stay
// unique, and word/quote counts are recomputed after every change.
//
// The model assumes a single active writer; only the asynchronous
// paragraph recompute touches it from another goroutine, guarded by
// statsMu.
type Story struct {
	// Path is the archive filename the story was loaded from or will be
	// saved to, e.g. "01hq3v....story".
	Path string

	metadata  Metadata
	chapters  []*File
	folders   []*Folder
	rootNotes []*File

	stats      ConfigProvider
	statsMu    sync.Mutex
	parSeq     atomic.Uint64
	parApplied uint64
}

// New creates a Story with the given metadata and no content.
func New(md Metadata) *Story {
	return &Story{metadata: md}
}

// Metadata returns a copy of the story-level metadata.
func (s *Story) Metadata() Metadata {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.metadata
}

// SetMetadata replaces the story-level metadata.
func (s *Story) SetMetadata(md Metadata) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	s.metadata = md
}

// Touch stamps the edited timestamp to now and returns the new value.
func (s *Story) Touch() time.Time {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	now := time.Now()
	s.metadata.Edited = now
	return now
}

// Folders returns the top-level note folders.
func (s *Story) Folders() []*Folder {
	return append([]*Folder(nil), s.folders...)
}

// RootNotes returns the notes that live directly under notes/.
func (s *Story) RootNotes() []*File {
	return append([]*File(nil), s.rootNotes...)
}

// AddChapter inserts a chapter. A chapter without an order is appended:
// it receives the next free index. The chapter list is re-sorted and
// statistics are recomputed.
func (s *Story) AddChapter(f *File) {
	if f.Order == nil {
		setOrder(f, len(s.chapters))
	}
	s.chapters = append(s.chapters, f)
	s.sortChapters()
	s.UpdateWordCount()
}

// SortedChapters re-sorts by order (tolerating external in-place order
// edits) and returns a shallow copy of the chapter list.
func (s *Story) SortedChapters() []*File {
	s.sortChapters()
	return append([]*File(nil), s.chapters...)
}

// ChapterByPath returns the chapter at path, or nil.
func (s *Story) ChapterByPath(path string) *File {
	for _, ch := range s.chapters {
		if ch.Path == path {
			return ch
		}
	}
	return nil
}

// UpdateChapter shallow-merges a partial update into the chapter at path.
// Returns false without mutating anything when no chapter matches.
func (s *Story) UpdateChapter(path string, u FileUpdate) bool {
	ch := s.ChapterByPath(path)
	if ch == nil {
		return false
	}
	u.apply(ch)
	s.sortChapters()
	s.UpdateWordCount()
	return true
}

// DeleteChapter removes the chapter at path and renumbers the remaining
// chapters to dense indices. Returns false when no chapter matches.
func (s *Story) DeleteChapter(path string) bool {
	idx := -1
	for i, ch := range s.chapters {
		if ch.Path == path {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.chapters = append(s.chapters[:idx], s.chapters[idx+1:]...)
	s.sortChapters()
	for i, ch := range s.chapters {
		setOrder(ch, i)
	}
	s.UpdateWordCount()
	return true
}

// ReorderChapters assigns positions from an explicit path permutation.
// The list must name every current chapter exactly once; otherwise no
// mutation is applied and false is returned.
func (s *Story) ReorderChapters(paths []string) bool {
	if len(paths) != len(s.chapters) {
		return false
	}
	byPath := make(map[string]*File, len(s.chapters))
	for _, ch := range s.chapters {
		byPath[ch.Path] = ch
	}
	ordered := make([]*File, 0, len(paths))
	for _, p := range paths {
		ch, ok := byPath[p]
		if !ok {
			return false
		}
		delete(byPath, p)
		ordered = append(ordered, ch)
	}
	for i, ch := range ordered {
		setOrder(ch, i)
	}
	s.chapters = ordered
	s.UpdateWordCount()
	return true
}

// AddRootNote attaches a note directly under notes/.
func (s *Story) AddRootNote(f *File) {
	s.rootNotes = append(s.rootNotes, f)
	s.UpdateWordCount()
}

// AddNoteFolder attaches a top-level note folder.
func (s *Story) AddNoteFolder(fo *Folder) {
	s.folders = append(s.folders, fo)
	s.UpdateWordCount()
}

// FindNote searches root notes first, then every folder tree depth-first.
// Returns the matching node (file or folder) or nil.
func (s *Story) FindNote(path string) Node {
	for _, n := range s.rootNotes {
		if n.Path == path {
			return n
		}
	}
	for _, fo := range s.folders {
		if found := findInFolder(fo, path); found != nil {
			return found
		}
	}
	return nil
}

func findInFolder(fo *Folder, path string) Node {
	if fo.Path == path {
		return fo
	}
	for _, child := range fo.Children {
		switch c := child.(type) {
		case *Folder:
			if found := findInFolder(c, path); found != nil {
				return found
			}
		case *File:
			if c.Path == path {
				return c
			}
		}
	}
	return nil
}

// UpdateNote shallow-merges a partial update into the note at path,
// whether root-level or nested. Returns false when no note matches.
func (s *Story) UpdateNote(path string, u FileUpdate) bool {
	node := s.FindNote(path)
	f, ok := node.(*File)
	if !ok {
		return false
	}
	u.apply(f)
	s.UpdateWordCount()
	return true
}

// UpdateFolder shallow-merges a partial update into the folder at path.
func (s *Story) UpdateFolder(path string, u FolderUpdate) bool {
	node := s.FindNote(path)
	fo, ok := node.(*Folder)
	if !ok {
		return false
	}
	u.apply(fo)
	return true
}

// DeleteNote removes the note or folder at path. A folder is deleted as a
// unit, children included. Returns false when nothing matches.
func (s *Story) DeleteNote(path string) bool {
	for i, n := range s.rootNotes {
		if n.Path == path {
			s.rootNotes = append(s.rootNotes[:i], s.rootNotes[i+1:]...)
			s.UpdateWordCount()
			return true
		}
	}
	for i, fo := range s.folders {
		if fo.Path == path {
			s.folders = append(s.folders[:i], s.folders[i+1:]...)
			s.UpdateWordCount()
			return true
		}
		if deleteFromFolder(fo, path) {
			s.UpdateWordCount()
			return true
		}
	}
	return false
}

func deleteFromFolder(fo *Folder, path string) bool {
	for i, child := range fo.Children {
		if child.NodePath() == path {
			fo.Children = append(fo.Children[:i], fo.Children[i+1:]...)
			return true
		}
		if sub, ok := child.(*Folder); ok && deleteFromFolder(sub, path) {
			return true
		}
	}
	return false
}

// AddNoteToFolder attaches note to the folder at folderPath, rewriting the
// note's path to reflect its new position. Returns false when folderPath
// does not resolve to a folder.
func (s *Story) AddNoteToFolder(folderPath string, note *File) bool {
	fo, ok := s.FindNote(folderPath).(*Folder)
	if !ok {
		return false
	}
	note.Path = fo.Path + note.Name
	fo.Children = append(fo.Children, note)
	s.UpdateWordCount()
	return true
}

// AddSubfolder attaches sub to the folder at folderPath, rebasing sub and
// all its descendants onto the new location.
func (s *Story) AddSubfolder(folderPath string, sub *Folder) bool {
	fo, ok := s.FindNote(folderPath).(*Folder)
	if !ok {
		return false
	}
	sub.Rebase(fo.Path)
	fo.Children = append(fo.Children, sub)
	s.UpdateWordCount()
	return true
}

// AllFiles flattens chapters, root notes, and every file nested under a
// folder, in tree traversal order.
func (s *Story) AllFiles() []*File {
	out := make([]*File, 0, len(s.chapters)+len(s.rootNotes))
	out = append(out, s.chapters...)
	out = append(out, s.rootNotes...)
	for _, fo := range s.folders {
		out = append(out, fo.Files()...)
	}
	return out
}

// sortChapters orders by the order field ascending; chapters without an
// order sort last. The sort is stable so insertion order breaks ties.
func (s *Story) sortChapters() {
	sort.SliceStable(s.chapters, func(i, j int) bool {
		a, b := s.chapters[i].Order, s.chapters[j].Order
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
}

// setOrder assigns a chapter's order and mirrors it into the metadata
// mapping so the value persists in frontmatter.
func setOrder(f *File, n int) {
	order := n
	f.Order = &order
	if f.Metadata == nil {
		f.Metadata = map[string]any{}
	}
	f.Metadata["order"] = n
}
