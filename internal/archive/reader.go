// Package archive implements the .story container codec: a zip archive of
// frontmatter-annotated text entries plus a story.yml metadata record.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/andersmmg/novel-app/internal/apperr"
	"github.com/andersmmg/novel-app/internal/parser"
	"github.com/andersmmg/novel-app/internal/story"
)

const (
	metadataEntry = "story.yml"
	chaptersBase  = "chapters/"
	notesBase     = "notes/"
)

// Read deserializes an archive blob into a Story. Per-entry metadata that
// fails to parse degrades to empty metadata; a story.yml that fails to
// parse is fatal for the whole read. Entries outside the chapters/ and
// notes/ namespaces are ignored for forward compatibility.
func Read(data []byte) (*story.Story, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("archive: open: %w", apperr.ErrInvalidArchive)
	}

	var entries []story.FlatFile
	var md story.Metadata

	for _, zf := range zr.File {
		name := zf.Name
		if strings.HasSuffix(name, "/") || zf.FileInfo().IsDir() {
			entries = append(entries, story.FlatFile{
				File:  &story.File{Name: baseName(name), Path: name},
				IsDir: true,
			})
			continue
		}

		content, err := readEntry(zf)
		if err != nil {
			return nil, fmt.Errorf("archive: read %s: %w", name, err)
		}

		if name == metadataEntry {
			raw, err := parseYAMLMap(content)
			if err != nil {
				return nil, fmt.Errorf("archive: parse %s: %w", metadataEntry, apperr.ErrInvalidArchive)
			}
			md = story.MetadataFromMap(raw)
			continue
		}

		entries = append(entries, fileEntry(name, string(content)))
	}

	st := story.New(md)

	var chapters []*story.File
	var noteEntries []story.FlatFile
	for _, e := range entries {
		switch {
		case e.IsDir:
			if strings.HasPrefix(e.File.Path, notesBase) {
				noteEntries = append(noteEntries, e)
			}
		case strings.HasPrefix(e.File.Path, chaptersBase):
			chapters = append(chapters, e.File)
		case strings.HasPrefix(e.File.Path, notesBase):
			noteEntries = append(noteEntries, e)
		}
	}

	for _, ch := range orderChapters(chapters) {
		st.AddChapter(ch)
	}

	folders, rootFiles := story.BuildFolderTree(noteEntries, notesBase)
	for _, fo := range folders {
		st.AddNoteFolder(fo)
	}
	for _, f := range rootFiles {
		st.AddRootNote(f)
	}

	// Individual adds already recompute; one final pass settles the counts
	// regardless of insertion order.
	st.UpdateWordCount()
	return st, nil
}

// ReadMetadata parses only the story.yml entry, without decoding anything
// else. Used for fast listings over many archives.
func ReadMetadata(data []byte) (*story.Metadata, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("archive: open: %w", apperr.ErrInvalidArchive)
	}
	for _, zf := range zr.File {
		if zf.Name != metadataEntry {
			continue
		}
		content, err := readEntry(zf)
		if err != nil {
			return nil, fmt.Errorf("archive: read %s: %w", metadataEntry, err)
		}
		raw, err := parseYAMLMap(content)
		if err != nil {
			return nil, fmt.Errorf("archive: parse %s: %w", metadataEntry, apperr.ErrInvalidArchive)
		}
		md := story.MetadataFromMap(raw)
		return &md, nil
	}
	return nil, fmt.Errorf("archive: %s: %w", metadataEntry, apperr.ErrNotFound)
}

// orderChapters sorts by precedence: file-level order, then metadata-level
// order, then filename. Afterwards every chapter holds a file-level order;
// chapters that had neither source receive their position in the sorted
// sequence.
func orderChapters(chapters []*story.File) []*story.File {
	sort.SliceStable(chapters, func(i, j int) bool {
		oi, iok := effectiveOrder(chapters[i])
		oj, jok := effectiveOrder(chapters[j])
		switch {
		case iok && jok:
			return oi < oj
		case iok:
			return true
		case jok:
			return false
		default:
			return chapters[i].Name < chapters[j].Name
		}
	})
	for i, ch := range chapters {
		if o, ok := effectiveOrder(ch); ok {
			order := o
			ch.Order = &order
		} else {
			order := i
			ch.Order = &order
		}
	}
	return chapters
}

func effectiveOrder(f *story.File) (int, bool) {
	if f.Order != nil {
		return *f.Order, true
	}
	if v, ok := f.Metadata["order"]; ok {
		if n, err := cast.ToIntE(v); err == nil {
			return n, true
		}
	}
	return 0, false
}

// fileEntry decodes one text entry: title and metadata come from the
// frontmatter, timestamps from the metadata (created falls back to edited).
func fileEntry(path, content string) story.FlatFile {
	name := baseName(path)
	f := &story.File{
		ID:       strings.TrimSuffix(name, ".md"),
		Name:     name,
		Path:     path,
		Content:  content,
		Title:    parser.ExtractTitle(content),
		Metadata: parser.ParseMetadata(content),
	}
	created, hasCreated := f.Metadata["created"].(time.Time)
	edited, hasEdited := f.Metadata["edited"].(time.Time)
	if hasEdited {
		f.Edited = edited
	}
	switch {
	case hasCreated:
		f.Created = created
	case hasEdited:
		f.Created = edited
	}
	return story.FlatFile{File: f}
}

func parseYAMLMap(content []byte) (map[string]any, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, err
	}
	coerced, _ := parser.CoerceDates(raw).(map[string]any)
	if coerced == nil {
		coerced = map[string]any{}
	}
	return coerced, nil
}

func readEntry(zf *zip.File) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func baseName(path string) string {
	trimmed := strings.TrimSuffix(path, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
