package archive

import (
	"archive/zip"
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/andersmmg/novel-app/internal/parser"
	"github.com/andersmmg/novel-app/internal/story"
)

// Write serializes a Story into an archive blob. When the story carries
// metadata its edited timestamp is advanced first, so the in-memory Story
// and the produced archive agree. Chapter and note timestamps, order and
// extension fields are injected back into each entry's frontmatter.
func Write(st *story.Story) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	md := st.Metadata()
	if !md.IsZero() {
		st.Touch()
		md = st.Metadata()
		out, err := yaml.Marshal(parser.DatesToStrings(md.ToMap()))
		if err != nil {
			return nil, fmt.Errorf("archive: marshal %s: %w", metadataEntry, err)
		}
		if err := writeEntry(zw, metadataEntry, out); err != nil {
			return nil, err
		}
	}

	for _, ch := range st.SortedChapters() {
		if err := writeFile(zw, ch); err != nil {
			return nil, err
		}
	}
	for _, n := range st.RootNotes() {
		if err := writeFile(zw, n); err != nil {
			return nil, err
		}
	}
	for _, fo := range st.Folders() {
		if err := writeFolder(zw, fo); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("archive: close: %w", err)
	}
	return buf.Bytes(), nil
}

func writeFile(zw *zip.Writer, f *story.File) error {
	content := parser.InjectFrontmatter(f.Content, parser.FileMeta{
		Created:  f.Created,
		Edited:   f.Edited,
		Order:    f.Order,
		Metadata: f.Metadata,
	})
	return writeEntry(zw, f.Path, []byte(content))
}

// writeFolder emits a folder's sidecar (when it carries metadata or a
// title) followed by its children, depth first.
func writeFolder(zw *zip.Writer, fo *story.Folder) error {
	if len(fo.Metadata) > 0 || fo.Title != "" {
		meta := make(map[string]any, len(fo.Metadata)+1)
		for k, v := range fo.Metadata {
			meta[k] = v
		}
		if _, ok := meta["title"]; !ok && fo.Title != "" {
			meta["title"] = fo.Title
		}
		out, err := yaml.Marshal(parser.DatesToStrings(meta))
		if err != nil {
			return fmt.Errorf("archive: marshal sidecar for %s: %w", fo.Path, err)
		}
		if err := writeEntry(zw, fo.Path+"folder.yml", out); err != nil {
			return err
		}
	}
	for _, child := range fo.Children {
		switch n := child.(type) {
		case *story.Folder:
			if err := writeFolder(zw, n); err != nil {
				return err
			}
		case *story.File:
			if err := writeFile(zw, n); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("archive: create entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("archive: write entry %s: %w", name, err)
	}
	return nil
}
