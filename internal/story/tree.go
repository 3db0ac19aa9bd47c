package story

import (
	"sort"
	"strings"

	"github.com/andersmmg/novel-app/internal/parser"
)

// FlatFile is one record of a flat archive listing handed to the tree
// builder. Directory placeholders carry no content.
type FlatFile struct {
	File  *File
	IsDir bool
}

// BuildFolderTree nests a flat path-keyed listing under base (e.g.
// "notes/") into a folder hierarchy. Files whose last segment ends in
// .yml become their folder's sidecar metadata; a sidecar at the root of
// the base prefix has no folder to attach to and is dropped. Children are
// sorted folders-first, then by name.
func BuildFolderTree(entries []FlatFile, base string) ([]*Folder, []*File) {
	root := &Folder{Path: base}

	var files []*File
	for _, e := range entries {
		if e.IsDir || e.File == nil || !strings.HasPrefix(e.File.Path, base) {
			continue
		}
		files = append(files, e.File)
	}

	// First pass: materialize every intermediate folder.
	for _, f := range files {
		parts := splitRel(f.Path, base)
		if len(parts) <= 1 {
			continue
		}
		cur := root
		for _, name := range parts[:len(parts)-1] {
			cur = ensureChildFolder(cur, name)
		}
	}

	// Second pass: attach files and fold sidecars into their folders.
	for _, f := range files {
		parts := splitRel(f.Path, base)
		if len(parts) == 0 {
			continue
		}
		if len(parts) == 1 {
			if !strings.HasSuffix(parts[0], ".yml") {
				root.Children = append(root.Children, f)
			}
			continue
		}
		cur := root
		for _, name := range parts[:len(parts)-1] {
			cur = ensureChildFolder(cur, name)
		}
		if strings.HasSuffix(parts[len(parts)-1], ".yml") {
			applySidecar(cur, f)
		} else {
			cur.Children = append(cur.Children, f)
		}
	}

	sortChildren(root)

	var folders []*Folder
	var rootFiles []*File
	for _, child := range root.Children {
		switch c := child.(type) {
		case *Folder:
			folders = append(folders, c)
		case *File:
			rootFiles = append(rootFiles, c)
		}
	}
	return folders, rootFiles
}

func splitRel(path, base string) []string {
	rel := strings.TrimPrefix(path, base)
	var parts []string
	for _, p := range strings.Split(rel, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func ensureChildFolder(parent *Folder, name string) *Folder {
	for _, child := range parent.Children {
		if fo, ok := child.(*Folder); ok && fo.Name == name {
			return fo
		}
	}
	fo := &Folder{
		ID:   name,
		Name: name,
		Path: parent.Path + name + "/",
	}
	parent.Children = append(parent.Children, fo)
	return fo
}

// applySidecar copies a .yml entry's title and metadata onto its folder.
// The archive read path precomputes both; fall back to parsing when the
// builder is fed raw records.
func applySidecar(fo *Folder, f *File) {
	title := f.Title
	if title == "" {
		title = parser.ExtractTitle(f.Content)
	}
	meta := f.Metadata
	if meta == nil {
		meta = parser.ParseMetadata(f.Content)
	}
	fo.Title = title
	fo.Metadata = meta
}

func sortChildren(fo *Folder) {
	sort.SliceStable(fo.Children, func(i, j int) bool {
		a, b := fo.Children[i], fo.Children[j]
		aFolder := a.NodeKind() == KindFolder
		bFolder := b.NodeKind() == KindFolder
		if aFolder != bFolder {
			return aFolder
		}
		return a.NodeName() < b.NodeName()
	})
	for _, child := range fo.Children {
		if sub, ok := child.(*Folder); ok {
			sortChildren(sub)
		}
	}
}
