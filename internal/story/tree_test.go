package story

import (
	"strings"
	"testing"
)

func flat(path, content string) FlatFile {
	segs := strings.Split(path, "/")
	return FlatFile{File: &File{Name: segs[len(segs)-1], Path: path, Content: content}}
}

func TestBuildFolderTree_NestsAndSplits(t *testing.T) {
	folders, rootFiles := BuildFolderTree([]FlatFile{
		flat("notes/idea.md", "spark"),
		flat("notes/places/city.md", "the city"),
		flat("notes/places/old/ruins.md", "ruins"),
	}, "notes/")

	if len(rootFiles) != 1 || rootFiles[0].Path != "notes/idea.md" {
		t.Fatalf("rootFiles = %v", rootFiles)
	}
	if len(folders) != 1 || folders[0].Name != "places" {
		t.Fatalf("folders = %v", folders)
	}
	places := folders[0]
	if places.Path != "notes/places/" {
		t.Errorf("places path = %q", places.Path)
	}
	if len(places.Children) != 2 {
		t.Fatalf("places children = %d, want 2", len(places.Children))
	}
	old, ok := places.Children[0].(*Folder)
	if !ok || old.Name != "old" {
		t.Fatalf("first child = %v, want folder old (folders sort first)", places.Children[0])
	}
	if old.Path != "notes/places/old/" {
		t.Errorf("old path = %q", old.Path)
	}
}

func TestBuildFolderTree_PathPrefixInvariant(t *testing.T) {
	folders, _ := BuildFolderTree([]FlatFile{
		flat("notes/a/b/c/deep.md", ""),
		flat("notes/a/top.md", ""),
	}, "notes/")

	var check func(fo *Folder, parentPath string)
	check = func(fo *Folder, parentPath string) {
		if !strings.HasPrefix(fo.Path, parentPath) {
			t.Errorf("folder %q not under parent %q", fo.Path, parentPath)
		}
		for _, child := range fo.Children {
			if !strings.HasPrefix(child.NodePath(), fo.Path) {
				t.Errorf("child %q not under folder %q", child.NodePath(), fo.Path)
			}
			if sub, ok := child.(*Folder); ok {
				check(sub, fo.Path)
			}
		}
	}
	for _, fo := range folders {
		check(fo, "notes/")
	}
}

func TestBuildFolderTree_SidecarSetsFolderMetadata(t *testing.T) {
	folders, _ := BuildFolderTree([]FlatFile{
		flat("notes/places/city.md", ""),
		flat("notes/places/places.yml", "title: Important Places\ncreated: 2024-01-01\n"),
	}, "notes/")

	places := folders[0]
	if places.Title != "Important Places" {
		t.Errorf("title = %q", places.Title)
	}
	if places.Metadata == nil || places.Metadata["title"] != "Important Places" {
		t.Errorf("metadata = %v", places.Metadata)
	}
	// The sidecar itself must not appear as a child.
	for _, child := range places.Children {
		if strings.HasSuffix(child.NodeName(), ".yml") {
			t.Errorf("sidecar leaked into children: %v", child.NodeName())
		}
	}
}

func TestBuildFolderTree_RootSidecarDropped(t *testing.T) {
	folders, rootFiles := BuildFolderTree([]FlatFile{
		flat("notes/stray.yml", "title: Stray"),
	}, "notes/")
	if len(folders) != 0 || len(rootFiles) != 0 {
		t.Errorf("root sidecar should be dropped, got folders=%v files=%v", folders, rootFiles)
	}
}

func TestBuildFolderTree_IgnoresDirsAndForeignPrefixes(t *testing.T) {
	folders, rootFiles := BuildFolderTree([]FlatFile{
		{File: &File{Name: "places", Path: "notes/places/"}, IsDir: true},
		flat("chapters/a.md", "not a note"),
		flat("notes/keep.md", "kept"),
	}, "notes/")
	if len(folders) != 0 {
		t.Errorf("folders = %v, want none", folders)
	}
	if len(rootFiles) != 1 || rootFiles[0].Path != "notes/keep.md" {
		t.Errorf("rootFiles = %v", rootFiles)
	}
}

func TestBuildFolderTree_ChildSorting(t *testing.T) {
	folders, _ := BuildFolderTree([]FlatFile{
		flat("notes/box/zebra.md", ""),
		flat("notes/box/alpha.md", ""),
		flat("notes/box/sub/x.md", ""),
	}, "notes/")

	box := folders[0]
	names := make([]string, len(box.Children))
	for i, c := range box.Children {
		names[i] = c.NodeName()
	}
	want := []string{"sub", "alpha.md", "zebra.md"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("children = %v, want %v", names, want)
		}
	}
}
