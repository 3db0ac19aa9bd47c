package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/andersmmg/novel-app/internal/apperr"
	"github.com/andersmmg/novel-app/internal/parser"
	"github.com/andersmmg/novel-app/internal/story"
)

func makeArchive(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return buf.Bytes()
}

func TestReadOrdersChaptersByPrecedence(t *testing.T) {
	data := makeArchive(t, map[string]string{
		"story.yml":       "title: Test\n",
		"chapters/a.md":   "Intro",
		"chapters/b.md":   "---\norder: 0\n---\nFirst",
	})

	st, err := Read(data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	md := st.Metadata()
	if md.Title != "Test" {
		t.Fatalf("title = %q, want Test", md.Title)
	}

	chapters := st.SortedChapters()
	if len(chapters) != 2 {
		t.Fatalf("got %d chapters, want 2", len(chapters))
	}
	if chapters[0].Path != "chapters/b.md" || chapters[1].Path != "chapters/a.md" {
		t.Fatalf("order = [%s %s], want [chapters/b.md chapters/a.md]", chapters[0].Path, chapters[1].Path)
	}
	if *chapters[0].Order != 0 || *chapters[1].Order != 1 {
		t.Fatalf("orders = [%d %d], want [0 1]", *chapters[0].Order, *chapters[1].Order)
	}
	if md.WordCount != 2 {
		t.Fatalf("wordCount = %d, want 2", md.WordCount)
	}
}

func TestReadFilenameFallbackOrder(t *testing.T) {
	data := makeArchive(t, map[string]string{
		"chapters/zebra.md": "one",
		"chapters/apple.md": "two",
	})
	st, err := Read(data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	chapters := st.SortedChapters()
	if chapters[0].Name != "apple.md" || chapters[1].Name != "zebra.md" {
		t.Fatalf("got [%s %s], want filename order", chapters[0].Name, chapters[1].Name)
	}
}

func TestReadBuildsNoteTree(t *testing.T) {
	data := makeArchive(t, map[string]string{
		"notes/loose.md":               "a loose note",
		"notes/characters/folder.yml":  "title: Cast\ncolor: red\n",
		"notes/characters/hero.md":     "---\ntitle: The Hero\n---\nBrave.",
		"notes/characters/minor/x.md":  "walk-on part",
	})
	st, err := Read(data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(st.RootNotes()) != 1 || st.RootNotes()[0].Name != "loose.md" {
		t.Fatalf("root notes = %+v", st.RootNotes())
	}
	folders := st.Folders()
	if len(folders) != 1 {
		t.Fatalf("got %d folders, want 1", len(folders))
	}
	cast := folders[0]
	if cast.Title != "Cast" {
		t.Fatalf("folder title = %q, want Cast", cast.Title)
	}
	if cast.Metadata["color"] != "red" {
		t.Fatalf("folder metadata = %v", cast.Metadata)
	}
	if len(cast.Children) != 2 {
		t.Fatalf("got %d children, want 2", len(cast.Children))
	}
}

func TestReadIgnoresForeignEntries(t *testing.T) {
	data := makeArchive(t, map[string]string{
		"chapters/a.md": "hello",
		"assets/x.png":  "not text",
		"README":        "ignore me",
	})
	st, err := Read(data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := len(st.AllFiles()); got != 1 {
		t.Fatalf("got %d files, want 1", got)
	}
}

func TestReadBadStoryMetadataIsFatal(t *testing.T) {
	data := makeArchive(t, map[string]string{
		"story.yml":     "title: [unclosed",
		"chapters/a.md": "fine",
	})
	if _, err := Read(data); !errors.Is(err, apperr.ErrInvalidArchive) {
		t.Fatalf("err = %v, want ErrInvalidArchive", err)
	}
}

func TestReadBadFileMetadataIsTolerated(t *testing.T) {
	data := makeArchive(t, map[string]string{
		"chapters/a.md": "---\ntitle: [unclosed\n---\nbody here",
	})
	st, err := Read(data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	ch := st.SortedChapters()[0]
	if len(ch.Metadata) != 0 {
		t.Fatalf("metadata = %v, want empty", ch.Metadata)
	}
}

func TestReadNotAZip(t *testing.T) {
	if _, err := Read([]byte("plain text")); !errors.Is(err, apperr.ErrInvalidArchive) {
		t.Fatalf("err = %v, want ErrInvalidArchive", err)
	}
}

func TestReadMetadata(t *testing.T) {
	data := makeArchive(t, map[string]string{
		"story.yml":     "title: Fast Path\nauthor: Someone\ncustom: kept\n",
		"chapters/a.md": "should not be decoded",
	})
	md, err := ReadMetadata(data)
	if err != nil {
		t.Fatalf("ReadMetadata: %v", err)
	}
	if md.Title != "Fast Path" || md.Author != "Someone" {
		t.Fatalf("metadata = %+v", md)
	}
	if md.Extra["custom"] != "kept" {
		t.Fatalf("extra = %v", md.Extra)
	}
}

func TestReadMetadataMissing(t *testing.T) {
	data := makeArchive(t, map[string]string{"chapters/a.md": "x"})
	if _, err := ReadMetadata(data); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestWriteInjectsFrontmatter(t *testing.T) {
	st := story.New(story.Metadata{Title: "Mine"})
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	order := 0
	st.AddChapter(&story.File{
		Name:     "one.md",
		Path:     "chapters/one.md",
		Content:  "Body text.",
		Created:  created,
		Edited:   created,
		Order:    &order,
		Metadata: map[string]any{"title": "One", "mood": "tense"},
	})

	data, err := Write(st)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	var chapter string
	for _, zf := range zr.File {
		if zf.Name == "chapters/one.md" {
			rc, _ := zf.Open()
			buf := new(bytes.Buffer)
			buf.ReadFrom(rc)
			rc.Close()
			chapter = buf.String()
		}
	}
	if !strings.HasPrefix(chapter, "---\n") {
		t.Fatalf("chapter not frontmatter-prefixed: %q", chapter)
	}
	for _, want := range []string{"order: 0", "mood: tense", "created: \"2024-03-01T10:00:00Z\"", "Body text."} {
		if !strings.Contains(chapter, want) {
			t.Fatalf("chapter missing %q:\n%s", want, chapter)
		}
	}
}

func TestWriteAdvancesEditedTimestamp(t *testing.T) {
	st := story.New(story.Metadata{Title: "Stamp"})
	before := st.Metadata().Edited
	if _, err := Write(st); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !st.Metadata().Edited.After(before) {
		t.Fatal("edited timestamp not advanced")
	}
}

func TestWriteEmptyMetadataOmitsStoryEntry(t *testing.T) {
	st := story.New(story.Metadata{})
	data, err := Write(st)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	zr, _ := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	for _, zf := range zr.File {
		if zf.Name == metadataEntry {
			t.Fatal("story.yml written for empty metadata")
		}
	}
}

func TestRoundTrip(t *testing.T) {
	data := makeArchive(t, map[string]string{
		"story.yml":                   "title: Loop\nauthor: A\nseries: saga\n",
		"chapters/b.md":               "---\norder: 1\ntitle: Second\n---\nMore words here.",
		"chapters/a.md":               "---\norder: 0\ntitle: First\n---\nSome \"quoted\" words.",
		"notes/ideas.md":              "a thought",
		"notes/people/folder.yml":     "title: People\n",
		"notes/people/protagonist.md": "---\ntitle: Lead\n---\nDetails.",
	})

	first, err := Read(data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	out, err := Write(first)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	second, err := Read(out)
	if err != nil {
		t.Fatalf("re-Read: %v", err)
	}

	type chapterShape struct {
		Path  string
		Order int
		Title string
		Body  string
	}
	shape := func(st *story.Story) []chapterShape {
		var out []chapterShape
		for _, ch := range st.SortedChapters() {
			out = append(out, chapterShape{
				Path:  ch.Path,
				Order: *ch.Order,
				Title: ch.Title,
				Body:  parser.Separate(ch.Content).Content,
			})
		}
		return out
	}
	if diff := cmp.Diff(shape(first), shape(second)); diff != "" {
		t.Fatalf("chapters changed across round trip (-first +second):\n%s", diff)
	}

	md1, md2 := first.Metadata(), second.Metadata()
	if md1.Title != md2.Title || md1.Author != md2.Author {
		t.Fatalf("metadata changed: %+v vs %+v", md1, md2)
	}
	if md2.Extra["series"] != "saga" {
		t.Fatalf("extension field lost: %v", md2.Extra)
	}
	if md1.WordCount != md2.WordCount || md1.QuoteCount != md2.QuoteCount {
		t.Fatalf("counts changed: %d/%d vs %d/%d", md1.WordCount, md1.QuoteCount, md2.WordCount, md2.QuoteCount)
	}
	if len(second.Folders()) != 1 || second.Folders()[0].Title != "People" {
		t.Fatalf("note tree changed: %+v", second.Folders())
	}
	if len(second.RootNotes()) != 1 {
		t.Fatalf("root notes changed: %+v", second.RootNotes())
	}
}
