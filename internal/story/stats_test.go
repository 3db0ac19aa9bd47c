package story

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fixedStats struct {
	min int
	err error
}

func (f fixedStats) StatsConfig(context.Context) (StatsConfig, error) {
	return StatsConfig{MinWordsPerParagraph: f.min}, f.err
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestUpdateWordCount_SyncCounters(t *testing.T) {
	s := New(Metadata{})
	s.AddChapter(chapter("chapters/a.md", nil, `He said "stop" and ran away.`))
	s.AddChapter(chapter("chapters/b.md", nil, "---\ntitle: b\n---\n\nTwo words"))

	md := s.Metadata()
	if md.WordCount != 8 {
		t.Errorf("wordCount = %d, want 8", md.WordCount)
	}
	if md.QuoteCount != 1 {
		t.Errorf("quoteCount = %d, want 1", md.QuoteCount)
	}
}

func TestUpdateWordCount_NotesExcluded(t *testing.T) {
	s := New(Metadata{})
	s.AddChapter(chapter("chapters/a.md", nil, "one two"))
	s.AddRootNote(&File{Name: "n.md", Path: "notes/n.md", Content: "three four five"})
	if got := s.Metadata().WordCount; got != 2 {
		t.Errorf("wordCount = %d, want 2 (notes are not manuscript)", got)
	}
}

func TestUpdateWordCount_AsyncParagraphs(t *testing.T) {
	s := New(Metadata{})
	s.SetStatsProvider(fixedStats{min: 3})
	s.AddChapter(chapter("chapters/a.md", nil, "enough words right here\n\ntiny"))

	waitFor(t, func() bool { return s.Metadata().ParagraphCount == 1 })
}

func TestParagraphCount_UsesLiveConfig(t *testing.T) {
	s := New(Metadata{})
	s.AddChapter(chapter("chapters/a.md", nil, "one two three\n\nfour five"))

	s.SetStatsProvider(fixedStats{min: 1})
	n, err := s.ParagraphCount(context.Background())
	if err != nil || n != 2 {
		t.Errorf("count = %d, err = %v, want 2", n, err)
	}

	s.SetStatsProvider(fixedStats{min: 3})
	n, err = s.ParagraphCount(context.Background())
	if err != nil || n != 1 {
		t.Errorf("count = %d, err = %v, want 1", n, err)
	}
}

func TestParagraphCount_ConfigFailureFallsBack(t *testing.T) {
	s := New(Metadata{})
	s.AddChapter(chapter("chapters/a.md", nil, "some words here"))
	s.SetStatsProvider(fixedStats{err: errors.New("config store down")})

	n, err := s.ParagraphCount(context.Background())
	if err == nil {
		t.Error("expected the provider error to surface")
	}
	if n != 1 {
		t.Errorf("count = %d, want 1 (default threshold)", n)
	}
}

func TestRecomputeParagraphs_LaterRequestWins(t *testing.T) {
	s := New(Metadata{})
	s.AddChapter(chapter("chapters/a.md", nil, "first version"))

	// An old request completing after a newer one must not overwrite it.
	s.recomputeParagraphs(10, []string{"a\n\nb\n\nc"})
	s.recomputeParagraphs(5, []string{"only one"})

	if got := s.Metadata().ParagraphCount; got != 3 {
		t.Errorf("paragraphCount = %d, want 3 (stale result discarded)", got)
	}
}

func TestRecomputeParagraphs_EqualSeqApplies(t *testing.T) {
	s := New(Metadata{})
	s.recomputeParagraphs(1, []string{"one"})
	s.recomputeParagraphs(2, []string{"one\n\ntwo"})
	if got := s.Metadata().ParagraphCount; got != 2 {
		t.Errorf("paragraphCount = %d, want 2", got)
	}
}
