package parser

import "testing"

func TestCountWords_ExcludesFrontmatter(t *testing.T) {
	if got := CountWords("---\ntitle: x\n---\n\nHello world"); got != 2 {
		t.Errorf("words = %d, want 2", got)
	}
}

func TestCountWords_Plain(t *testing.T) {
	if got := CountWords("one  two\nthree\t four"); got != 4 {
		t.Errorf("words = %d, want 4", got)
	}
	if got := CountWords(""); got != 0 {
		t.Errorf("words = %d, want 0", got)
	}
}

func TestCountQuotes(t *testing.T) {
	text := `She said "hello" and then "goodbye, world".`
	if got := CountQuotes(text); got != 2 {
		t.Errorf("quotes = %d, want 2", got)
	}
	if got := CountQuotes(`unbalanced " quote`); got != 0 {
		t.Errorf("quotes = %d, want 0", got)
	}
}

func TestCountQuotes_ExcludesFrontmatter(t *testing.T) {
	text := "---\ntitle: \"quoted\"\n---\n\nShe said \"hi\"."
	if got := CountQuotes(text); got != 1 {
		t.Errorf("quotes = %d, want 1", got)
	}
}

func TestCountParagraphs(t *testing.T) {
	text := "First paragraph has five words here.\n\nShort.\n\n\nThird paragraph also has enough words."
	if got := CountParagraphs(text, 3); got != 2 {
		t.Errorf("paragraphs(min 3) = %d, want 2", got)
	}
	if got := CountParagraphs(text, 1); got != 3 {
		t.Errorf("paragraphs(min 1) = %d, want 3", got)
	}
}

func TestCountParagraphs_BlankLinesWithSpaces(t *testing.T) {
	text := "para one words\n   \npara two words"
	if got := CountParagraphs(text, 1); got != 2 {
		t.Errorf("paragraphs = %d, want 2", got)
	}
}

func TestSlug(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Chapter One", "chapter-one"},
		{"The  Long   Night!", "the-long-night"},
		{"Déjà Vu?", "dj-vu"},
		{"--edges--", "edges"},
		{"a - b", "a-b"},
	}
	for _, c := range cases {
		if got := Slug(c.in); got != c.want {
			t.Errorf("Slug(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
