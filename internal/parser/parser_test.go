package parser

import (
	"strings"
	"testing"
	"time"
)

func TestSeparate_FrontmatterAndBody(t *testing.T) {
	input := "---\ntitle: Hello\norder: 2\n---\n\nBody text.\n"
	res := Separate(input)
	if res.Frontmatter != "title: Hello\norder: 2" {
		t.Errorf("frontmatter = %q", res.Frontmatter)
	}
	if res.Content != "Body text." {
		t.Errorf("content = %q", res.Content)
	}
	if res.Metadata["title"] != "Hello" {
		t.Errorf("metadata title = %v", res.Metadata["title"])
	}
	if res.Metadata["order"] != 2 {
		t.Errorf("metadata order = %v", res.Metadata["order"])
	}
}

func TestSeparate_NoFrontmatter(t *testing.T) {
	res := Separate("Just some prose.\n")
	if res.Frontmatter != "" {
		t.Errorf("frontmatter = %q, want empty", res.Frontmatter)
	}
	if res.Content != "Just some prose." {
		t.Errorf("content = %q", res.Content)
	}
	if len(res.Metadata) != 0 {
		t.Errorf("metadata = %v, want empty", res.Metadata)
	}
}

func TestSeparate_InvalidYAMLFallback(t *testing.T) {
	input := "---\n: bad: yaml: {{{\n---\nBody\n"
	res := Separate(input)
	if res.Frontmatter != "" {
		t.Error("invalid YAML should yield no frontmatter")
	}
	if res.Content != strings.TrimSpace(input) {
		t.Errorf("content = %q, want whole input", res.Content)
	}
}

func TestSeparate_StrippingTwiceIsNoop(t *testing.T) {
	input := "---\ntitle: x\n---\n\nHello world\n"
	once := Separate(input)
	twice := Separate(once.Content)
	if twice.Frontmatter != "" || len(twice.Metadata) != 0 {
		t.Errorf("second strip should find nothing, got fm=%q meta=%v", twice.Frontmatter, twice.Metadata)
	}
	if twice.Content != once.Content {
		t.Errorf("content changed on second strip: %q vs %q", twice.Content, once.Content)
	}
}

func TestSeparate_CacheBounded(t *testing.T) {
	c := newLRUCache(3)
	for _, k := range []string{"a", "b", "c"} {
		c.add(k, Separated{Content: k})
	}
	// Touch "a" so "b" becomes the eviction candidate.
	if _, ok := c.get("a"); !ok {
		t.Fatal("a should be cached")
	}
	c.add("d", Separated{Content: "d"})
	if c.len() != 3 {
		t.Errorf("len = %d, want 3", c.len())
	}
	if _, ok := c.get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.get("a"); !ok {
		t.Error("a should have survived")
	}
}

func TestExtractTitle_Frontmatter(t *testing.T) {
	got := ExtractTitle("---\ntitle: \"The Long Night\"\n---\n\ntext")
	if got != "The Long Night" {
		t.Errorf("title = %q", got)
	}
}

func TestExtractTitle_WholeContentYAML(t *testing.T) {
	got := ExtractTitle("title: Worldbuilding\ncreated: 2024-01-01\n")
	if got != "Worldbuilding" {
		t.Errorf("title = %q", got)
	}
}

func TestExtractTitle_NoTitle(t *testing.T) {
	if got := ExtractTitle("plain prose with no structure"); got != "" {
		t.Errorf("title = %q, want empty", got)
	}
}

func TestParseMetadata_DateCoercion(t *testing.T) {
	meta := ParseMetadata("---\ncreated: 2024-03-01T10:00:00Z\nedited: not-a-date\n---\n\nbody")
	created, ok := meta["created"].(time.Time)
	if !ok || !created.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("created = %v", meta["created"])
	}
	edited, ok := meta["edited"].(time.Time)
	if !ok {
		t.Fatalf("edited = %v, want time.Time", meta["edited"])
	}
	if time.Since(edited) > time.Minute {
		t.Errorf("invalid edited should coerce to now, got %v", edited)
	}
}

func TestParseMetadata_NestedDates(t *testing.T) {
	meta := ParseMetadata("goals:\n  created: 2024-01-02\n")
	goals, ok := meta["goals"].(map[string]any)
	if !ok {
		t.Fatalf("goals = %v", meta["goals"])
	}
	if _, ok := goals["created"].(time.Time); !ok {
		t.Errorf("nested created = %v, want time.Time", goals["created"])
	}
}

func TestParseMetadata_FailureReturnsEmpty(t *testing.T) {
	meta := ParseMetadata(": {{{ not yaml")
	if meta == nil || len(meta) != 0 {
		t.Errorf("meta = %v, want empty map", meta)
	}
}

func TestInjectFrontmatter_Passthrough(t *testing.T) {
	got := InjectFrontmatter("plain body", FileMeta{})
	if got != "plain body" {
		t.Errorf("content changed: %q", got)
	}
}

func TestInjectFrontmatter_AddsHeader(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	order := 3
	got := InjectFrontmatter("body text", FileMeta{
		Created:  created,
		Order:    &order,
		Metadata: map[string]any{"title": "Ch"},
	})
	if !strings.HasPrefix(got, "---\n") || !strings.HasSuffix(got, "\n\nbody text") {
		t.Fatalf("unexpected shape: %q", got)
	}
	res := Separate(got)
	if res.Metadata["title"] != "Ch" || res.Metadata["order"] != 3 {
		t.Errorf("metadata = %v", res.Metadata)
	}
	if ts, ok := res.Metadata["created"].(time.Time); !ok || !ts.Equal(created) {
		t.Errorf("created = %v", res.Metadata["created"])
	}
	if res.Content != "body text" {
		t.Errorf("body = %q", res.Content)
	}
}

func TestInjectFrontmatter_MergePreservesUnknownKeys(t *testing.T) {
	content := "---\ntitle: Old\ncustom_field: keep-me\n---\n\nbody"
	got := InjectFrontmatter(content, FileMeta{
		Metadata: map[string]any{"title": "New"},
	})
	res := Separate(got)
	if res.Metadata["title"] != "New" {
		t.Errorf("title = %v, want New (in-memory wins)", res.Metadata["title"])
	}
	if res.Metadata["custom_field"] != "keep-me" {
		t.Errorf("custom_field = %v, want preserved", res.Metadata["custom_field"])
	}
	if res.Content != "body" {
		t.Errorf("body = %q", res.Content)
	}
}

func TestCombine(t *testing.T) {
	if got := Combine("", "body"); got != "body" {
		t.Errorf("empty frontmatter: %q", got)
	}
	if got := Combine("title: x\n", "body"); got != "---\ntitle: x\n---\n\nbody" {
		t.Errorf("combined = %q", got)
	}
}
