package story

import (
	"time"

	"github.com/spf13/cast"
)

// Goal is a per-metric writing target.
type Goal struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	Target  int  `yaml:"target" json:"target"`
}

// Goals groups the per-metric goal thresholds.
type Goals struct {
	Words      *Goal `yaml:"words,omitempty" json:"words,omitempty"`
	Chapters   *Goal `yaml:"chapters,omitempty" json:"chapters,omitempty"`
	Notes      *Goal `yaml:"notes,omitempty" json:"notes,omitempty"`
	Quotes     *Goal `yaml:"quotes,omitempty" json:"quotes,omitempty"`
	Paragraphs *Goal `yaml:"paragraphs,omitempty" json:"paragraphs,omitempty"`
}

// Metadata is the story-level record persisted as story.yml. Fields the
// model does not know about are carried in Extra and survive a round trip.
type Metadata struct {
	Title          string         `json:"title,omitempty"`
	Author         string         `json:"author,omitempty"`
	Genre          string         `json:"genre,omitempty"`
	Description    string         `json:"description,omitempty"`
	Created        time.Time      `json:"created,omitzero"`
	Edited         time.Time      `json:"edited,omitzero"`
	WordCount      int            `json:"wordCount"`
	QuoteCount     int            `json:"quoteCount"`
	ParagraphCount int            `json:"paragraphCount"`
	Goals          *Goals         `json:"goals,omitempty"`
	Extra          map[string]any `json:"extra,omitempty"`
}

// IsZero reports whether no metadata field carries a value. Archives skip
// the story.yml entry for zero metadata.
func (m Metadata) IsZero() bool {
	return m.Title == "" && m.Author == "" && m.Genre == "" && m.Description == "" &&
		m.Created.IsZero() && m.Edited.IsZero() &&
		m.WordCount == 0 && m.QuoteCount == 0 && m.ParagraphCount == 0 &&
		m.Goals == nil && len(m.Extra) == 0
}

// MetadataFromMap maps a parsed story.yml mapping onto Metadata, keeping
// unrecognized keys in Extra.
func MetadataFromMap(raw map[string]any) Metadata {
	md := Metadata{}
	extra := map[string]any{}
	for k, v := range raw {
		switch k {
		case "title":
			md.Title = cast.ToString(v)
		case "author":
			md.Author = cast.ToString(v)
		case "genre":
			md.Genre = cast.ToString(v)
		case "description":
			md.Description = cast.ToString(v)
		case "created":
			md.Created = toTime(v)
		case "edited":
			md.Edited = toTime(v)
		case "wordCount":
			md.WordCount = cast.ToInt(v)
		case "quoteCount":
			md.QuoteCount = cast.ToInt(v)
		case "paragraphCount":
			md.ParagraphCount = cast.ToInt(v)
		case "goals":
			md.Goals = goalsFromAny(v)
		default:
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		md.Extra = extra
	}
	return md
}

// ToMap flattens Metadata back into the mapping written as story.yml.
func (m Metadata) ToMap() map[string]any {
	out := make(map[string]any, len(m.Extra)+10)
	for k, v := range m.Extra {
		out[k] = v
	}
	if m.Title != "" {
		out["title"] = m.Title
	}
	if m.Author != "" {
		out["author"] = m.Author
	}
	if m.Genre != "" {
		out["genre"] = m.Genre
	}
	if m.Description != "" {
		out["description"] = m.Description
	}
	if !m.Created.IsZero() {
		out["created"] = m.Created
	}
	if !m.Edited.IsZero() {
		out["edited"] = m.Edited
	}
	out["wordCount"] = m.WordCount
	out["quoteCount"] = m.QuoteCount
	out["paragraphCount"] = m.ParagraphCount
	if m.Goals != nil {
		out["goals"] = m.Goals
	}
	return out
}

func toTime(v any) time.Time {
	if t, ok := v.(time.Time); ok {
		return t
	}
	t, err := cast.ToTimeE(v)
	if err != nil {
		return time.Time{}
	}
	return t
}

func goalsFromAny(v any) *Goals {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	g := &Goals{
		Words:      goalFromAny(m["words"]),
		Chapters:   goalFromAny(m["chapters"]),
		Notes:      goalFromAny(m["notes"]),
		Quotes:     goalFromAny(m["quotes"]),
		Paragraphs: goalFromAny(m["paragraphs"]),
	}
	return g
}

func goalFromAny(v any) *Goal {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return &Goal{
		Enabled: cast.ToBool(m["enabled"]),
		Target:  cast.ToInt(m["target"]),
	}
}
