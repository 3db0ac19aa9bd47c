// Package parser handles the frontmatter-annotated text entries stored in
// story archives: splitting and injecting frontmatter blocks, extracting
// titles and metadata, counting words, and slugifying filenames.
package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

var (
	frontmatterRe = regexp.MustCompile(`(?s)^---[ \t\r]*\n(.*?)\n---[ \t\r]*\n`)
	titleLineRe   = regexp.MustCompile(`(?m)^title:[ \t]*["']?(.+?)["']?[ \t\r]*$`)
)

// Separated is the result of splitting a frontmatter block from its body.
type Separated struct {
	Frontmatter string
	Content     string
	Metadata    map[string]any
}

// separateCache memoizes Separate results. Bounded so that editing many
// large chapters does not grow memory without limit.
var separateCache = newLRUCache(100)

// Separate splits a leading frontmatter block (between --- delimiters) from
// the body. The body is trimmed; the frontmatter is parsed as YAML with
// created/edited date coercion. Malformed YAML degrades to plain content.
// Results are memoized by exact input string.
func Separate(content string) Separated {
	if cached, ok := separateCache.get(content); ok {
		return cached
	}
	res := separate(content)
	separateCache.add(content, res)
	return res
}

func separate(content string) Separated {
	m := frontmatterRe.FindStringSubmatch(content)
	if m == nil {
		return Separated{Content: strings.TrimSpace(content), Metadata: map[string]any{}}
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(m[1]), &raw); err != nil {
		// Not valid YAML between the delimiters; treat the whole thing as body.
		return Separated{Content: strings.TrimSpace(content), Metadata: map[string]any{}}
	}

	meta, _ := CoerceDates(raw).(map[string]any)
	if meta == nil {
		meta = map[string]any{}
	}
	return Separated{
		Frontmatter: m[1],
		Content:     strings.TrimSpace(content[len(m[0]):]),
		Metadata:    meta,
	}
}

// ExtractTitle returns the title of a text entry: a line-oriented match on
// the frontmatter block first, then a full-content YAML parse as fallback
// (folder sidecars are plain YAML with no delimiters). Empty on failure.
func ExtractTitle(content string) string {
	if m := frontmatterRe.FindStringSubmatch(content); m != nil {
		if t := titleLineRe.FindStringSubmatch(m[1]); t != nil {
			return strings.TrimSpace(t[1])
		}
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(content), &raw); err == nil && raw != nil {
		return cast.ToString(raw["title"])
	}
	return ""
}

// ParseMetadata parses the frontmatter block (or, lacking one, the whole
// content) as YAML and coerces created/edited strings to timestamps.
// Returns an empty map on any parse failure; never an error.
func ParseMetadata(content string) map[string]any {
	block := content
	if m := frontmatterRe.FindStringSubmatch(content); m != nil {
		block = m[1]
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(block), &raw); err != nil || raw == nil {
		return map[string]any{}
	}
	meta, _ := CoerceDates(raw).(map[string]any)
	if meta == nil {
		return map[string]any{}
	}
	return meta
}

// FileMeta carries the in-memory record fields that must be embedded into
// an entry's frontmatter when it is written back to an archive.
type FileMeta struct {
	Created  time.Time
	Edited   time.Time
	Order    *int
	Metadata map[string]any
}

// InjectFrontmatter returns content with meta embedded as a frontmatter
// block. Content without timestamps or metadata passes through unchanged.
// An existing frontmatter block is parsed and merged under meta (new values
// win) so keys unknown to the in-memory model survive a round trip.
func InjectFrontmatter(content string, meta FileMeta) string {
	hasDates := !meta.Created.IsZero() || !meta.Edited.IsZero()
	if !hasDates && len(meta.Metadata) == 0 {
		return content
	}

	body := content
	merged := map[string]any{}
	if m := frontmatterRe.FindStringSubmatch(content); m != nil {
		var existing map[string]any
		if err := yaml.Unmarshal([]byte(m[1]), &existing); err == nil {
			for k, v := range existing {
				merged[k] = v
			}
		}
		body = strings.TrimLeft(content[len(m[0]):], "\n")
	}

	for k, v := range meta.Metadata {
		merged[k] = v
	}
	if !meta.Created.IsZero() {
		merged["created"] = meta.Created
	}
	if !meta.Edited.IsZero() {
		merged["edited"] = meta.Edited
	}
	if meta.Order != nil {
		merged["order"] = *meta.Order
	}

	out, err := yaml.Marshal(DatesToStrings(merged))
	if err != nil {
		return content
	}
	return "---\n" + strings.TrimRight(string(out), "\n") + "\n---\n\n" + body
}

// Combine is the inverse of Separate for a known frontmatter block.
func Combine(frontmatter, content string) string {
	if strings.TrimSpace(frontmatter) == "" {
		return content
	}
	return "---\n" + strings.TrimRight(frontmatter, "\n") + "\n---\n\n" + content
}
