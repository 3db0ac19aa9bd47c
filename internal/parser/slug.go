package parser

import (
	"regexp"
	"strings"
)

var (
	slugInvalidRe = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaceRe   = regexp.MustCompile(`\s+`)
	slugHyphenRe  = regexp.MustCompile(`-+`)
)

// Slug sanitizes a display name into a filename stem: lowercase, strip
// anything outside [a-z0-9\s-], collapse whitespace and hyphen runs to a
// single hyphen, trim edge hyphens.
func Slug(name string) string {
	s := strings.ToLower(name)
	s = slugInvalidRe.ReplaceAllString(s, "")
	s = slugSpaceRe.ReplaceAllString(s, "-")
	s = slugHyphenRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
