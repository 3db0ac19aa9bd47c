package parser

import (
	"regexp"
	"strings"
)

var (
	quoteRe     = regexp.MustCompile(`"[^"]*"`)
	wordTokenRe = regexp.MustCompile(`\w+`)
	blankLineRe = regexp.MustCompile(`\n(?:[ \t\r]*\n)+`)
)

// CountWords counts maximal runs of non-whitespace characters in the body,
// excluding any frontmatter block.
func CountWords(text string) int {
	return len(strings.Fields(Separate(text).Content))
}

// CountQuotes counts double-quote-delimited spans in the body. Matching is
// non-greedy and does not nest.
func CountQuotes(text string) int {
	return len(quoteRe.FindAllString(Separate(text).Content, -1))
}

// CountParagraphs splits the body on blank-line boundaries and counts the
// blocks whose word-token count is at least minWords.
func CountParagraphs(text string, minWords int) int {
	n := 0
	for _, block := range blankLineRe.Split(Separate(text).Content, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if len(wordTokenRe.FindAllString(block, -1)) >= minWords {
			n++
		}
	}
	return n
}
