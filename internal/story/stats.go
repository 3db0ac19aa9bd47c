package story

import (
	"context"
	"log/slog"

	"github.com/andersmmg/novel-app/internal/parser"
)

// DefaultMinWordsPerParagraph is used when no configuration provider is
// wired or the provider fails.
const DefaultMinWordsPerParagraph = 1

// StatsConfig is the slice of application configuration the statistics
// engine reads.
type StatsConfig struct {
	MinWordsPerParagraph int
}

// ConfigProvider supplies live statistics configuration. Implementations
// may block (the paragraph recompute runs off the mutation path).
type ConfigProvider interface {
	StatsConfig(ctx context.Context) (StatsConfig, error)
}

// SetStatsProvider wires the configuration source for paragraph counting.
func (s *Story) SetStatsProvider(p ConfigProvider) {
	s.stats = p
}

// WordCount sums per-chapter word counts. Notes are reference material and
// are excluded from story-level counts.
func (s *Story) WordCount() int {
	total := 0
	for _, ch := range s.chapters {
		total += parser.CountWords(ch.Content)
	}
	return total
}

// QuoteCount sums per-chapter quote counts.
func (s *Story) QuoteCount() int {
	total := 0
	for _, ch := range s.chapters {
		total += parser.CountQuotes(ch.Content)
	}
	return total
}

// ParagraphCount recomputes the paragraph count against the configuration
// value current at call time. On configuration failure the default
// threshold is used and the error is returned alongside the count.
func (s *Story) ParagraphCount(ctx context.Context) (int, error) {
	minWords, err := s.minWordsPerParagraph(ctx)
	total := 0
	for _, ch := range s.chapters {
		total += parser.CountParagraphs(ch.Content, minWords)
	}
	return total, err
}

// UpdateWordCount is the single statistics recompute entry point, invoked
// after every content- or structure-changing operation. Word and quote
// counts are written synchronously; the paragraph count is recomputed in
// the background because it depends on external configuration. Recomputes
// are sequenced so a stale completion never overwrites a newer one.
func (s *Story) UpdateWordCount() {
	words := s.WordCount()
	quotes := s.QuoteCount()

	s.statsMu.Lock()
	s.metadata.WordCount = words
	s.metadata.QuoteCount = quotes
	s.statsMu.Unlock()

	seq := s.parSeq.Add(1)
	contents := make([]string, len(s.chapters))
	for i, ch := range s.chapters {
		contents[i] = ch.Content
	}
	go s.recomputeParagraphs(seq, contents)
}

func (s *Story) recomputeParagraphs(seq uint64, contents []string) {
	minWords, err := s.minWordsPerParagraph(context.Background())
	if err != nil {
		slog.Warn("story: stats config unavailable, using default",
			slog.String("error", err.Error()))
	}
	total := 0
	for _, c := range contents {
		total += parser.CountParagraphs(c, minWords)
	}

	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	if seq < s.parApplied {
		// A newer recompute already finished; drop this result.
		return
	}
	s.parApplied = seq
	s.metadata.ParagraphCount = total
}

func (s *Story) minWordsPerParagraph(ctx context.Context) (int, error) {
	if s.stats == nil {
		return DefaultMinWordsPerParagraph, nil
	}
	cfg, err := s.stats.StatsConfig(ctx)
	if err != nil {
		return DefaultMinWordsPerParagraph, err
	}
	if cfg.MinWordsPerParagraph < 1 {
		return DefaultMinWordsPerParagraph, nil
	}
	return cfg.MinWordsPerParagraph, nil
}
