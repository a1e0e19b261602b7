// Package ahocorasick provides multi-pattern string matching using an Aho-Corasick automaton.
// It wraps the petar-dambovaliev/aho-corasick library for O(n + m + z) matching and
// backs the indexed keyword extractor's synonym scan.
package ahocorasick

import (
	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/corey/moodlog/internal/ports"
)

// TextScanner reports every occurrence of every pattern in a piece of text,
// overlapping matches included, with byte offsets. The automaton is built
// once and is read-only afterwards, so one scanner may serve concurrent
// callers.
type TextScanner struct {
	automaton aho.AhoCorasick
	patterns  []string
	empty     bool
}

var _ ports.PatternScanner = (*TextScanner)(nil)

// NewTextScanner builds a text scanner from the given patterns. It has the
// ports.ScannerFactory signature.
func NewTextScanner(patterns []string) ports.PatternScanner {
	return Build(patterns)
}

// Build is NewTextScanner returning the concrete type.
func Build(patterns []string) *TextScanner {
	p := make([]string, len(patterns))
	copy(p, patterns)
	if len(p) == 0 {
		return &TextScanner{empty: true}
	}
	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	return &TextScanner{
		automaton: builder.Build(p),
		patterns:  p,
	}
}

// Scan finds all pattern matches in content and returns them with byte
// offsets. Zero-length matches are dropped.
func (s *TextScanner) Scan(content string) []ports.PatternMatch {
	if s.empty || content == "" {
		return nil
	}
	iter := s.automaton.IterOverlappingByte([]byte(content))
	var matches []ports.PatternMatch
	for next := iter.Next(); next != nil; next = iter.Next() {
		m := *next
		if m.End() <= m.Start() {
			continue
		}
		matches = append(matches, ports.PatternMatch{
			PatternIndex: m.Pattern(),
			Start:        m.Start(),
			End:          m.End(),
		})
	}
	return matches
}

// PatternCount returns the number of patterns in the automaton.
func (s *TextScanner) PatternCount() int {
	return len(s.patterns)
}

// Pattern returns the pattern string at the given index.
func (s *TextScanner) Pattern(idx int) string {
	if idx < 0 || idx >= len(s.patterns) {
		return ""
	}
	return s.patterns[idx]
}
