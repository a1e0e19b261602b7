package ahocorasick

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/corey/moodlog/internal/domain/dictionary"
	"github.com/corey/moodlog/internal/domain/keyword"
	"github.com/corey/moodlog/internal/ports"
	"github.com/corey/moodlog/lexicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Aho-Corasick text scanner: every occurrence of every synonym in one pass
// =============================================================================

// found renders matches as "pattern@start" for compact assertions.
func found(s *TextScanner, ms []ports.PatternMatch) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, fmt.Sprintf("%s@%d", s.Pattern(m.PatternIndex), m.Start))
	}
	sort.Strings(out)
	return out
}

func TestTextScanner_SingleKeyword(t *testing.T) {
	s := Build([]string{"happy"})
	ms := s.Scan("so happy today")
	require.Len(t, ms, 1)
	assert.Equal(t, ports.PatternMatch{PatternIndex: 0, Start: 3, End: 8}, ms[0])
}

func TestTextScanner_OverlappingKeywords(t *testing.T) {
	// Both a pattern and its prefix are reported. No false negatives.
	s := Build([]string{"love", "lovely", "ely"})
	assert.Equal(t, []string{"ely@3", "love@0", "lovely@0"}, found(s, s.Scan("lovely")))
}

func TestTextScanner_RepeatedOccurrences(t *testing.T) {
	s := Build([]string{"aa"})
	assert.Equal(t, []string{"aa@0", "aa@1", "aa@2"}, found(s, s.Scan("aaaa")))
}

func TestTextScanner_Hangul(t *testing.T) {
	s := Build([]string{"행복", "좋은"})
	ms := s.Scan("행복하고좋은")
	require.Len(t, ms, 2)
	assert.Equal(t, []string{"좋은@12", "행복@0"}, found(s, ms))
}

func TestTextScanner_NoMatch(t *testing.T) {
	s := Build([]string{"auth"})
	assert.Empty(t, s.Scan("hello world"))
	assert.Empty(t, s.Scan(""))
}

func TestTextScanner_NoPatterns(t *testing.T) {
	s := Build(nil)
	assert.Empty(t, s.Scan("anything"))
	assert.Equal(t, 0, s.PatternCount())
	assert.Equal(t, "", s.Pattern(0))
}

func TestTextScanner_CaseSensitive(t *testing.T) {
	// Callers fold case before scanning.
	s := Build([]string{"happy"})
	assert.Empty(t, s.Scan("HAPPY"))
}

func TestTextScanner_PatternsCopied(t *testing.T) {
	in := []string{"a", "b"}
	s := Build(in)
	in[0] = "z"
	assert.Equal(t, "a", s.Pattern(0))
	assert.Equal(t, 2, s.PatternCount())
	assert.Equal(t, "", s.Pattern(-1))
}

func TestTextScanner_IndexedExtractorParity(t *testing.T) {
	// The indexed extractor gives the same answers with the automaton as
	// with the direct scan.
	d, err := dictionary.Load(lexicon.FS, lexicon.Dir)
	require.NoError(t, err)

	direct := keyword.NewExtractor(d, keyword.Options{})
	indexed := keyword.NewIndexedExtractor(d, keyword.Options{}, NewTextScanner)

	for _, in := range []string{
		"오늘은 정말 행복하고 좋은 하루였다",
		"회사에서 짜증나고 피곤했지만 친구랑 웃었다",
		"I felt lonely and sad, then happy again after dinner with family",
		"사랑스러운 고마운 불안한 슬펐다 기뻤다",
		"",
	} {
		assert.Equal(t, direct.Extract(in), indexed.Extract(in), "input %q", in)
	}
}

func BenchmarkScan(b *testing.B) {
	d, err := dictionary.Load(lexicon.FS, lexicon.Dir)
	require.NoError(b, err)
	var patterns []string
	for _, e := range d.Entries() {
		patterns = append(patterns, e.Synonyms...)
	}
	s := Build(patterns)
	content := strings.Repeat("오늘은 회사에서 스트레스를 받았지만 친구와 저녁을 먹고 행복했다 ", 20)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Scan(content)
	}
}
