package keyword

import (
	"strings"
	"testing"

	"github.com/corey/moodlog/internal/domain/dictionary"
	"github.com/corey/moodlog/lexicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDict(t *testing.T, entries ...dictionary.Entry) *dictionary.Dictionary {
	t.Helper()
	d, err := dictionary.New(entries)
	require.NoError(t, err)
	return d
}

func lexiconDict(t *testing.T) *dictionary.Dictionary {
	t.Helper()
	d, err := dictionary.Load(lexicon.FS, lexicon.Dir)
	require.NoError(t, err)
	return d
}

// extractors returns both extraction modes so every behavior test covers both.
func extractors(d *dictionary.Dictionary, opts Options) map[string]interface{ Extract(string) Result } {
	return map[string]interface{ Extract(string) Result }{
		"direct":  NewExtractor(d, opts),
		"indexed": NewIndexedExtractor(d, opts, nil),
	}
}

// =============================================================================
// Match policies
// =============================================================================

func TestAffix(t *testing.T) {
	p := Affix{}
	assert.True(t, p.Match("행복하고", "행복"), "prefix")
	assert.True(t, p.Match("너무행복", "행복"), "suffix")
	assert.True(t, p.Match("행복", "행복"), "equal")
	assert.False(t, p.Match("불행복감", "행복"), "mid-token")
	assert.False(t, p.Match("행", "행복"), "synonym longer than token")
	assert.False(t, p.Match("anything", ""))
}

func TestExact(t *testing.T) {
	assert.True(t, Exact{}.Match("sad", "sad"))
	assert.False(t, Exact{}.Match("sadness", "sad"))
}

func TestEditDistance(t *testing.T) {
	p := EditDistance{Max: 1}
	assert.True(t, p.Match("hapy", "happy"))
	assert.True(t, p.Match("happy", "happy"))
	assert.False(t, p.Match("hpy", "happy"))
	assert.True(t, p.Match("행볶", "행복"), "distance counts runes, not bytes")
	assert.False(t, EditDistance{Max: 0}.Match("hapy", "happy"))
}

// =============================================================================
// Extraction
// =============================================================================

func TestExtract_Empty(t *testing.T) {
	d := lexiconDict(t)
	for name, x := range extractors(d, Options{}) {
		for _, in := range []string{"", "   ", "?!"} {
			r := x.Extract(in)
			assert.Equal(t, []string{}, r.Keywords, name)
			assert.Empty(t, r.Counts, name)
			assert.NotNil(t, r.Counts, name)
			assert.Empty(t, r.Weighted, name)
			assert.Empty(t, r.Positions, name)
			assert.Equal(t, Meta{}, r.Meta, name)
		}
	}
}

func TestExtract_HappyDayScenario(t *testing.T) {
	d := lexiconDict(t)
	for name, x := range extractors(d, Options{}) {
		r := x.Extract("오늘은 정말 행복하고 좋은 하루였다")
		assert.Equal(t, []string{"행복", "좋다"}, r.Keywords, name)
		assert.Equal(t, map[string]int{"행복": 1, "좋다": 1}, r.Counts, name)
		assert.Equal(t, map[string]float64{"행복": 1, "좋다": 1}, r.Weighted, name)
		assert.Equal(t, map[string][]int{"행복": {2}, "좋다": {3}}, r.Positions, name)
		assert.Equal(t, Meta{TotalTokens: 5, MatchedTokens: 2, MatchRate: 0.4}, r.Meta, name)
	}
}

func TestExtract_NoMatches(t *testing.T) {
	d := lexiconDict(t)
	for name, x := range extractors(d, Options{}) {
		r := x.Extract("그냥 평범한 목요일")
		assert.Empty(t, r.Keywords, name)
		assert.Empty(t, r.Weighted, name)
		assert.Equal(t, 3, r.Meta.TotalTokens, name)
		assert.Equal(t, 0.0, r.Meta.MatchRate, name)
	}
}

func TestExtract_KeywordOrdering(t *testing.T) {
	d := testDict(t,
		dictionary.Entry{Key: "a", Synonyms: []string{"aa"}, Weight: 1},
		dictionary.Entry{Key: "b", Synonyms: []string{"bb"}, Weight: 1},
		dictionary.Entry{Key: "c", Synonyms: []string{"cc"}, Weight: 1},
	)
	for name, x := range extractors(d, Options{}) {
		r := x.Extract("aa aa aa bb bb bb bb bb cc")
		assert.Equal(t, map[string]int{"a": 3, "b": 5, "c": 1}, r.Counts, name)
		assert.Equal(t, []string{"b", "a", "c"}, r.Keywords, name)
	}
}

func TestExtract_TiesKeepDiscoveryOrder(t *testing.T) {
	d := testDict(t,
		dictionary.Entry{Key: "a", Synonyms: []string{"aa"}, Weight: 1},
		dictionary.Entry{Key: "b", Synonyms: []string{"bb"}, Weight: 1},
	)
	for name, x := range extractors(d, Options{}) {
		assert.Equal(t, []string{"b", "a"}, x.Extract("bb aa").Keywords, name)
		assert.Equal(t, []string{"a", "b"}, x.Extract("aa bb").Keywords, name)
	}
}

func TestExtract_OneKeyPerToken(t *testing.T) {
	// "sadhappy" starts with a synonym of the first key and ends with a
	// synonym of the second. Only the first-loaded key may claim it.
	d := testDict(t,
		dictionary.Entry{Key: "first", Synonyms: []string{"happy"}, Weight: 1, Sentiment: dictionary.Positive},
		dictionary.Entry{Key: "second", Synonyms: []string{"sad"}, Weight: 1, Sentiment: dictionary.Negative},
	)
	for name, x := range extractors(d, Options{}) {
		r := x.Extract("sadhappy")
		assert.Equal(t, []string{"first"}, r.Keywords, name)
		assert.Equal(t, 1, r.Meta.MatchedTokens, name)
	}
}

func TestExtract_SharedSynonym(t *testing.T) {
	d := testDict(t,
		dictionary.Entry{Key: "one", Synonyms: []string{"blue"}, Weight: 1},
		dictionary.Entry{Key: "two", Synonyms: []string{"blue"}, Weight: 2},
	)
	for name, x := range extractors(d, Options{}) {
		r := x.Extract("blue")
		assert.Equal(t, map[string]int{"one": 1}, r.Counts, name)
	}
}

func TestExtract_WeightsAccumulate(t *testing.T) {
	d := testDict(t, dictionary.Entry{Key: "love", Synonyms: []string{"love"}, Weight: 1.5})
	for name, x := range extractors(d, Options{}) {
		r := x.Extract("love loved loving")
		assert.Equal(t, 3, r.Counts["love"], name)
		assert.InDelta(t, 4.5, r.Weighted["love"], 1e-9, name)
		assert.Equal(t, []int{0, 1, 2}, r.Positions["love"], name)
	}
}

func TestExtract_ExactMatch(t *testing.T) {
	d := lexiconDict(t)
	for name, x := range extractors(d, Options{ExactMatch: true}) {
		r := x.Extract("행복하고 좋은")
		assert.Equal(t, []string{"좋다"}, r.Keywords, name)
	}
}

func TestExtract_MinTokenLength(t *testing.T) {
	d := testDict(t, dictionary.Entry{Key: "x", Synonyms: []string{"ok"}, Weight: 1})
	for name, x := range extractors(d, Options{MinTokenLength: 3}) {
		r := x.Extract("ok okay")
		assert.Equal(t, []int{1}, r.Positions["x"], name)
		assert.Equal(t, 2, r.Meta.TotalTokens, name, "short tokens still count toward the total")
	}
}

func TestExtract_CaseSensitive(t *testing.T) {
	// Normalization lowercases ASCII, so an upper-case synonym can only
	// match when comparison is case-insensitive.
	d := testDict(t, dictionary.Entry{Key: "x", Synonyms: []string{"Happy"}, Weight: 1})
	for name, x := range extractors(d, Options{CaseSensitive: true}) {
		assert.Empty(t, x.Extract("HAPPY happy").Keywords, name)
	}
	for name, x := range extractors(d, Options{}) {
		assert.Equal(t, 2, x.Extract("HAPPY happy").Counts["x"], name)
	}
}

func TestExtract_CustomPolicy(t *testing.T) {
	d := testDict(t, dictionary.Entry{Key: "x", Synonyms: []string{"happy"}, Weight: 1})
	for name, x := range extractors(d, Options{Policy: EditDistance{Max: 1}}) {
		r := x.Extract("hapy happpy unhappy")
		assert.Equal(t, []int{0, 1}, r.Positions["x"], name)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	d := lexiconDict(t)
	in := "오늘 회사에서 스트레스 받았지만 친구랑 저녁 먹고 웃었다. 그래도 피곤하다"
	for name, x := range extractors(d, Options{}) {
		assert.Equal(t, x.Extract(in), x.Extract(in), name)
	}
}

func TestExtract_DirectAndIndexedAgree(t *testing.T) {
	d := lexiconDict(t)
	inputs := []string{
		"오늘은 정말 행복하고 좋은 하루였다",
		"회사 출근길에 비가 와서 짜증났고 너무 피곤했다",
		"친구랑 운동하고 점심 먹었다 기분 좋았다 고마워",
		"I was so happy and grateful, but also tired and a bit anxious",
		"sadhappy unhappy lovely glove workout friendship",
		"슬퍼서 울었다 외롭고 무서웠다 우울해",
		strings.Repeat("사랑해 ", 50),
	}
	for _, opts := range []Options{{}, {ExactMatch: true}, {MinTokenLength: 3}, {CaseSensitive: true}} {
		direct := NewExtractor(d, opts)
		indexed := NewIndexedExtractor(d, opts, nil)
		for _, in := range inputs {
			assert.Equal(t, direct.Extract(in), indexed.Extract(in), "opts %+v input %q", opts, in)
		}
	}
}

// =============================================================================
// Highlight
// =============================================================================

func joinSegments(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestHighlight_Basic(t *testing.T) {
	d := lexiconDict(t)
	in := "오늘은 정말 행복하고 좋은 하루였다"
	segs := Highlight(d, in, []string{"행복", "좋다"})

	assert.Equal(t, []Segment{
		{Text: "오늘은 정말 "},
		{Text: "행복", IsKeyword: true, Keyword: "행복"},
		{Text: "하고 "},
		{Text: "좋은", IsKeyword: true, Keyword: "좋다"},
		{Text: " 하루였다"},
	}, segs)
	assert.Equal(t, in, joinSegments(segs))
}

func TestHighlight_CaseInsensitiveKeepsOriginal(t *testing.T) {
	d := lexiconDict(t)
	segs := Highlight(d, "So HAPPY today", []string{"행복"})
	require.Len(t, segs, 3)
	assert.Equal(t, "HAPPY", segs[1].Text)
	assert.True(t, segs[1].IsKeyword)
}

func TestHighlight_OverlapFirstWins(t *testing.T) {
	d := testDict(t,
		dictionary.Entry{Key: "long", Synonyms: []string{"abcd"}, Weight: 1},
		dictionary.Entry{Key: "short", Synonyms: []string{"cde"}, Weight: 1},
	)
	segs := Highlight(d, "xabcdex", []string{"short", "long"})
	assert.Equal(t, []Segment{
		{Text: "x"},
		{Text: "abcd", IsKeyword: true, Keyword: "long"},
		{Text: "ex"},
	}, segs)
}

func TestHighlight_SubstringIgnoresAffixRule(t *testing.T) {
	d := testDict(t, dictionary.Entry{Key: "k", Synonyms: []string{"ppi"}, Weight: 1})
	segs := Highlight(d, "happiness", []string{"k"})
	assert.Len(t, segs, 3)
	assert.Equal(t, "happiness", joinSegments(segs))
}

func TestHighlight_NoKeywords(t *testing.T) {
	d := lexiconDict(t)
	assert.Equal(t, []Segment{{Text: "hello"}}, Highlight(d, "hello", nil))
	assert.Equal(t, []Segment{{Text: ""}}, Highlight(d, "", []string{"행복"}))
	assert.Equal(t, []Segment{{Text: "hello"}}, Highlight(d, "hello", []string{"unknown"}))
}

func TestHighlight_PartitionPreserved(t *testing.T) {
	d := lexiconDict(t)
	inputs := []string{
		"행복행복 좋은좋은 Happy HAPPY happy!",
		"ẞ İstanbul 행복 \xff bad",
	}
	for _, in := range inputs {
		segs := Highlight(d, in, []string{"행복", "좋다", "나쁘다"})
		assert.Equal(t, in, joinSegments(segs), "input %q", in)
	}
}
