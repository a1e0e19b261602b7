package series

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/corey/moodlog/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func testAggregator() Aggregator {
	return Aggregator{Now: func() time.Time { return fixedNow }}
}

func entry(daysAgo int, label ports.Label, score float64, counts map[string]int, keywords ...string) *ports.Entry {
	return &ports.Entry{
		ID:        fmt.Sprintf("e-%d-%s", daysAgo, label),
		Date:      fixedNow.AddDate(0, 0, -daysAgo).Add(-time.Hour),
		Keywords:  keywords,
		Counts:    counts,
		Sentiment: &ports.Sentiment{Label: label, Score: score},
	}
}

// =============================================================================
// Window
// =============================================================================

func TestWindow(t *testing.T) {
	a := testAggregator()
	assert.Equal(t, []string{"2025-03-08", "2025-03-09", "2025-03-10"}, a.Window(3))
	assert.Len(t, a.Window(0), DefaultDays)
	assert.Len(t, a.Window(-5), DefaultDays)

	w := a.Window(90)
	require.Len(t, w, 90)
	assert.Equal(t, "2025-03-10", w[89])
	assert.Equal(t, "2024-12-11", w[0])
}

func TestWindow_Location(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	a := Aggregator{
		Now:      func() time.Time { return time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC) },
		Location: seoul,
	}
	assert.Equal(t, []string{"2025-03-10", "2025-03-11"}, a.Window(2))
	assert.Equal(t, "2025-03-11", a.Today())
}

func TestDay(t *testing.T) {
	a := testAggregator()
	assert.Equal(t, "", a.Day(time.Time{}))
	assert.Equal(t, "2025-03-10", a.Day(fixedNow))
}

// =============================================================================
// SentimentSeries
// =============================================================================

func TestSentimentSeries_LengthMatchesWindow(t *testing.T) {
	a := testAggregator()
	for _, n := range Windows {
		ts := a.SentimentSeries(nil, n)
		assert.Len(t, ts.Dates, n)
		assert.Len(t, ts.Positive, n)
		assert.Len(t, ts.Negative, n)
		assert.Len(t, ts.Neutral, n)
		assert.Len(t, ts.AvgScores, n)
	}
}

func TestSentimentSeries_Groups(t *testing.T) {
	a := testAggregator()
	entries := []*ports.Entry{
		entry(0, ports.LabelVeryPositive, 1, nil),
		entry(0, ports.LabelNegative, -0.5, nil),
		entry(0, ports.LabelNeutral, 0, nil),
		entry(1, ports.LabelVeryNegative, -0.8, nil),
		entry(1, ports.LabelPositive, 0.4, nil),
		entry(30, ports.LabelPositive, 0.4, nil), // outside window
	}
	ts := a.SentimentSeries(entries, 3)

	assert.Equal(t, []int{0, 1, 1}, ts.Positive)
	assert.Equal(t, []int{0, 1, 1}, ts.Negative)
	assert.Equal(t, []int{0, 0, 1}, ts.Neutral)
	assert.InDelta(t, 0, ts.AvgScores[0], 1e-9)
	assert.InDelta(t, -0.2, ts.AvgScores[1], 1e-9)
	assert.InDelta(t, 0.5/3, ts.AvgScores[2], 1e-9)
}

func TestSentimentSeries_MalformedEntries(t *testing.T) {
	a := testAggregator()
	entries := []*ports.Entry{
		nil,
		{ID: "no-date", Sentiment: &ports.Sentiment{Label: ports.LabelPositive, Score: 1}},
		{ID: "no-sentiment", Date: fixedNow},
		{ID: "blank-label", Date: fixedNow, Sentiment: &ports.Sentiment{Score: 0.2}},
	}
	ts := a.SentimentSeries(entries, 2)
	assert.Equal(t, []int{0, 0}, ts.Positive)
	assert.Equal(t, []int{0, 2}, ts.Neutral)
	assert.InDelta(t, 0.1, ts.AvgScores[1], 1e-9)
}

// =============================================================================
// WordSeries
// =============================================================================

func TestWordSeries_Empty(t *testing.T) {
	a := testAggregator()
	ws := a.WordSeries(nil, 5)
	assert.Len(t, ws.Dates, 5)
	assert.Empty(t, ws.Words)
	assert.NotNil(t, ws.Words)
	assert.Empty(t, ws.Data)
}

func TestWordSeries_RanksWholeCollection(t *testing.T) {
	a := testAggregator()
	entries := []*ports.Entry{
		entry(0, ports.LabelPositive, 0.5, map[string]int{"행복": 2, "회사": 1}, "행복", "회사"),
		entry(1, ports.LabelNegative, -0.5, map[string]int{"피곤": 1}, "피곤"),
		// Outside the window but still counts toward the ranking.
		entry(40, ports.LabelNegative, -0.5, map[string]int{"피곤": 5}, "피곤"),
	}
	ws := a.WordSeries(entries, 3)

	assert.Equal(t, []string{"피곤", "행복", "회사"}, ws.Words)
	assert.Equal(t, []int{0, 1, 0}, ws.Data["피곤"])
	assert.Equal(t, []int{0, 0, 2}, ws.Data["행복"])
	assert.Equal(t, []int{0, 0, 1}, ws.Data["회사"])
}

func TestWordSeries_TopTenCap(t *testing.T) {
	a := testAggregator()
	counts := map[string]int{}
	var keywords []string
	for i := range 15 {
		k := fmt.Sprintf("k%02d", i)
		counts[k] = 15 - i
		keywords = append(keywords, k)
	}
	ws := a.WordSeries([]*ports.Entry{entry(0, ports.LabelNeutral, 0, counts, keywords...)}, 7)

	require.Len(t, ws.Words, TopN)
	assert.Len(t, ws.Data, TopN)
	assert.Equal(t, "k00", ws.Words[0])
	assert.Equal(t, "k09", ws.Words[9])
}

func TestWordSeries_TiesAreStable(t *testing.T) {
	a := testAggregator()
	entries := []*ports.Entry{
		entry(0, ports.LabelNeutral, 0, map[string]int{"b": 1, "a": 1, "z": 1}, "b", "a"),
	}
	for range 20 {
		ws := a.WordSeries(entries, 1)
		assert.Equal(t, []string{"b", "a", "z"}, ws.Words)
	}
}

// =============================================================================
// RangeStats
// =============================================================================

func TestRangeStats(t *testing.T) {
	a := testAggregator()
	entries := []*ports.Entry{
		entry(0, ports.LabelVeryPositive, 0.9, nil, "행복", "좋다"),
		entry(1, ports.LabelPositive, 0.3, nil, "행복"),
		entry(2, ports.LabelVeryNegative, -0.9, nil, "우울"),
		entry(3, ports.LabelNegative, -0.3, nil, "피곤", "행복"),
		{ID: "bare", Date: fixedNow.Add(-time.Minute)},
		entry(60, ports.LabelPositive, 1, nil, "old"),
		{ID: "future", Date: fixedNow.Add(time.Hour), Sentiment: &ports.Sentiment{Label: ports.LabelPositive}},
	}
	st := a.RangeStats(entries, 30)

	assert.Equal(t, 30, st.Days)
	assert.Equal(t, 5, st.Total)
	assert.Equal(t, 2, st.Positive)
	assert.Equal(t, 1, st.VeryPositive)
	assert.Equal(t, 2, st.Negative)
	assert.Equal(t, 1, st.VeryNegative)
	assert.Equal(t, 1, st.Neutral)
	assert.InDelta(t, 0, st.AvgScore, 1e-9)
	assert.Equal(t, []KeywordCount{
		{Keyword: "행복", Count: 3},
		{Keyword: "좋다", Count: 1},
		{Keyword: "우울", Count: 1},
		{Keyword: "피곤", Count: 1},
	}, st.TopKeywords)
}

func TestRangeStats_Empty(t *testing.T) {
	a := testAggregator()
	st := a.RangeStats(nil, 0)
	assert.Equal(t, DefaultDays, st.Days)
	assert.Equal(t, 0, st.Total)
	assert.Equal(t, 0.0, st.AvgScore)
	assert.NotNil(t, st.TopKeywords)
	assert.Empty(t, st.TopKeywords)
}

func TestRangeStats_TopTenCap(t *testing.T) {
	a := testAggregator()
	var entries []*ports.Entry
	for i := range 25 {
		entries = append(entries, entry(0, ports.LabelNeutral, 0, nil, fmt.Sprintf("w%d", i)))
	}
	st := a.RangeStats(entries, 7)
	assert.Len(t, st.TopKeywords, TopN)
	assert.Equal(t, "w0", st.TopKeywords[0].Keyword)
}

func TestRangeStats_LowerBoundInclusive(t *testing.T) {
	a := testAggregator()
	start := fixedNow.AddDate(0, 0, -7)
	entries := []*ports.Entry{
		{ID: "edge", Date: start, Sentiment: &ports.Sentiment{Label: ports.LabelPositive, Score: 0.5}},
		{ID: "before", Date: start.Add(-time.Nanosecond), Sentiment: &ports.Sentiment{Label: ports.LabelNegative, Score: -0.5}},
		{ID: "now", Date: fixedNow, Sentiment: &ports.Sentiment{Label: ports.LabelPositive, Score: 0.5}},
	}
	st := a.RangeStats(entries, 7)
	assert.Equal(t, 2, st.Total)
	assert.Equal(t, 2, st.Positive)
	assert.Equal(t, 0, st.Negative)
}

// =============================================================================
// Window cap
// =============================================================================

func TestWindow_CappedAtMaxDays(t *testing.T) {
	a := testAggregator()
	assert.Len(t, a.Window(MaxDays+1), MaxDays)

	var ts TimeSeries
	require.NotPanics(t, func() { ts = a.SentimentSeries(nil, math.MaxInt) })
	assert.Len(t, ts.Dates, MaxDays)
	assert.Len(t, ts.AvgScores, MaxDays)
	assert.Equal(t, "2025-03-10", ts.Dates[MaxDays-1])

	var ws WordSeries
	entries := []*ports.Entry{entry(0, ports.LabelPositive, 0.5, map[string]int{"행복": 2}, "행복")}
	require.NotPanics(t, func() { ws = a.WordSeries(entries, math.MaxInt) })
	require.Len(t, ws.Data["행복"], MaxDays)
	assert.Equal(t, 2, ws.Data["행복"][MaxDays-1])

	st := a.RangeStats(entries, math.MaxInt)
	assert.Equal(t, MaxDays, st.Days)
	assert.Equal(t, 1, st.Total)
}
