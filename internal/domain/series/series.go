// Package series aggregates persisted entries into the per-day views behind
// the statistics screens: a sentiment series, a keyword series, and summary
// statistics for a trailing range.
//
// Every function takes the full entry collection as input and recomputes from
// scratch. Nothing is cached. Entries with missing fields are counted as
// neutral with a zero score and no keywords; entries with a zero date cannot
// be placed on a day and are skipped.
package series

import (
	"sort"
	"time"

	"github.com/corey/moodlog/internal/ports"
)

// DefaultDays is the window used when a caller passes days <= 0.
const DefaultDays = 14

// MaxDays caps every window, roughly ten years of days.
const MaxDays = 3660

// Windows are the trailing windows offered to users.
var Windows = []int{14, 30, 90}

// TopN caps keyword tables and word series.
const TopN = 10

// TimeSeries is the per-day sentiment breakdown. All slices have one element
// per day in Dates.
type TimeSeries struct {
	Dates     []string  `json:"dates"`
	Positive  []int     `json:"positive"`
	Negative  []int     `json:"negative"`
	Neutral   []int     `json:"neutral"`
	AvgScores []float64 `json:"avgScores"`
}

// WordSeries is the per-day count of the most frequent keywords.
// Data[word] has one element per day in Dates.
type WordSeries struct {
	Dates []string         `json:"dates"`
	Words []string         `json:"words"`
	Data  map[string][]int `json:"data"`
}

// KeywordCount is one row of a keyword frequency table.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// RangeStats summarizes the entries of a trailing range. Positive and
// Negative include their very_* counterparts.
type RangeStats struct {
	Days         int            `json:"days"`
	Total        int            `json:"total"`
	Positive     int            `json:"positive"`
	Negative     int            `json:"negative"`
	Neutral      int            `json:"neutral"`
	VeryPositive int            `json:"veryPositive"`
	VeryNegative int            `json:"veryNegative"`
	AvgScore     float64        `json:"avgScore"`
	TopKeywords  []KeywordCount `json:"topKeywords"`
}

// Aggregator holds the clock and the time zone used to cut days.
// The zero value uses time.Now and UTC.
type Aggregator struct {
	Now      func() time.Time
	Location *time.Location
}

func (a Aggregator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a Aggregator) loc() *time.Location {
	if a.Location != nil {
		return a.Location
	}
	return time.UTC
}

// Day returns the YYYY-MM-DD bucket for t, or "" for the zero time.
func (a Aggregator) Day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(a.loc()).Format(ports.DayLayout)
}

// Today returns the current day key.
func (a Aggregator) Today() string {
	return a.Day(a.now())
}

// windowDays maps a requested window onto [1, MaxDays]. Non-positive
// values select DefaultDays.
func windowDays(days int) int {
	switch {
	case days <= 0:
		return DefaultDays
	case days > MaxDays:
		return MaxDays
	default:
		return days
	}
}

// Window returns days consecutive day keys ending today, oldest first.
// Windows longer than MaxDays are cut to MaxDays.
func (a Aggregator) Window(days int) []string {
	days = windowDays(days)
	today := a.now().In(a.loc())
	y, m, d := today.Date()
	out := make([]string, days)
	for i := range out {
		out[i] = time.Date(y, m, d-(days-1-i), 12, 0, 0, 0, a.loc()).Format(ports.DayLayout)
	}
	return out
}

// byDay groups entries by day key, skipping nil entries and zero dates.
func (a Aggregator) byDay(entries []*ports.Entry) map[string][]*ports.Entry {
	out := make(map[string][]*ports.Entry)
	for _, e := range entries {
		if e == nil {
			continue
		}
		if day := a.Day(e.Date); day != "" {
			out[day] = append(out[day], e)
		}
	}
	return out
}

// SentimentSeries counts entries per label group and averages their scores
// for each day of the window. Days without entries report zeros.
func (a Aggregator) SentimentSeries(entries []*ports.Entry, days int) TimeSeries {
	dates := a.Window(days)
	n := len(dates)
	ts := TimeSeries{
		Dates:     dates,
		Positive:  make([]int, n),
		Negative:  make([]int, n),
		Neutral:   make([]int, n),
		AvgScores: make([]float64, n),
	}

	groups := a.byDay(entries)
	for i, day := range dates {
		dayEntries := groups[day]
		if len(dayEntries) == 0 {
			continue
		}
		var sum float64
		for _, e := range dayEntries {
			switch l := e.Label(); {
			case l.IsPositive():
				ts.Positive[i]++
			case l.IsNegative():
				ts.Negative[i]++
			default:
				ts.Neutral[i]++
			}
			sum += e.Score()
		}
		ts.AvgScores[i] = sum / float64(len(dayEntries))
	}
	return ts
}

// WordSeries ranks keywords by their summed counts across the whole
// collection, keeps the top ten, and reports each one's daily count inside the
// window. Ties keep first-seen order.
func (a Aggregator) WordSeries(entries []*ports.Entry, days int) WordSeries {
	dates := a.Window(days)
	ws := WordSeries{
		Dates: dates,
		Words: []string{},
		Data:  map[string][]int{},
	}

	var r ranker
	for _, e := range entries {
		if e == nil {
			continue
		}
		for _, k := range entryKeys(e) {
			r.add(k, e.Counts[k])
		}
	}
	for _, kc := range r.top(TopN) {
		ws.Words = append(ws.Words, kc.Keyword)
		ws.Data[kc.Keyword] = make([]int, len(dates))
	}
	if len(ws.Words) == 0 {
		return ws
	}

	groups := a.byDay(entries)
	for i, day := range dates {
		for _, e := range groups[day] {
			for _, w := range ws.Words {
				ws.Data[w][i] += e.Counts[w]
			}
		}
	}
	return ws
}

// RangeStats summarizes entries dated within [now - days, now]. Keywords are
// ranked by the number of entries that list them. Days is capped at MaxDays.
func (a Aggregator) RangeStats(entries []*ports.Entry, days int) RangeStats {
	days = windowDays(days)
	now := a.now()
	start := now.AddDate(0, 0, -days)

	st := RangeStats{Days: days, TopKeywords: []KeywordCount{}}
	var (
		sum float64
		r   ranker
	)
	for _, e := range entries {
		if e == nil || e.Date.IsZero() || e.Date.Before(start) || e.Date.After(now) {
			continue
		}
		st.Total++
		switch e.Label() {
		case ports.LabelVeryPositive:
			st.VeryPositive++
			st.Positive++
		case ports.LabelPositive:
			st.Positive++
		case ports.LabelVeryNegative:
			st.VeryNegative++
			st.Negative++
		case ports.LabelNegative:
			st.Negative++
		default:
			st.Neutral++
		}
		sum += e.Score()
		for _, k := range e.Keywords {
			r.add(k, 1)
		}
	}
	if st.Total > 0 {
		st.AvgScore = sum / float64(st.Total)
	}
	st.TopKeywords = append(st.TopKeywords, r.top(TopN)...)
	return st
}

// entryKeys lists the keys of e.Counts, ordered by e.Keywords first and the
// rest sorted, so ranking ties resolve the same way on every call.
func entryKeys(e *ports.Entry) []string {
	if len(e.Counts) == 0 {
		return nil
	}
	keys := make([]string, 0, len(e.Counts))
	seen := make(map[string]bool, len(e.Counts))
	for _, k := range e.Keywords {
		if _, ok := e.Counts[k]; ok && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	rest := len(keys)
	for k := range e.Counts {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys[rest:])
	return keys
}

// ranker accumulates keyword totals and remembers first-seen order.
type ranker struct {
	order  []string
	totals map[string]int
}

func (r *ranker) add(key string, n int) {
	if key == "" {
		return
	}
	if r.totals == nil {
		r.totals = make(map[string]int)
	}
	if _, ok := r.totals[key]; !ok {
		r.order = append(r.order, key)
	}
	r.totals[key] += n
}

// top returns at most n keywords by descending total, stable on first-seen
// order. Keywords whose total is not positive are dropped.
func (r *ranker) top(n int) []KeywordCount {
	rows := make([]KeywordCount, 0, len(r.order))
	for _, k := range r.order {
		if c := r.totals[k]; c > 0 {
			rows = append(rows, KeywordCount{Keyword: k, Count: c})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
