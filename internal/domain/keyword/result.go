package keyword

import (
	"math"
	"sort"
)

// Result is the outcome of one extraction call. It is not persisted on its
// own; Keywords, Counts and Weighted are copied into the saved entry.
type Result struct {
	Keywords  []string           `json:"keywords"`  // matched keys, most frequent first
	Counts    map[string]int     `json:"counts"`    // key -> matched tokens
	Weighted  map[string]float64 `json:"weighted"`  // key -> accumulated weight
	Positions map[string][]int   `json:"positions"` // key -> token indexes
	Meta      Meta               `json:"meta"`
}

// Meta describes token coverage for a Result.
type Meta struct {
	TotalTokens   int     `json:"totalTokens"`
	MatchedTokens int     `json:"matchedTokens"`
	MatchRate     float64 `json:"matchRate"` // MatchedTokens / TotalTokens, 3 decimals
}

// emptyResult returns a Result with non-nil, empty collections.
func emptyResult() Result {
	return Result{
		Keywords:  []string{},
		Counts:    map[string]int{},
		Weighted:  map[string]float64{},
		Positions: map[string][]int{},
	}
}

// tally accumulates matches and remembers discovery order for stable sorting.
type tally struct {
	res     Result
	order   []string
	matched int
}

func newTally() *tally {
	return &tally{res: emptyResult()}
}

// add records that the token at idx matched key.
func (t *tally) add(key string, weight float64, idx int) {
	if _, seen := t.res.Counts[key]; !seen {
		t.order = append(t.order, key)
	}
	t.res.Counts[key]++
	t.res.Weighted[key] += weight
	t.res.Positions[key] = append(t.res.Positions[key], idx)
	t.matched++
}

// finish sorts keywords by descending count (ties keep discovery order) and
// fills in the metadata.
func (t *tally) finish(totalTokens int) Result {
	keywords := make([]string, len(t.order))
	copy(keywords, t.order)
	counts := t.res.Counts
	sort.SliceStable(keywords, func(i, j int) bool {
		return counts[keywords[i]] > counts[keywords[j]]
	})
	t.res.Keywords = keywords

	t.res.Meta = Meta{TotalTokens: totalTokens, MatchedTokens: t.matched}
	if totalTokens > 0 {
		t.res.Meta.MatchRate = Round3(float64(t.matched) / float64(totalTokens))
	}
	return t.res
}

// Round3 rounds half away from zero to 3 decimal places.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
