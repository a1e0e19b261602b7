// Package sentiment turns accumulated keyword weights into a five-level mood
// label with a normalized score and a confidence value.
//
// The estimator is pure: it reads polarities from an immutable dictionary and
// keeps no state between calls. Keys are visited in sorted order so the float
// sums, and therefore every returned field, are identical across runs.
package sentiment

import (
	"math"
	"sort"

	"github.com/corey/moodlog/internal/domain/dictionary"
	"github.com/corey/moodlog/internal/ports"
)

// Options holds the label thresholds. Comparisons are inclusive.
type Options struct {
	PositiveThreshold     float64 `json:"positiveThreshold" mapstructure:"positive_threshold"`
	NegativeThreshold     float64 `json:"negativeThreshold" mapstructure:"negative_threshold"`
	VeryPositiveThreshold float64 `json:"veryPositiveThreshold" mapstructure:"very_positive_threshold"`
	VeryNegativeThreshold float64 `json:"veryNegativeThreshold" mapstructure:"very_negative_threshold"`
	// Normalize divides the raw score by the total weight. The score is
	// clamped to [-1, 1] either way.
	Normalize bool `json:"normalize" mapstructure:"normalize"`
}

// DefaultOptions returns the standard thresholds with normalization on.
func DefaultOptions() Options {
	return Options{
		PositiveThreshold:     0.3,
		NegativeThreshold:     -0.3,
		VeryPositiveThreshold: 0.6,
		VeryNegativeThreshold: -0.6,
		Normalize:             true,
	}
}

// minConfidenceBase is the floor of the confidence denominator. Full
// confidence needs at least this many emotion-bearing keywords.
const minConfidenceBase = 3

// Estimator scores keyword weights against a dictionary.
type Estimator struct {
	dict *dictionary.Dictionary
	opts Options
}

// NewEstimator creates an Estimator.
func NewEstimator(dict *dictionary.Dictionary, opts Options) *Estimator {
	return &Estimator{dict: dict, opts: opts}
}

// Options returns the thresholds the estimator was built with.
func (e *Estimator) Options() Options {
	return e.opts
}

// Estimate computes the sentiment for weighted (keyword -> accumulated
// weight). A nil or empty map yields a neutral result with zero score and
// zero confidence. Keys missing from the dictionary and neutral keys add to
// the total weight only.
func (e *Estimator) Estimate(weighted map[string]float64) ports.Sentiment {
	if len(weighted) == 0 {
		return ports.Sentiment{Label: ports.LabelNeutral}
	}

	keys := make([]string, 0, len(weighted))
	for k := range weighted {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		raw, total float64
		pos, neg   int
	)
	for _, k := range keys {
		w := weighted[k]
		if math.IsNaN(w) || math.IsInf(w, 0) {
			w = 0
		}
		total += math.Abs(w)

		pol, _ := e.dict.Polarity(k)
		switch pol {
		case dictionary.Positive:
			raw += w
			pos++
		case dictionary.Negative:
			raw -= w
			neg++
		}
	}

	score := raw
	if e.opts.Normalize && total > 0 {
		score = raw / total
	}
	score = round3(clamp(score))

	confidence := float64(pos+neg) / float64(max(minConfidenceBase, len(keys)))

	return ports.Sentiment{
		Label:      e.Classify(score),
		Score:      score,
		RawScore:   round3(raw),
		Confidence: round3(min(1, confidence)),
		Details: ports.SentimentDetails{
			PositiveCount: pos,
			NegativeCount: neg,
			TotalWords:    len(keys),
			TotalWeight:   round3(total),
		},
	}
}

// Classify maps a score to a label. Very-positive is checked first, then
// positive, very-negative, negative; anything else is neutral.
func (e *Estimator) Classify(score float64) ports.Label {
	o := e.opts
	switch {
	case score >= o.VeryPositiveThreshold:
		return ports.LabelVeryPositive
	case score >= o.PositiveThreshold:
		return ports.LabelPositive
	case score <= o.VeryNegativeThreshold:
		return ports.LabelVeryNegative
	case score <= o.NegativeThreshold:
		return ports.LabelNegative
	default:
		return ports.LabelNeutral
	}
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
