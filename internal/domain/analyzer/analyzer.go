// Package analyzer runs the full text pipeline for one piece of diary text:
// keyword extraction, sentiment estimation, highlighting and the display
// attributes derived from the label and score.
//
// An Analyzer is immutable once built. Reloading the dictionary means building
// a new Analyzer; callers that need hot reload hold it behind an atomic pointer.
package analyzer

import (
	"github.com/corey/moodlog/internal/domain/dictionary"
	"github.com/corey/moodlog/internal/domain/keyword"
	"github.com/corey/moodlog/internal/domain/sentiment"
	"github.com/corey/moodlog/internal/domain/text"
	"github.com/corey/moodlog/internal/ports"
)

// Extractor is satisfied by keyword.Extractor and keyword.IndexedExtractor.
type Extractor interface {
	Extract(raw string) keyword.Result
}

// Options configures an Analyzer.
type Options struct {
	Keyword   keyword.Options
	Sentiment sentiment.Options
	// Indexed selects keyword.IndexedExtractor. Scanner builds its affix
	// scanner; nil uses the built-in substring scanner.
	Indexed bool
	Scanner ports.ScannerFactory
	// Source describes where the dictionary came from, for status output.
	Source string
}

// Analyzer bundles a dictionary with the extractor and estimator built on it.
type Analyzer struct {
	dict      *dictionary.Dictionary
	extractor Extractor
	estimator *sentiment.Estimator
	indexed   bool
	source    string
}

// New builds an Analyzer for dict.
func New(dict *dictionary.Dictionary, opts Options) *Analyzer {
	a := &Analyzer{
		dict:      dict,
		estimator: sentiment.NewEstimator(dict, opts.Sentiment),
		indexed:   opts.Indexed,
		source:    opts.Source,
	}
	if opts.Indexed {
		a.extractor = keyword.NewIndexedExtractor(dict, opts.Keyword, opts.Scanner)
	} else {
		a.extractor = keyword.NewExtractor(dict, opts.Keyword)
	}
	return a
}

// Dictionary returns the dictionary the analyzer was built on.
func (a *Analyzer) Dictionary() *dictionary.Dictionary { return a.dict }

// Source returns the dictionary source description.
func (a *Analyzer) Source() string { return a.source }

// Indexed reports whether the indexed extractor is in use.
func (a *Analyzer) Indexed() bool { return a.indexed }

// Extract runs keyword extraction only.
func (a *Analyzer) Extract(raw string) keyword.Result {
	return a.extractor.Extract(raw)
}

// Estimate runs sentiment estimation only.
func (a *Analyzer) Estimate(weighted map[string]float64) ports.Sentiment {
	return a.estimator.Estimate(weighted)
}

// Highlight splits raw into plain and keyword segments.
func (a *Analyzer) Highlight(raw string, keywords []string) []keyword.Segment {
	return keyword.Highlight(a.dict, raw, keywords)
}

// Analysis is the combined output for one text.
type Analysis struct {
	Text       string `json:"text"`
	Normalized string `json:"normalized"`
	keyword.Result
	Sentiment ports.Sentiment   `json:"sentiment"`
	Display   Display           `json:"display"`
	Segments  []keyword.Segment `json:"segments"`
}

// Display holds the presentation attributes of a sentiment.
type Display struct {
	Text    string          `json:"text"`
	Emoji   string          `json:"emoji"`
	Percent int             `json:"percent"`
	Color   string          `json:"color"` // score gradient color
	Opacity float64         `json:"opacity"`
	Theme   sentiment.Theme `json:"theme"`
}

// DisplayFor derives display attributes from s.
func DisplayFor(s ports.Sentiment) Display {
	return Display{
		Text:    sentiment.LabelText(s.Label),
		Emoji:   sentiment.LabelEmoji(s.Label),
		Percent: sentiment.ScoreToPercent(s.Score),
		Color:   sentiment.ScoreToGradientColor(s.Score),
		Opacity: sentiment.ScoreToOpacity(s.Score),
		Theme:   sentiment.ThemeFor(s.Label),
	}
}

// Analyze runs extraction, estimation and highlighting on raw.
func (a *Analyzer) Analyze(raw string) Analysis {
	res := a.extractor.Extract(raw)
	s := a.estimator.Estimate(res.Weighted)
	return Analysis{
		Text:       raw,
		Normalized: text.Normalize(raw),
		Result:     res,
		Sentiment:  s,
		Display:    DisplayFor(s),
		Segments:   keyword.Highlight(a.dict, raw, res.Keywords),
	}
}

// Entry fills the analysis fields of e from a fresh analysis of e.Text.
func (a *Analyzer) Entry(e *ports.Entry) Analysis {
	an := a.Analyze(e.Text)
	e.Keywords = an.Keywords
	e.Counts = an.Counts
	e.Weighted = an.Weighted
	s := an.Sentiment
	e.Sentiment = &s
	return an
}
