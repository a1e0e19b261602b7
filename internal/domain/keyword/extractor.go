// Package keyword matches normalized diary tokens against the mood dictionary
// and reports per-key counts, accumulated weights and token positions.
//
// Two extractors are provided. Extractor scans every dictionary entry for
// every token. IndexedExtractor pre-builds a synonym index and is the better
// choice for long texts or large dictionaries. Both give each token position
// to at most one key (the earliest-loaded dictionary key that matches), so
// their results are identical for the same Options.
package keyword

import (
	"strings"
	"unicode/utf8"

	"github.com/corey/moodlog/internal/domain/dictionary"
	"github.com/corey/moodlog/internal/domain/text"
)

// Options controls matching. The zero value is the default configuration:
// case-insensitive affix matching with no token length filter.
type Options struct {
	CaseSensitive  bool        `json:"caseSensitive" mapstructure:"case_sensitive"`
	ExactMatch     bool        `json:"exactMatch" mapstructure:"exact_match"`
	MinTokenLength int         `json:"minTokenLength" mapstructure:"min_token_length"` // in runes; values below 1 mean 1
	Policy         MatchPolicy `json:"-" mapstructure:"-"`                              // overrides ExactMatch when set
}

// policy resolves the effective match policy.
func (o Options) policy() MatchPolicy {
	if o.Policy != nil {
		return o.Policy
	}
	if o.ExactMatch {
		return Exact{}
	}
	return Affix{}
}

func (o Options) minLength() int {
	if o.MinTokenLength < 1 {
		return 1
	}
	return o.MinTokenLength
}

// fold applies the case rule from o to s.
func (o Options) fold(s string) string {
	if o.CaseSensitive {
		return s
	}
	return strings.ToLower(s)
}

// Extractor is the direct-scan keyword extractor.
type Extractor struct {
	dict     *dictionary.Dictionary
	opts     Options
	policy   MatchPolicy
	synonyms [][]string // per dictionary entry, case-folded
}

// NewExtractor builds a direct-scan extractor over dict.
func NewExtractor(dict *dictionary.Dictionary, opts Options) *Extractor {
	entries := dict.Entries()
	syns := make([][]string, len(entries))
	for i, e := range entries {
		folded := make([]string, len(e.Synonyms))
		for j, s := range e.Synonyms {
			folded[j] = opts.fold(s)
		}
		syns[i] = folded
	}
	return &Extractor{
		dict:     dict,
		opts:     opts,
		policy:   opts.policy(),
		synonyms: syns,
	}
}

// Options returns the options the extractor was built with.
func (x *Extractor) Options() Options {
	return x.opts
}

// Extract normalizes and tokenizes raw, then matches every token against the
// dictionary in load order. The first key with a matching synonym claims the
// token. Empty input yields an empty Result.
func (x *Extractor) Extract(raw string) Result {
	tokens := text.Fields(raw)
	t := newTally()
	minLen := x.opts.minLength()

	for _, tok := range tokens {
		if utf8.RuneCountInString(tok.Text) < minLen {
			continue
		}
		if i := x.match(x.opts.fold(tok.Text)); i >= 0 {
			e := x.dict.At(i)
			t.add(e.Key, e.Weight, tok.Index)
		}
	}
	return t.finish(len(tokens))
}

// match returns the index of the first dictionary entry with a synonym
// matching token, or -1.
func (x *Extractor) match(token string) int {
	for i, syns := range x.synonyms {
		for _, s := range syns {
			if x.policy.Match(token, s) {
				return i
			}
		}
	}
	return -1
}
