// Package dictionary holds the immutable mood dictionary: canonical keywords,
// their surface-form synonyms, a scoring weight, and a polarity.
//
// A Dictionary is built once (from the embedded lexicon or a user file) and
// passed by pointer to the extractor and the estimator. Nothing mutates it
// after construction; a reload builds a new Dictionary and swaps the pointer.
// Entry order is significant: when two keys could claim the same token, the
// one loaded first wins.
package dictionary

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Polarity is the sentiment direction of a dictionary key.
type Polarity string

const (
	Positive Polarity = "positive"
	Negative Polarity = "negative"
	Neutral  Polarity = "neutral"
)

// DefaultWeight applies to entries that omit a weight.
const DefaultWeight = 1.0

var (
	// ErrEmpty is returned when a source yields no entries.
	ErrEmpty = errors.New("dictionary is empty")
	// ErrDuplicateKey is returned when two entries share a canonical key.
	ErrDuplicateKey = errors.New("duplicate dictionary key")
)

// Entry is one canonical keyword.
type Entry struct {
	Key       string   `json:"key" yaml:"key"`
	Synonyms  []string `json:"synonyms" yaml:"synonyms"`
	Weight    float64  `json:"weight" yaml:"weight"`
	Sentiment Polarity `json:"sentiment" yaml:"sentiment"`
}

// Dictionary is an ordered, read-only keyword table.
type Dictionary struct {
	entries []Entry
	byKey   map[string]int // key -> index into entries

	synonymCount int
}

// New validates entries and builds a Dictionary. The slice is copied.
// Empty synonyms are dropped; a blank polarity becomes Neutral.
func New(entries []Entry) (*Dictionary, error) {
	if len(entries) == 0 {
		return nil, ErrEmpty
	}

	d := &Dictionary{
		entries: make([]Entry, 0, len(entries)),
		byKey:   make(map[string]int, len(entries)),
	}

	for i, e := range entries {
		key := strings.TrimSpace(e.Key)
		if key == "" {
			return nil, fmt.Errorf("entry %d: empty key", i)
		}
		if _, dup := d.byKey[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
		if e.Weight < 0 || math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
			return nil, fmt.Errorf("entry %q: invalid weight %v", key, e.Weight)
		}

		pol := Polarity(strings.ToLower(strings.TrimSpace(string(e.Sentiment))))
		switch pol {
		case Positive, Negative, Neutral:
		case "":
			pol = Neutral
		default:
			return nil, fmt.Errorf("entry %q: unknown sentiment %q", key, e.Sentiment)
		}

		syns := make([]string, 0, len(e.Synonyms))
		for _, s := range e.Synonyms {
			if s != "" {
				syns = append(syns, s)
			}
		}

		d.byKey[key] = len(d.entries)
		d.entries = append(d.entries, Entry{
			Key:       key,
			Synonyms:  syns,
			Weight:    e.Weight,
			Sentiment: pol,
		})
		d.synonymCount += len(syns)
	}

	return d, nil
}

// Len returns the number of keys.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Entries returns the entries in load order. Callers must not modify the
// returned slice.
func (d *Dictionary) Entries() []Entry {
	if d == nil {
		return nil
	}
	return d.entries
}

// At returns the entry at position i in load order.
func (d *Dictionary) At(i int) Entry {
	return d.entries[i]
}

// Lookup returns the entry for a canonical key.
func (d *Dictionary) Lookup(key string) (Entry, bool) {
	if d == nil {
		return Entry{}, false
	}
	i, ok := d.byKey[key]
	if !ok {
		return Entry{}, false
	}
	return d.entries[i], true
}

// Index returns the load-order position of key, or -1.
func (d *Dictionary) Index(key string) int {
	if d == nil {
		return -1
	}
	if i, ok := d.byKey[key]; ok {
		return i
	}
	return -1
}

// Polarity returns the polarity of key and whether the key exists.
func (d *Dictionary) Polarity(key string) (Polarity, bool) {
	e, ok := d.Lookup(key)
	if !ok {
		return "", false
	}
	return e.Sentiment, true
}

// Stats summarizes the dictionary contents.
type Stats struct {
	Keys     int `json:"keys"`
	Synonyms int `json:"synonyms"`
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Stats returns key, synonym and per-polarity counts.
func (d *Dictionary) Stats() Stats {
	if d == nil {
		return Stats{}
	}
	s := Stats{Keys: len(d.entries), Synonyms: d.synonymCount}
	for _, e := range d.entries {
		switch e.Sentiment {
		case Positive:
			s.Positive++
		case Negative:
			s.Negative++
		default:
			s.Neutral++
		}
	}
	return s
}
