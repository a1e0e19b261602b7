package keyword

import (
	"strings"
	"unicode/utf8"

	"github.com/corey/moodlog/internal/domain/dictionary"
	"github.com/corey/moodlog/internal/domain/text"
	"github.com/corey/moodlog/internal/ports"
)

type indexMode int

const (
	modeExact indexMode = iota
	modeAffix
	modeScan // policy has no index; defer to the direct extractor
)

// IndexedExtractor answers the same question as Extractor using a synonym
// index built once at construction.
//
// Exact matching is a single map lookup per token. Affix matching runs a
// multi-pattern scanner over each token and keeps hits anchored at the token
// start or end. When several synonyms hit the same token the earliest-loaded
// dictionary key wins, exactly as in the direct scan.
type IndexedExtractor struct {
	dict *dictionary.Dictionary
	opts Options
	mode indexMode

	owner    map[string]int // folded synonym -> lowest owning entry index
	patterns []string       // unique folded synonyms, scanner pattern order
	owners   []int          // patterns[i] -> lowest owning entry index
	scanner  ports.PatternScanner

	direct *Extractor
}

// NewIndexedExtractor builds the synonym index for dict. newScanner builds the
// affix scanner; nil selects a simple substring scanner.
func NewIndexedExtractor(dict *dictionary.Dictionary, opts Options, newScanner ports.ScannerFactory) *IndexedExtractor {
	x := &IndexedExtractor{
		dict:  dict,
		opts:  opts,
		owner: make(map[string]int),
	}

	switch opts.policy().(type) {
	case Exact, *Exact:
		x.mode = modeExact
	case Affix, *Affix:
		x.mode = modeAffix
	default:
		x.mode = modeScan
		x.direct = NewExtractor(dict, opts)
		return x
	}

	for i, e := range dict.Entries() {
		for _, s := range e.Synonyms {
			f := opts.fold(s)
			if _, seen := x.owner[f]; seen {
				continue
			}
			x.owner[f] = i
			x.patterns = append(x.patterns, f)
			x.owners = append(x.owners, i)
		}
	}

	if x.mode == modeAffix {
		if newScanner == nil {
			newScanner = newSubstringScanner
		}
		x.scanner = newScanner(x.patterns)
	}
	return x
}

// Extract implements the same contract as Extractor.Extract.
func (x *IndexedExtractor) Extract(raw string) Result {
	if x.mode == modeScan {
		return x.direct.Extract(raw)
	}

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

func (x *IndexedExtractor) match(token string) int {
	if x.mode == modeExact {
		if i, ok := x.owner[token]; ok {
			return i
		}
		return -1
	}

	best := -1
	for _, m := range x.scanner.Scan(token) {
		if m.Start != 0 && m.End != len(token) {
			continue
		}
		if o := x.owners[m.PatternIndex]; best < 0 || o < best {
			best = o
		}
	}
	return best
}

// substringScanner is the fallback PatternScanner: one strings.Index pass per
// pattern. Fine for short tokens; the Aho-Corasick adapter is used in the app.
type substringScanner struct {
	patterns []string
}

func newSubstringScanner(patterns []string) ports.PatternScanner {
	p := make([]string, len(patterns))
	copy(p, patterns)
	return &substringScanner{patterns: p}
}

func (s *substringScanner) Scan(content string) []ports.PatternMatch {
	var out []ports.PatternMatch
	for pi, p := range s.patterns {
		if p == "" {
			continue
		}
		from := 0
		for from <= len(content)-len(p) {
			i := strings.Index(content[from:], p)
			if i < 0 {
				break
			}
			start := from + i
			out = append(out, ports.PatternMatch{PatternIndex: pi, Start: start, End: start + len(p)})
			_, size := utf8.DecodeRuneInString(content[start:])
			from = start + size
		}
	}
	return out
}

func (s *substringScanner) Pattern(idx int) string {
	if idx < 0 || idx >= len(s.patterns) {
		return ""
	}
	return s.patterns[idx]
}
