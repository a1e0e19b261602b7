package keyword

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/corey/moodlog/internal/domain/dictionary"
)

// Segment is one piece of a highlighted text. Concatenating the Text of every
// segment reproduces the original input exactly.
type Segment struct {
	Text      string `json:"text"`
	IsKeyword bool   `json:"isKeyword"`
	Keyword   string `json:"keyword,omitempty"`
}

type occurrence struct {
	start, end int
	keyword    string
}

// Highlight marks literal occurrences of the given keywords' synonyms in the
// raw (not normalized) text. Search is a case-insensitive substring search,
// without the affix rule used for extraction. Occurrences are ordered by
// start offset; one that overlaps an already accepted occurrence is dropped.
//
// Empty text, or no keywords, yields a single plain segment.
func Highlight(dict *dictionary.Dictionary, raw string, keywords []string) []Segment {
	if raw == "" || len(keywords) == 0 {
		return []Segment{{Text: raw}}
	}

	folded := foldSameWidth(raw)

	var found []occurrence
	for _, kw := range keywords {
		e, ok := dict.Lookup(kw)
		if !ok {
			continue
		}
		for _, syn := range e.Synonyms {
			needle := foldSameWidth(syn)
			if needle == "" {
				continue
			}
			from := 0
			for from < len(folded) {
				i := strings.Index(folded[from:], needle)
				if i < 0 {
					break
				}
				start := from + i
				found = append(found, occurrence{start: start, end: start + len(needle), keyword: kw})
				_, size := utf8.DecodeRuneInString(folded[start:])
				from = start + size
			}
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].start < found[j].start
	})

	var segs []Segment
	pos := 0
	for _, o := range found {
		if o.start < pos {
			continue // overlaps an accepted occurrence
		}
		if pos < o.start {
			segs = append(segs, Segment{Text: raw[pos:o.start]})
		}
		segs = append(segs, Segment{Text: raw[o.start:o.end], IsKeyword: true, Keyword: o.keyword})
		pos = o.end
	}
	if pos < len(raw) {
		segs = append(segs, Segment{Text: raw[pos:]})
	}
	return segs
}

// foldSameWidth lower-cases s rune by rune, skipping any rune whose lower
// form has a different UTF-8 width, so byte offsets in the result line up
// with the input. Invalid bytes are copied through unchanged.
func foldSameWidth(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			b.WriteByte(s[i])
			i++
			continue
		}
		if lr := unicode.ToLower(r); utf8.RuneLen(lr) == size {
			b.WriteRune(lr)
		} else {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}
