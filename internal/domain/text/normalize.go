// Package text turns raw diary text into a normalized token sequence.
// Both steps are pure functions and never fail: unusable input degrades to
// an empty result.
package text

import (
	"strings"
	"unicode"
)

// Hangul ranges kept by Normalize.
const (
	jamoConsonantFirst = 'ㄱ' // U+3131
	jamoConsonantLast  = 'ㅎ' // U+314E
	jamoVowelFirst     = 'ㅏ' // U+314F
	jamoVowelLast      = 'ㅣ' // U+3163
	syllableFirst      = '가' // U+AC00
	syllableLast       = '힣' // U+D7A3
)

// Normalize prepares text for tokenization.
// Rules:
//  1. Trim surrounding whitespace
//  2. Lowercase ASCII A-Z only (other scripts untouched)
//  3. Replace anything that is not [A-Za-z0-9_], whitespace, a Hangul
//     compatibility jamo or a Hangul syllable with a space
//  4. Collapse whitespace runs to one space and trim again
//
// Normalize is idempotent.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case keepRune(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// keepRune reports whether r survives normalization unchanged.
func keepRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
		return true
	case r >= jamoConsonantFirst && r <= jamoConsonantLast:
		return true
	case r >= jamoVowelFirst && r <= jamoVowelLast:
		return true
	case r >= syllableFirst && r <= syllableLast:
		return true
	case unicode.IsSpace(r):
		return true
	}
	return false
}
