package text

import "strings"

// Token is one whitespace-delimited piece of normalized text.
type Token struct {
	Text  string
	Index int // 0-based position in the token sequence
}

// Tokenize splits normalized text on whitespace runs. Empty pieces are
// dropped. Returns nil for empty input.
func Tokenize(s string) []Token {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return nil
	}
	tokens := make([]Token, len(parts))
	for i, p := range parts {
		tokens[i] = Token{Text: p, Index: i}
	}
	return tokens
}

// Fields normalizes raw text and tokenizes it.
func Fields(raw string) []Token {
	return Tokenize(Normalize(raw))
}
