package keyword

import "strings"

// MatchPolicy decides whether a token matches a dictionary synonym.
// Both arguments arrive already case-folded according to Options.
type MatchPolicy interface {
	Match(token, synonym string) bool
}

// Exact matches only when the token equals the synonym.
type Exact struct{}

// Match implements MatchPolicy.
func (Exact) Match(token, synonym string) bool {
	return token == synonym
}

// Affix matches when the token contains the synonym and starts or ends with
// it. This lets inflected forms match ("행복하고" -> "행복") without matching a
// synonym buried mid-token.
type Affix struct{}

// Match implements MatchPolicy.
func (Affix) Match(token, synonym string) bool {
	if synonym == "" || len(synonym) > len(token) {
		return false
	}
	return strings.HasPrefix(token, synonym) || strings.HasSuffix(token, synonym)
}

// EditDistance matches when the Levenshtein distance between token and
// synonym, counted in runes, is at most Max.
type EditDistance struct {
	Max int
}

// Match implements MatchPolicy.
func (p EditDistance) Match(token, synonym string) bool {
	if synonym == "" {
		return false
	}
	return levenshtein([]rune(token), []rune(synonym), p.Max) <= p.Max
}

// levenshtein returns the edit distance between a and b, or limit+1 as soon
// as the distance is known to exceed limit.
func levenshtein(a, b []rune, limit int) int {
	if d := len(a) - len(b); d > limit || -d > limit {
		return limit + 1
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		rowMin := cur[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			rowMin = min(rowMin, cur[j])
		}
		if rowMin > limit {
			return limit + 1
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
