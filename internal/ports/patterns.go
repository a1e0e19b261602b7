package ports

// PatternScanner finds every occurrence of a fixed pattern set in content
// using multi-pattern matching (Aho-Corasick). A single pass over the content
// reports all matches, overlapping ones included, regardless of how many
// patterns are in the set.
//
// The scanner is built once for an immutable pattern set. Content is matched
// as-is; the caller normalizes case on both sides.
type PatternScanner interface {
	// Scan returns all pattern occurrences in content with byte offsets.
	Scan(content string) []PatternMatch

	// Pattern returns the pattern at idx, or "" if idx is out of range.
	Pattern(idx int) string
}

// PatternMatch is one occurrence reported by a PatternScanner.
type PatternMatch struct {
	PatternIndex int // index into the pattern slice the scanner was built from
	Start        int // byte offset start (inclusive)
	End          int // byte offset end (exclusive)
}

// ScannerFactory builds a PatternScanner for a pattern set.
type ScannerFactory func(patterns []string) PatternScanner
