// Package lexicon embeds the default mood dictionary for compile-time inclusion.
// Each JSON file holds an ordered array of dictionary entries: a canonical key,
// its surface-form synonyms, a weight, and a polarity. Files are loaded in name
// order and entry order is preserved, so the numeric prefixes matter.
//
// Usage:
//
//	dictionary.Load(lexicon.FS, "v1")
package lexicon

import "embed"

//go:embed v1/*.json
var FS embed.FS

// Dir is the directory inside FS holding the current dictionary version.
const Dir = "v1"
