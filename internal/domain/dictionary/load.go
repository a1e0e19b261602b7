package dictionary

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// rawEntry is the on-disk shape. Weight is a pointer so an omitted weight
// can be told apart from an explicit zero.
type rawEntry struct {
	Key       string   `yaml:"key"`
	Synonyms  []string `yaml:"synonyms"`
	Weight    *float64 `yaml:"weight"`
	Sentiment string   `yaml:"sentiment"`
}

func (r rawEntry) entry(key string) Entry {
	w := DefaultWeight
	if r.Weight != nil {
		w = *r.Weight
	}
	if key == "" {
		key = r.Key
	}
	return Entry{Key: key, Synonyms: r.Synonyms, Weight: w, Sentiment: Polarity(r.Sentiment)}
}

// Parse decodes dictionary entries from JSON or YAML. JSON is parsed by the
// YAML decoder, which accepts it as a subset. Two document shapes are
// accepted, both order-preserving:
//
//	[{"key": "행복", "synonyms": ["행복"], "weight": 1, "sentiment": "positive"}, ...]
//	{"행복": {"synonyms": ["행복"], "weight": 1, "sentiment": "positive"}, ...}
func Parse(data []byte) ([]Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode dictionary: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]

	switch root.Kind {
	case yaml.SequenceNode:
		entries := make([]Entry, 0, len(root.Content))
		for i, n := range root.Content {
			var r rawEntry
			if err := n.Decode(&r); err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			entries = append(entries, r.entry(""))
		}
		return entries, nil

	case yaml.MappingNode:
		entries := make([]Entry, 0, len(root.Content)/2)
		for i := 0; i+1 < len(root.Content); i += 2 {
			key := root.Content[i].Value
			var r rawEntry
			if err := root.Content[i+1].Decode(&r); err != nil {
				return nil, fmt.Errorf("entry %q: %w", key, err)
			}
			entries = append(entries, r.entry(key))
		}
		return entries, nil

	default:
		return nil, fmt.Errorf("decode dictionary: expected a list or a mapping at the top level")
	}
}

// IsDictFile reports whether name has a supported dictionary extension.
func IsDictFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads every dictionary file in dir of fsys and builds a Dictionary.
// Files are loaded in sorted name order for deterministic key precedence.
func Load(fsys fs.FS, dir string) (*Dictionary, error) {
	dirEntries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read dictionary dir %q: %w", dir, err)
	}

	sort.Slice(dirEntries, func(i, j int) bool {
		return dirEntries[i].Name() < dirEntries[j].Name()
	})

	var all []Entry
	for _, de := range dirEntries {
		if de.IsDir() || !IsDictFile(de.Name()) {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, de.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", de.Name(), err)
		}
		entries, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", de.Name(), err)
		}
		all = append(all, entries...)
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("%w: no entries found in %q", ErrEmpty, dir)
	}
	return New(all)
}

// LoadFile reads a single dictionary file, or every dictionary file when
// p is a directory.
func LoadFile(p string) (*Dictionary, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("stat dictionary: %w", err)
	}
	if info.IsDir() {
		return Load(os.DirFS(p), ".")
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	entries, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(p), err)
	}
	return New(entries)
}
