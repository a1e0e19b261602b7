package dictionary

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/corey/moodlog/lexicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	d, err := New([]Entry{
		{Key: "행복", Synonyms: []string{"행복", "", "happy"}, Weight: 1, Sentiment: "Positive"},
		{Key: "회사", Synonyms: []string{"회사"}, Weight: 0.5},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, d.Len())
	e, ok := d.Lookup("행복")
	require.True(t, ok)
	assert.Equal(t, []string{"행복", "happy"}, e.Synonyms, "empty synonyms dropped")
	assert.Equal(t, Positive, e.Sentiment, "polarity is case-folded")

	pol, ok := d.Polarity("회사")
	require.True(t, ok)
	assert.Equal(t, Neutral, pol, "blank polarity defaults to neutral")

	assert.Equal(t, 1, d.Index("회사"))
	assert.Equal(t, -1, d.Index("missing"))
}

func TestNew_Rejects(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = New([]Entry{{Key: "a"}, {Key: "a"}})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	_, err = New([]Entry{{Key: " "}})
	assert.Error(t, err)

	_, err = New([]Entry{{Key: "a", Weight: -1}})
	assert.Error(t, err)

	_, err = New([]Entry{{Key: "a", Sentiment: "ecstatic"}})
	assert.Error(t, err)
}

func TestParse_ListAndMapping(t *testing.T) {
	list := []byte(`[
		{"key": "b", "synonyms": ["bee"], "weight": 2, "sentiment": "negative"},
		{"key": "a", "synonyms": ["ay"]}
	]`)
	entries, err := Parse(list)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].Key)
	assert.Equal(t, 2.0, entries[0].Weight)
	assert.Equal(t, DefaultWeight, entries[1].Weight, "omitted weight defaults to 1")

	mapping := []byte(`
zeta:
  synonyms: [z]
  weight: 0
  sentiment: positive
alpha:
  synonyms: [a]
`)
	entries, err = Parse(mapping)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "zeta", entries[0].Key, "mapping order is preserved")
	assert.Equal(t, 0.0, entries[0].Weight, "explicit zero weight is kept")
	assert.Equal(t, "alpha", entries[1].Key)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`"just a string"`))
	assert.Error(t, err)

	entries, err := Parse([]byte(""))
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoad_SortedFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"d/20_b.json": {Data: []byte(`[{"key": "b", "synonyms": ["x"]}]`)},
		"d/10_a.yaml": {Data: []byte("- key: a\n  synonyms: [x]\n")},
		"d/notes.txt": {Data: []byte("ignored")},
	}
	d, err := Load(fsys, "d")
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())
	assert.Equal(t, "a", d.At(0).Key, "files load in name order")
	assert.Equal(t, "b", d.At(1).Key)
}

func TestLoad_EmptyDir(t *testing.T) {
	fsys := fstest.MapFS{"d/readme.md": {Data: []byte("x")}}
	_, err := Load(fsys, "d")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "mine.yaml")
	require.NoError(t, os.WriteFile(p, []byte("- key: 행복\n  synonyms: [행복]\n  sentiment: positive\n"), 0o644))

	d, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())

	d, err = LoadFile(dir)
	require.NoError(t, err, "directories load every dictionary file")
	assert.Equal(t, 1, d.Len())

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestEmbeddedLexicon(t *testing.T) {
	d, err := Load(lexicon.FS, lexicon.Dir)
	require.NoError(t, err)

	s := d.Stats()
	assert.Equal(t, d.Len(), s.Keys)
	assert.Greater(t, s.Positive, 0)
	assert.Greater(t, s.Negative, 0)
	assert.Greater(t, s.Neutral, 0)
	assert.Equal(t, s.Keys, s.Positive+s.Negative+s.Neutral)

	e, ok := d.Lookup("행복")
	require.True(t, ok)
	assert.Equal(t, Positive, e.Sentiment)
	assert.Equal(t, 1.0, e.Weight)
	assert.Equal(t, 0, d.Index("행복"), "positive file loads first")
}

func TestNilDictionary(t *testing.T) {
	var d *Dictionary
	assert.Equal(t, 0, d.Len())
	assert.Nil(t, d.Entries())
	_, ok := d.Lookup("x")
	assert.False(t, ok)
	assert.Equal(t, Stats{}, d.Stats())
}
