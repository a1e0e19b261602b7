package app

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/corey/moodlog/internal/domain/analyzer"
	"github.com/corey/moodlog/internal/domain/dictionary"
	"github.com/corey/moodlog/internal/domain/keyword"
	"github.com/corey/moodlog/internal/domain/reply"
	"github.com/corey/moodlog/internal/domain/series"
	"github.com/corey/moodlog/internal/ports"
	"github.com/corey/moodlog/lexicon"
)

var (
	// ErrEmptyText is returned when an entry has no text.
	ErrEmptyText = fmt.Errorf("%w: entry text is empty", ports.ErrInvalid)
	// ErrFutureDate is returned when an entry is written for a day after today.
	ErrFutureDate = fmt.Errorf("%w: cannot write an entry for a future date", ports.ErrInvalid)
	// ErrInvalidDate is returned for a day that is not YYYY-MM-DD.
	ErrInvalidDate = fmt.Errorf("%w: date must be YYYY-MM-DD", ports.ErrInvalid)
)

// EmbeddedSource names the built-in lexicon in status output.
const EmbeddedSource = "embedded:" + lexicon.Dir

// LoadDictionary loads the dictionary at path (a JSON/YAML file or a
// directory of them), or the embedded lexicon when path is empty. It also
// returns a description of the source.
func LoadDictionary(path string) (*dictionary.Dictionary, string, error) {
	if path == "" {
		d, err := dictionary.Load(lexicon.FS, lexicon.Dir)
		if err != nil {
			return nil, "", fmt.Errorf("embedded lexicon: %w", err)
		}
		return d, EmbeddedSource, nil
	}
	d, err := dictionary.LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	return d, path, nil
}

// JournalConfig holds the dependencies of a Journal.
type JournalConfig struct {
	Store      ports.EntryStore
	Dictionary *dictionary.Dictionary
	Analyzer   analyzer.Options
	Location   *time.Location // day boundaries; nil = UTC
	// DefaultDays replaces a non-positive window in the statistics views.
	DefaultDays int
	Logger      logrus.FieldLogger
	Now         func() time.Time // nil = time.Now
	Rand        *rand.Rand       // reply template choice; nil = global source
	NewID       func() string    // nil = random UUID
}

// Journal is the application service behind the CLI and HTTP API. It runs
// the analysis pipeline on new entries, persists them, and serves the
// statistics views. Safe for concurrent use.
type Journal struct {
	analyzer atomic.Pointer[analyzer.Analyzer]
	opts     analyzer.Options

	store   ports.EntryStore
	agg     series.Aggregator
	replies reply.Generator
	log     logrus.FieldLogger
	days    int
	newID   func() string
}

// NewJournal wires a Journal. Store and Dictionary are required.
func NewJournal(cfg JournalConfig) *Journal {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	log := cfg.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	days := cfg.DefaultDays
	if days <= 0 {
		days = series.DefaultDays
	}

	j := &Journal{
		opts:    cfg.Analyzer,
		store:   cfg.Store,
		agg:     series.Aggregator{Now: now, Location: loc},
		replies: reply.Generator{Rand: cfg.Rand},
		log:     log,
		days:    days,
		newID:   newID,
	}
	j.analyzer.Store(analyzer.New(cfg.Dictionary, cfg.Analyzer))
	return j
}

// Analyzer returns the analyzer currently in use.
func (j *Journal) Analyzer() *analyzer.Analyzer {
	return j.analyzer.Load()
}

// Dictionary returns the dictionary currently in use.
func (j *Journal) Dictionary() *dictionary.Dictionary {
	return j.analyzer.Load().Dictionary()
}

// Today returns today's day key in the journal's location.
func (j *Journal) Today() string {
	return j.agg.Today()
}

// Analyze runs the pipeline on text without saving anything.
func (j *Journal) Analyze(text string) analyzer.Analysis {
	return j.analyzer.Load().Analyze(text)
}

// Highlight splits text into keyword and plain segments. When keywords is
// empty, they are extracted from text first.
func (j *Journal) Highlight(text string, keywords []string) []keyword.Segment {
	a := j.analyzer.Load()
	if len(keywords) == 0 {
		keywords = a.Extract(text).Keywords
	}
	return a.Highlight(text, keywords)
}

// Write analyzes text, attaches a reply and saves it as a new entry dated
// day (YYYY-MM-DD, empty = today) at the current time of day. The day's mood
// color is set to the new entry's label.
func (j *Journal) Write(ctx context.Context, text, day string) (*ports.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	date, err := j.entryTime(day)
	if err != nil {
		return nil, err
	}

	e := &ports.Entry{ID: j.newID(), Date: date, Text: text}
	j.analyzer.Load().Entry(e)
	e.BotReply = j.replies.Reply(e)

	if err := j.store.SaveEntry(e); err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}
	dayKey := j.agg.Day(date)
	if err := j.store.SaveMoodColor(dayKey, e.Label()); err != nil {
		return nil, fmt.Errorf("save mood color: %w", err)
	}

	j.log.WithFields(logrus.Fields{
		"id":       e.ID,
		"day":      dayKey,
		"label":    e.Label(),
		"score":    e.Score(),
		"keywords": len(e.Keywords),
	}).Info("entry saved")
	return e, nil
}

// Edit replaces the text of an existing entry and reruns the analysis and
// reply. The entry keeps its id and date; the day's mood color follows the
// new label.
func (j *Journal) Edit(ctx context.Context, id, text string) (*ports.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	a := j.analyzer.Load()
	var updated ports.Entry
	err := j.store.UpdateEntry(id, func(e *ports.Entry) {
		e.Text = text
		a.Entry(e)
		e.BotReply = j.replies.Reply(e)
		updated = *e
	})
	if err != nil {
		return nil, err
	}

	if !updated.Date.IsZero() {
		if err := j.store.SaveMoodColor(j.agg.Day(updated.Date), updated.Label()); err != nil {
			return nil, fmt.Errorf("save mood color: %w", err)
		}
	}
	j.log.WithFields(logrus.Fields{"id": id, "label": updated.Label()}).Info("entry edited")
	return &updated, nil
}

// entryTime combines day with the current time of day.
func (j *Journal) entryTime(day string) (time.Time, error) {
	now := j.agg.Now().In(j.agg.Location)
	if day == "" {
		return now, nil
	}
	d, err := j.parseDay(day)
	if err != nil {
		return time.Time{}, err
	}
	if day > now.Format(ports.DayLayout) {
		return time.Time{}, fmt.Errorf("%w: %s", ErrFutureDate, day)
	}
	return time.Date(d.Year(), d.Month(), d.Day(),
		now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), j.agg.Location), nil
}

func (j *Journal) parseDay(day string) (time.Time, error) {
	d, err := time.ParseInLocation(ports.DayLayout, day, j.agg.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, day)
	}
	return d, nil
}

// Entry returns one entry.
func (j *Journal) Entry(id string) (*ports.Entry, error) {
	return j.store.Entry(id)
}

// History returns the entries of day, or every entry when day is empty,
// newest first.
func (j *Journal) History(day string) ([]*ports.Entry, error) {
	if day == "" {
		return j.store.Entries()
	}
	if _, err := j.parseDay(day); err != nil {
		return nil, err
	}
	return j.store.EntriesByDate(day)
}

// Delete removes an entry. The day's mood color is left as is.
func (j *Journal) Delete(id string) error {
	if err := j.store.DeleteEntry(id); err != nil {
		return err
	}
	j.log.WithField("id", id).Info("entry deleted")
	return nil
}

func (j *Journal) window(days int) int {
	if days <= 0 {
		return j.days
	}
	return days
}

// Stats summarizes the entries of the last days days.
func (j *Journal) Stats(days int) (series.RangeStats, error) {
	entries, err := j.store.Entries()
	if err != nil {
		return series.RangeStats{}, err
	}
	return j.agg.RangeStats(entries, j.window(days)), nil
}

// SentimentSeries returns per-day label counts and mean scores.
func (j *Journal) SentimentSeries(days int) (series.TimeSeries, error) {
	entries, err := j.store.Entries()
	if err != nil {
		return series.TimeSeries{}, err
	}
	return j.agg.SentimentSeries(entries, j.window(days)), nil
}

// WordSeries returns per-day counts of the most frequent keywords.
func (j *Journal) WordSeries(days int) (series.WordSeries, error) {
	entries, err := j.store.Entries()
	if err != nil {
		return series.WordSeries{}, err
	}
	return j.agg.WordSeries(entries, j.window(days)), nil
}

// Calendar returns the day -> label mood map.
func (j *Journal) Calendar() (map[string]ports.Label, error) {
	return j.store.MoodColors()
}

// Mood returns the label recorded for day.
func (j *Journal) Mood(day string) (ports.Label, bool, error) {
	if _, err := j.parseDay(day); err != nil {
		return "", false, err
	}
	return j.store.MoodColor(day)
}

// Export returns a snapshot of the journal.
func (j *Journal) Export() (*ports.Snapshot, error) {
	return j.store.Export()
}

// Import replaces the journal contents with snap.
func (j *Journal) Import(snap *ports.Snapshot) error {
	if err := j.store.Import(snap); err != nil {
		return err
	}
	j.log.WithFields(logrus.Fields{
		"entries":     len(snap.Entries),
		"mood_colors": len(snap.MoodColors),
	}).Info("journal imported")
	return nil
}

// Wipe deletes every entry and mood color.
func (j *Journal) Wipe() error {
	if err := j.store.Clear(); err != nil {
		return err
	}
	j.log.Warn("journal wiped")
	return nil
}

// ReloadDictionary loads the dictionary at path (empty = embedded lexicon)
// and swaps it in. On error the current dictionary stays active.
func (j *Journal) ReloadDictionary(path string) error {
	dict, source, err := LoadDictionary(path)
	if err != nil {
		j.log.WithError(err).WithField("path", path).Error("dictionary reload failed")
		return err
	}
	opts := j.opts
	opts.Source = source
	j.analyzer.Store(analyzer.New(dict, opts))

	stats := dict.Stats()
	j.log.WithFields(logrus.Fields{
		"source":   source,
		"keys":     stats.Keys,
		"synonyms": stats.Synonyms,
	}).Info("dictionary loaded")
	return nil
}
