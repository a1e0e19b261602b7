// Package ports holds the shared types (entries, labels, snapshots) and the
// interfaces the adapters implement: the entry store, the pattern scanner and
// the dictionary file watcher. Domain packages import ports and nothing from
// the adapters.
package ports

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when an entry id does not exist in the store.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is wrapped by every error caused by bad caller input.
	ErrInvalid = errors.New("invalid input")
)

// DayLayout is the calendar-day key format used for mood colors and buckets.
const DayLayout = "2006-01-02"

// EntryStore persists diary entries and the per-day mood color map.
// The backing store (bbolt) is journal-scoped: each journal name gets its own
// namespace. Concurrent reads are safe; writes are serialized by the adapter.
//
// Read-modify-write operations (SaveEntry, UpdateEntry, SaveMoodColor) must run
// inside a single transaction so two concurrent saves cannot lose a write.
type EntryStore interface {
	// SaveEntry inserts the entry, or replaces the stored entry with the same ID.
	SaveEntry(entry *Entry) error

	// Entries returns every entry, newest first.
	Entries() ([]*Entry, error)

	// EntriesByDate returns the entries whose date falls on day (YYYY-MM-DD),
	// newest first.
	EntriesByDate(day string) ([]*Entry, error)

	// Entry returns a single entry. Returns ErrNotFound if id is unknown.
	Entry(id string) (*Entry, error)

	// UpdateEntry applies fn to the stored entry and saves the result.
	// Returns ErrNotFound if id is unknown.
	UpdateEntry(id string, fn func(*Entry)) error

	// DeleteEntry removes an entry. Deleting an unknown id is not an error.
	DeleteEntry(id string) error

	// SaveMoodColor records the label for a calendar day, overwriting any
	// previous label for that day.
	SaveMoodColor(day string, label Label) error

	// MoodColors returns the full day -> label map.
	MoodColors() (map[string]Label, error)

	// MoodColor returns the label for one day and whether one was recorded.
	MoodColor(day string) (Label, bool, error)

	// Export returns a snapshot of every entry and mood color.
	Export() (*Snapshot, error)

	// Import replaces all entries (and mood colors, when present) with the
	// snapshot contents.
	Import(snap *Snapshot) error

	// Clear removes all entries and mood colors for the journal.
	Clear() error
}

// SnapshotVersion is written into every exported snapshot.
const SnapshotVersion = "1.0"

// Snapshot is the export/import document.
type Snapshot struct {
	Version    string           `json:"version"`
	ExportDate time.Time        `json:"exportDate"`
	Entries    []*Entry         `json:"entries"`
	MoodColors map[string]Label `json:"moodColors,omitempty"`
}
