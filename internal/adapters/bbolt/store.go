// Package bbolt implements ports.EntryStore using bbolt (embedded B+ tree).
// Each journal gets its own top-level bucket. Within that bucket, "entries"
// maps entry IDs to JSON-encoded entries and "mood_colors" maps YYYY-MM-DD day
// keys to labels. Writes are transactional, so a crash mid-write cannot
// corrupt previously committed data.
package bbolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/corey/moodlog/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// Bucket keys
var (
	bucketEntries    = []byte("entries")
	bucketMoodColors = []byte("mood_colors")
)

// DefaultJournal is the journal name used when none is configured.
const DefaultJournal = "default"

// Store implements ports.EntryStore for one journal, backed by bbolt.
type Store struct {
	db      *bolt.DB
	journal []byte
	loc     *time.Location
}

var _ ports.EntryStore = (*Store)(nil)

// NewStore opens (or creates) a bbolt database at path and scopes the store
// to journal. loc decides which calendar day an entry belongs to for
// EntriesByDate; nil means UTC.
func NewStore(path, journal string, loc *time.Location) (*Store, error) {
	if journal == "" {
		journal = DefaultJournal
	}
	if loc == nil {
		loc = time.UTC
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db, journal: []byte(journal), loc: loc}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Journal returns the journal name the store is scoped to.
func (s *Store) Journal() string {
	return string(s.journal)
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.db.Path()
}

// Journals lists every journal present in the database file.
func (s *Store) Journals() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})
	return names, err
}

// sub returns (creating if needed) a sub-bucket of the journal bucket.
func (s *Store) sub(tx *bolt.Tx, name []byte) (*bolt.Bucket, error) {
	j, err := tx.CreateBucketIfNotExists(s.journal)
	if err != nil {
		return nil, err
	}
	return j.CreateBucketIfNotExists(name)
}

// view returns a sub-bucket for reading, or nil if it does not exist yet.
func (s *Store) view(tx *bolt.Tx, name []byte) *bolt.Bucket {
	j := tx.Bucket(s.journal)
	if j == nil {
		return nil
	}
	return j.Bucket(name)
}

// SaveEntry inserts or replaces the entry with the same ID.
func (s *Store) SaveEntry(entry *ports.Entry) error {
	if entry == nil {
		return fmt.Errorf("nil entry")
	}
	if entry.ID == "" {
		return fmt.Errorf("%w: entry has no id", ports.ErrInvalid)
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry %s: %w", entry.ID, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := s.sub(tx, bucketEntries)
		if err != nil {
			return err
		}
		return b.Put([]byte(entry.ID), data)
	})
}

// Entries returns every entry, newest first. Entries with equal dates are
// ordered by ID, descending.
func (s *Store) Entries() ([]*ports.Entry, error) {
	var out []*ports.Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		b := s.view(tx, bucketEntries)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			// json.Unmarshal copies, so v need not outlive the tx.
			var e ports.Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("unmarshal entry %s: %w", k, err)
			}
			out = append(out, &e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(entries []*ports.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.ID > b.ID
	})
}

// EntriesByDate returns the entries dated on day in the store's location,
// newest first.
func (s *Store) EntriesByDate(day string) ([]*ports.Entry, error) {
	all, err := s.Entries()
	if err != nil {
		return nil, err
	}
	var out []*ports.Entry
	for _, e := range all {
		if !e.Date.IsZero() && e.Date.In(s.loc).Format(ports.DayLayout) == day {
			out = append(out, e)
		}
	}
	return out, nil
}

// Entry returns the entry with the given ID, or ports.ErrNotFound.
func (s *Store) Entry(id string) (*ports.Entry, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := s.view(tx, bucketEntries)
		if b == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := b.Get([]byte(id)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("entry %s: %w", id, ports.ErrNotFound)
	}
	var e ports.Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal entry %s: %w", id, err)
	}
	return &e, nil
}

// UpdateEntry loads, modifies and stores an entry in one transaction. fn may
// not change the ID.
func (s *Store) UpdateEntry(id string, fn func(*ports.Entry)) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := s.view(tx, bucketEntries)
		var v []byte
		if b != nil {
			v = b.Get([]byte(id))
		}
		if v == nil {
			return fmt.Errorf("entry %s: %w", id, ports.ErrNotFound)
		}
		var e ports.Entry
		if err := json.Unmarshal(v, &e); err != nil {
			return fmt.Errorf("unmarshal entry %s: %w", id, err)
		}
		fn(&e)
		e.ID = id
		data, err := json.Marshal(&e)
		if err != nil {
			return fmt.Errorf("marshal entry %s: %w", id, err)
		}
		return b.Put([]byte(id), data)
	})
}

// DeleteEntry removes an entry. Idempotent: deleting an unknown ID is not an
// error.
func (s *Store) DeleteEntry(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := s.view(tx, bucketEntries)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(id))
	})
}

// SaveMoodColor records label for day, replacing any earlier label.
func (s *Store) SaveMoodColor(day string, label ports.Label) error {
	if _, err := time.Parse(ports.DayLayout, day); err != nil {
		return fmt.Errorf("%w: mood color day %q: %v", ports.ErrInvalid, day, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := s.sub(tx, bucketMoodColors)
		if err != nil {
			return err
		}
		return b.Put([]byte(day), []byte(label))
	})
}

// MoodColors returns the day -> label map. Never nil.
func (s *Store) MoodColors() (map[string]ports.Label, error) {
	out := make(map[string]ports.Label)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := s.view(tx, bucketMoodColors)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			out[string(k)] = ports.Label(v)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MoodColor returns the label recorded for day.
func (s *Store) MoodColor(day string) (ports.Label, bool, error) {
	var (
		label ports.Label
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := s.view(tx, bucketMoodColors)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(day)); v != nil {
			label, found = ports.Label(v), true
		}
		return nil
	})
	return label, found, err
}

// Export returns every entry (newest first) and mood color.
func (s *Store) Export() (*ports.Snapshot, error) {
	entries, err := s.Entries()
	if err != nil {
		return nil, err
	}
	colors, err := s.MoodColors()
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*ports.Entry{}
	}
	return &ports.Snapshot{
		Version:    ports.SnapshotVersion,
		ExportDate: time.Now().UTC(),
		Entries:    entries,
		MoodColors: colors,
	}, nil
}

// ErrInvalidSnapshot is returned by Import for a snapshot without an entry
// list.
var ErrInvalidSnapshot = fmt.Errorf("%w: snapshot has no entries", ports.ErrInvalid)

// Import replaces all entries with the snapshot's entries in one
// transaction. Mood colors are replaced only when the snapshot carries them.
// Entries without an ID are rejected.
func (s *Store) Import(snap *ports.Snapshot) error {
	if snap == nil || snap.Entries == nil {
		return ErrInvalidSnapshot
	}

	encoded := make(map[string][]byte, len(snap.Entries))
	for i, e := range snap.Entries {
		if e == nil || e.ID == "" {
			return fmt.Errorf("%w: snapshot entry %d has no id", ports.ErrInvalid, i)
		}
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal entry %s: %w", e.ID, err)
		}
		encoded[e.ID] = data
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		j, err := tx.CreateBucketIfNotExists(s.journal)
		if err != nil {
			return err
		}
		if err := deleteIfExists(j, bucketEntries); err != nil {
			return err
		}
		eb, err := j.CreateBucket(bucketEntries)
		if err != nil {
			return err
		}
		for id, data := range encoded {
			if err := eb.Put([]byte(id), data); err != nil {
				return err
			}
		}

		if snap.MoodColors == nil {
			return nil
		}
		if err := deleteIfExists(j, bucketMoodColors); err != nil {
			return err
		}
		cb, err := j.CreateBucket(bucketMoodColors)
		if err != nil {
			return err
		}
		for day, label := range snap.MoodColors {
			if err := cb.Put([]byte(day), []byte(label)); err != nil {
				return err
			}
		}
		return nil
	})
}

func deleteIfExists(parent *bolt.Bucket, name []byte) error {
	if err := parent.DeleteBucket(name); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
		return err
	}
	return nil
}

// Clear removes all data (entries + mood colors) for the journal.
// Idempotent: clearing an empty journal is not an error.
func (s *Store) Clear() error {
	return s.DeleteJournal(string(s.journal))
}

// DeleteJournal removes every bucket belonging to the named journal.
func (s *Store) DeleteJournal(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(name)); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		return nil
	})
}
