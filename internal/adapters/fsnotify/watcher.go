// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It watches the user dictionary, which is either a single file or a directory
// of files. A file is watched through its parent directory, so editors that
// save by writing a temp file and renaming it over the original are still
// seen. Bursts of events are debounced into one callback.
package fsnotify

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before onChange fires.
const DefaultDebounce = 100 * time.Millisecond

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	// Debounce overrides DefaultDebounce when positive. Set before Watch.
	Debounce time.Duration
	// Filter selects which files inside a watched directory count as
	// changes. Nil accepts every file. Unused when the watched path is a file.
	Filter func(name string) bool

	fw      *fsnotify.Watcher
	done    chan struct{}
	stopped atomic.Bool
	mu      sync.Mutex // guards timer and watched
	timer   *time.Timer
	fireMu  sync.Mutex // held while onChange runs so Stop can wait for it
	watched bool
}

// NewWatcher creates a new file watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:   fw,
		done: make(chan struct{}),
	}, nil
}

// Watch starts monitoring path. onChange is called with the absolute path
// once per burst of writes, creates, renames or removes of that file. When
// path is a directory, events on the files directly inside it (narrowed by
// Filter) trigger onChange with the directory path.
func (w *Watcher) Watch(path string, onChange func(path string)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(absPath)
	isDir := false
	if info, err := os.Stat(absPath); err == nil && info.IsDir() {
		dir, isDir = absPath, true
	}
	if info, err := os.Stat(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	} else if !info.IsDir() {
		return fmt.Errorf("watch %s: not a directory", dir)
	}

	w.mu.Lock()
	if w.watched {
		w.mu.Unlock()
		return fmt.Errorf("watcher already started")
	}
	w.watched = true
	w.mu.Unlock()

	if err := w.fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	interval := w.Debounce
	if interval <= 0 {
		interval = DefaultDebounce
	}

	fire := func() {
		w.fireMu.Lock()
		defer w.fireMu.Unlock()
		if w.stopped.Load() {
			return
		}
		onChange(absPath)
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if !w.relevant(filepath.Clean(event.Name), absPath, isDir) {
					continue
				}
				if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
					continue
				}

				// Trailing debounce: restart the quiet period on every event.
				w.mu.Lock()
				if w.timer == nil {
					w.timer = time.AfterFunc(interval, fire)
				} else {
					w.timer.Reset(interval)
				}
				w.mu.Unlock()

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// Errors are swallowed; fsnotify recovers automatically

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// relevant reports whether an event on name concerns the watched path.
func (w *Watcher) relevant(name, watched string, isDir bool) bool {
	if !isDir {
		return name == watched
	}
	if filepath.Dir(name) != watched {
		return false
	}
	return w.Filter == nil || w.Filter(filepath.Base(name))
}

// Stop ends monitoring and releases all resources. It waits for an
// in-flight onChange to return, so onChange must not call Stop.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	if w.stopped.Swap(true) {
		return nil
	}
	close(w.done)

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	// Wait for an in-flight callback.
	w.fireMu.Lock()
	w.fireMu.Unlock()

	return w.fw.Close()
}
