package ports

// Watcher monitors the user dictionary, a single file or a directory of
// files, for changes.
// The adapter (fsnotify) debounces bursts of events; editors often trigger
// several writes, or a rename-and-replace, per save. Only one Watch call
// should be active at a time.
type Watcher interface {
	// Watch starts monitoring path. onChange is called with the absolute path
	// each time the file is written, created or replaced. The callback may be
	// invoked from any goroutine. Returns an error if the parent directory
	// doesn't exist or permissions are insufficient.
	Watch(path string, onChange func(path string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
