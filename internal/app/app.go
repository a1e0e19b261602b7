// Package app wires together all adapters and domain logic.
// It provides lifecycle management for moodlog: create, start, stop.
package app

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/corey/moodlog/internal/adapters/ahocorasick"
	"github.com/corey/moodlog/internal/adapters/bbolt"
	fsw "github.com/corey/moodlog/internal/adapters/fsnotify"
	"github.com/corey/moodlog/internal/adapters/web"
	"github.com/corey/moodlog/internal/config"
	"github.com/corey/moodlog/internal/domain/analyzer"
	"github.com/corey/moodlog/internal/domain/dictionary"
)

// App is the top-level container wiring all components together.
type App struct {
	Config *config.Config
	Paths  *Paths
	Log    *logrus.Logger

	Store     *bbolt.Store
	Journal   *Journal
	Watcher   *fsw.Watcher // nil until Start, and only with a user dictionary
	WebServer *web.Server  // nil until Start

	closeLog func() error
	stopOnce sync.Once
}

// Options adjusts New for one process.
type Options struct {
	// Logger replaces the logger built from cfg.Log.
	Logger *logrus.Logger
}

// New creates an App with all dependencies wired. Does not start services.
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	paths := NewPaths(cfg.DataDir, cfg.DBPath)
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	logger, closeLog := opts.Logger, func() error { return nil }
	if logger == nil {
		var err error
		logger, closeLog, err = NewLogger(cfg.Log)
		if err != nil {
			return nil, err
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		closeLog()
		return nil, err
	}

	dict, source, err := LoadDictionary(cfg.Dictionary)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("load dictionary: %w", err)
	}

	store, err := bbolt.NewStore(paths.DB, cfg.Journal, loc)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("open store: %w", err)
	}

	journal := NewJournal(JournalConfig{
		Store:       store,
		Dictionary:  dict,
		Analyzer:    analyzerOptions(cfg, source),
		Location:    loc,
		DefaultDays: cfg.Series.DefaultDays,
		Logger:      logger.WithField("journal", store.Journal()),
	})

	logger.WithFields(logrus.Fields{
		"db":         paths.DB,
		"journal":    store.Journal(),
		"dictionary": source,
		"keys":       dict.Len(),
	}).Debug("app initialized")

	return &App{
		Config:   cfg,
		Paths:    paths,
		Log:      logger,
		Store:    store,
		Journal:  journal,
		closeLog: closeLog,
	}, nil
}

func analyzerOptions(cfg *config.Config, source string) analyzer.Options {
	return analyzer.Options{
		Keyword:   cfg.Extract.KeywordOptions(),
		Sentiment: cfg.Sentiment.Options(),
		Indexed:   cfg.Extract.Indexed,
		Scanner:   ahocorasick.NewTextScanner,
		Source:    source,
	}
}

// NewAnalyzer builds a standalone analyzer from cfg, without opening the
// store. Used by commands that only analyze text.
func NewAnalyzer(cfg *config.Config) (*analyzer.Analyzer, error) {
	dict, source, err := LoadDictionary(cfg.Dictionary)
	if err != nil {
		return nil, err
	}
	return analyzer.New(dict, analyzerOptions(cfg, source)), nil
}

// Start begins serving the HTTP API and, for a user dictionary with
// http.watch_dictionary set, reloading it on change.
func (a *App) Start() error {
	a.WebServer = web.NewServer(a.Journal, a.Log, a.Paths.PortFile)
	if err := a.WebServer.Start(a.Config.HTTP.Addr, a.Config.HTTP.Port); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	// Dictionary watcher is non-fatal if setup fails
	if a.Config.Dictionary != "" && a.Config.HTTP.WatchDictionary {
		w, err := fsw.NewWatcher()
		if err == nil {
			w.Filter = dictionary.IsDictFile
			err = w.Watch(a.Config.Dictionary, a.onDictionaryChanged)
			if err != nil {
				w.Stop()
			}
		}
		if err != nil {
			a.Log.WithError(err).Warn("dictionary watcher unavailable")
		} else {
			a.Watcher = w
		}
	}
	return nil
}

// onDictionaryChanged reloads the user dictionary. A broken file keeps the
// previous dictionary active.
func (a *App) onDictionaryChanged(path string) {
	if err := a.Journal.ReloadDictionary(a.Config.Dictionary); err != nil {
		a.Log.WithField("path", path).Warn("keeping previous dictionary")
	}
}

// Stop shuts down all services and closes the store. Idempotent.
func (a *App) Stop() error {
	var err error
	a.stopOnce.Do(func() {
		if a.Watcher != nil {
			a.Watcher.Stop()
		}
		if a.WebServer != nil {
			a.WebServer.Stop()
		}
		a.Paths.CleanEphemeral()
		err = a.Store.Close()
		if a.closeLog != nil {
			a.closeLog()
		}
	})
	return err
}
