package app

import (
	"os"
	"path/filepath"
)

// Paths holds the resolved filesystem layout under the data directory.
type Paths struct {
	Root   string // ~/.moodlog/
	DB     string // ~/.moodlog/moodlog.db
	Config string // ~/.moodlog/config.yaml

	LogDir    string // ~/.moodlog/log/
	ServerLog string // ~/.moodlog/log/server.log

	RunDir   string // ~/.moodlog/run/
	PortFile string // ~/.moodlog/run/http.port
}

// NewPaths resolves every path from the data directory. dbPath overrides the
// default database location when non-empty.
func NewPaths(dataDir, dbPath string) *Paths {
	db := dbPath
	if db == "" {
		db = filepath.Join(dataDir, "moodlog.db")
	}
	return &Paths{
		Root:   dataDir,
		DB:     db,
		Config: filepath.Join(dataDir, "config.yaml"),

		LogDir:    filepath.Join(dataDir, "log"),
		ServerLog: filepath.Join(dataDir, "log", "server.log"),

		RunDir:   filepath.Join(dataDir, "run"),
		PortFile: filepath.Join(dataDir, "run", "http.port"),
	}
}

// EnsureDirs creates the data directory, its subdirectories and the database
// parent directory. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.LogDir, p.RunDir, filepath.Dir(p.DB)} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// CleanEphemeral removes runtime files. Called on clean server shutdown.
func (p *Paths) CleanEphemeral() {
	os.Remove(p.PortFile)
}
