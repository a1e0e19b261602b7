package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/corey/moodlog/internal/app"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock returns actionable guidance when the database is locked.
// A present port file means `moodlog serve` holds the lock.
func diagnoseDBLock(p *app.Paths) string {
	if data, err := os.ReadFile(p.PortFile); err == nil {
		port := strings.TrimSpace(string(data))
		return fmt.Sprintf("database is locked by `moodlog serve` on port %s\n"+
			"  → use the API:   curl http://localhost:%s/api/entries\n"+
			"  → or stop the server and retry your command", port, port)
	}

	return "database is locked by another process\n" +
		"  → find the process:  ps aux | grep moodlog\n" +
		"  → kill it:           kill <PID>\n" +
		"  → then retry your command"
}
