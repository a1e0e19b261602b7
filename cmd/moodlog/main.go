// moodlog is a mood journal that reads feelings out of free text.
// Entries are scored against a keyword dictionary and kept in a local bbolt file.
package main

import (
	"os"

	"github.com/corey/moodlog/cmd/moodlog/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
