package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/corey/moodlog/internal/app"
	"github.com/corey/moodlog/internal/ports"
)

var (
	exportOut   string
	importForce bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every entry and mood as JSON",
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Replace the journal with an exported JSON snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "write to file instead of stdout")
	importCmd.Flags().BoolVar(&importForce, "force", false, "Skip confirmation prompt")
}

func runExport(cmd *cobra.Command, args []string) error {
	return withJournal(cmd, func(j *app.Journal) error {
		snap, err := j.Export()
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal snapshot: %w", err)
		}
		data = append(data, '\n')

		if exportOut == "" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(exportOut, data, 0600); err != nil {
			return fmt.Errorf("write %s: %w", exportOut, err)
		}
		fmt.Fprintf(os.Stderr, "⚡ exported %d entries to %s\n", len(snap.Entries), exportOut)
		return nil
	})
}

func runImport(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var snap ports.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	if !importForce && args[0] != "-" {
		fmt.Printf("⚠ This replaces all entries with the %d in %s. Continue? [y/N] ", len(snap.Entries), args[0])
		if !confirm() {
			fmt.Println("cancelled")
			return nil
		}
	}

	return withJournal(cmd, func(j *app.Journal) error {
		if err := j.Import(&snap); err != nil {
			return err
		}
		fmt.Printf("⚡ imported %d entries, %d moods\n", len(snap.Entries), len(snap.MoodColors))
		return nil
	})
}
