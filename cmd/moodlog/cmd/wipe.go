package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var wipeForce bool

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Clear all entries and moods of the journal",
	Long:  "Deletes every entry and mood color of the current journal. Other journals in the same database are kept.",
	RunE:  runWipe,
}

func init() {
	wipeCmd.Flags().BoolVar(&wipeForce, "force", false, "Skip confirmation prompt")
}

func runWipe(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Stop()

	if !wipeForce {
		fmt.Printf("⚠ This will delete all entries in journal %q. Continue? [y/N] ", a.Store.Journal())
		if !confirm() {
			fmt.Println("cancelled")
			return nil
		}
	}

	if err := a.Journal.Wipe(); err != nil {
		return err
	}
	fmt.Println("⚡ journal wiped")
	return nil
}
