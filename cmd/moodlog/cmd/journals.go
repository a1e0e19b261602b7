package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var journalsCmd = &cobra.Command{
	Use:   "journals",
	Short: "List the journals in the database",
	RunE:  runJournals,
}

var journalsRemoveCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a journal and everything in it",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalsRemove,
}

var journalsRemoveForce bool

func init() {
	journalsRemoveCmd.Flags().BoolVar(&journalsRemoveForce, "force", false, "Skip confirmation prompt")
	journalsCmd.AddCommand(journalsRemoveCmd)
	rootCmd.AddCommand(journalsCmd)
}

func runJournals(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Stop()

	names, err := a.Store.Journals()
	if err != nil {
		return err
	}
	current := a.Store.Journal()
	fmt.Printf("%s⚡ %d journals%s\n", colorBold, len(names), colorReset)
	for _, n := range names {
		marker := " "
		if n == current {
			marker = colorGreen + "*" + colorReset
		}
		fmt.Printf("  %s %s\n", marker, n)
	}
	return nil
}

func runJournalsRemove(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Stop()

	if !journalsRemoveForce {
		fmt.Printf("⚠ This will delete journal %q and all its entries. Continue? [y/N] ", args[0])
		if !confirm() {
			fmt.Println("cancelled")
			return nil
		}
	}
	if err := a.Store.DeleteJournal(args[0]); err != nil {
		return err
	}
	fmt.Printf("⚡ journal %s deleted\n", args[0])
	return nil
}
