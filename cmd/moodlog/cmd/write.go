package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/moodlog/internal/app"
)

var writeDate string

var writeCmd = &cobra.Command{
	Use:   "write [text...]",
	Short: "Write a diary entry",
	Long:  "Analyzes the text, saves it as an entry for today (or --date), and prints the reply. Reads stdin when no text is given.",
	RunE:  runWrite,
}

var editCmd = &cobra.Command{
	Use:   "edit <id> [text...]",
	Short: "Replace the text of an entry and rescore it",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEdit,
}

func init() {
	writeCmd.Flags().StringVarP(&writeDate, "date", "d", "", "entry day as YYYY-MM-DD (default today)")
}

func runWrite(cmd *cobra.Command, args []string) error {
	text, err := readText(args)
	if err != nil {
		return err
	}
	return withJournal(cmd, func(j *app.Journal) error {
		e, err := j.Write(context.Background(), text, writeDate)
		if err != nil {
			return err
		}
		fmt.Printf("%s⚡ saved%s\n", colorBold, colorReset)
		fmt.Print(formatEntry(e, e.Date.Location()))
		return nil
	})
}

func runEdit(cmd *cobra.Command, args []string) error {
	text, err := readText(args[1:])
	if err != nil {
		return err
	}
	return withJournal(cmd, func(j *app.Journal) error {
		e, err := j.Edit(context.Background(), args[0], text)
		if err != nil {
			return err
		}
		fmt.Printf("%s⚡ updated%s\n", colorBold, colorReset)
		fmt.Print(formatEntry(e, e.Date.Location()))
		return nil
	})
}
