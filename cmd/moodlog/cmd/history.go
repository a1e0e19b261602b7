package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/moodlog/internal/app"
)

var (
	historyDate  string
	historyLimit int
	deleteForce  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List entries, newest first",
	RunE:  runHistory,
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one entry with its keywords and reply",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	historyCmd.Flags().StringVarP(&historyDate, "date", "d", "", "only entries of this day (YYYY-MM-DD)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum entries to list (0 = all)")
	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "Skip confirmation prompt")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Stop()

	entries, err := a.Journal.History(historyDate)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("⚡ no entries yet")
		return nil
	}

	shown := entries
	if historyLimit > 0 && len(shown) > historyLimit {
		shown = shown[:historyLimit]
	}
	loc, _ := a.Config.Location()
	fmt.Printf("%s⚡ %d entries%s", colorBold, len(entries), colorReset)
	if len(shown) < len(entries) {
		fmt.Printf(" │ showing %d", len(shown))
	}
	fmt.Println()
	for _, e := range shown {
		fmt.Println(formatEntryLine(e, loc))
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Stop()

	e, err := a.Journal.Entry(args[0])
	if err != nil {
		return err
	}
	loc, _ := a.Config.Location()
	fmt.Print(formatEntry(e, loc))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	return withJournal(cmd, func(j *app.Journal) error {
		e, err := j.Entry(args[0])
		if err != nil {
			return err
		}
		if !deleteForce {
			fmt.Printf("⚠ Delete entry %q? [y/N] ", e.Text)
			if !confirm() {
				fmt.Println("cancelled")
				return nil
			}
		}
		if err := j.Delete(e.ID); err != nil {
			return err
		}
		fmt.Println("⚡ entry deleted")
		return nil
	})
}

// confirm reads a y/yes answer from stdin.
func confirm() bool {
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}
