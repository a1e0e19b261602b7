package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/corey/moodlog/internal/app"
)

var (
	statsDays     int
	statsJSON     bool
	calendarMonth string
	calendarList  bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize moods over the last days",
	RunE:  runStats,
}

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Show per-day sentiment counts and mean scores",
	RunE:  runSeries,
}

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Show the most frequent emotion keywords",
	RunE:  runWords,
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show the mood calendar for a month",
	RunE:  runCalendar,
}

func init() {
	for _, c := range []*cobra.Command{statsCmd, seriesCmd, wordsCmd} {
		c.Flags().IntVarP(&statsDays, "days", "n", 0, "window in days, e.g. 14, 30 or 90 (default series.default_days)")
		c.Flags().BoolVar(&statsJSON, "json", false, "print as JSON")
	}
	calendarCmd.Flags().StringVarP(&calendarMonth, "month", "m", "", "month as YYYY-MM (default this month)")
	calendarCmd.Flags().BoolVar(&calendarList, "list", false, "list every recorded day instead of a grid")
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runStats(cmd *cobra.Command, args []string) error {
	return withJournal(cmd, func(j *app.Journal) error {
		st, err := j.Stats(statsDays)
		if err != nil {
			return err
		}
		if statsJSON {
			return printJSON(st)
		}
		fmt.Print(formatStats(st))
		return nil
	})
}

func runSeries(cmd *cobra.Command, args []string) error {
	return withJournal(cmd, func(j *app.Journal) error {
		ts, err := j.SentimentSeries(statsDays)
		if err != nil {
			return err
		}
		if statsJSON {
			return printJSON(ts)
		}
		fmt.Print(formatSeries(ts))
		return nil
	})
}

func runWords(cmd *cobra.Command, args []string) error {
	return withJournal(cmd, func(j *app.Journal) error {
		ws, err := j.WordSeries(statsDays)
		if err != nil {
			return err
		}
		if statsJSON {
			return printJSON(ws)
		}
		fmt.Print(formatWords(ws))
		return nil
	})
}

func runCalendar(cmd *cobra.Command, args []string) error {
	return withJournal(cmd, func(j *app.Journal) error {
		moods, err := j.Calendar()
		if err != nil {
			return err
		}

		if calendarList {
			if len(moods) == 0 {
				fmt.Println("⚡ no moods recorded yet")
				return nil
			}
			for _, d := range sortedDays(moods) {
				fmt.Printf("  %s  %s\n", d, formatLabel(moods[d]))
			}
			return nil
		}

		month := calendarMonth
		if month == "" {
			month = j.Today()[:7]
		}
		m, err := time.Parse("2006-01", month)
		if err != nil {
			return fmt.Errorf("invalid month %q, want YYYY-MM", month)
		}
		fmt.Print(formatCalendar(m, moods))

		if l, ok := moods[j.Today()]; ok && month == j.Today()[:7] {
			fmt.Printf("  today: %s\n", formatLabel(l))
		}
		return nil
	})
}
