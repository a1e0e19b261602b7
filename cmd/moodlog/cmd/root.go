package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/corey/moodlog/internal/app"
	"github.com/corey/moodlog/internal/config"
)

var (
	cfgFile   string
	colorFlag string
	noColor   bool
)

var rootCmd = &cobra.Command{
	Use:           "moodlog",
	Short:         "moodlog — a mood journal that reads your feelings",
	Long:          "Write short diary entries; moodlog extracts emotion keywords, scores the mood, and charts it over time.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !resolveColor(colorFlag, noColor) {
			disableColor()
		}
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", colorRed, colorReset, err)
	}
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ~/.moodlog/config.yaml)")
	pf.String("data-dir", "", "data directory (default ~/.moodlog)")
	pf.String("db", "", "database file (default <data-dir>/moodlog.db)")
	pf.StringP("journal", "j", "", "journal name")
	pf.String("dict", "", "dictionary file or directory (default built-in lexicon)")
	pf.String("tz", "", "time zone for day boundaries, e.g. Asia/Seoul or Local")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-format", "", "log format (text, json)")
	pf.StringVar(&colorFlag, "color", "auto", "color output: auto, always, never")
	pf.BoolVar(&noColor, "no-color", false, "disable color output")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(wipeCmd)
	rootCmd.AddCommand(dictCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig resolves the configuration for cmd, honoring its flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(config.LoadOptions{File: cfgFile, Flags: cmd.Flags()})
}

// openApp loads config and opens the journal. Short-lived commands log at
// warn level unless --log-level is given.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	a, err := app.New(cfg, app.Options{})
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("%w\n%s", err, diagnoseDBLock(app.NewPaths(cfg.DataDir, cfg.DBPath)))
		}
		return nil, err
	}
	if cmd.Name() != "serve" && !cmd.Flags().Changed("log-level") && a.Log.GetLevel() > logrus.WarnLevel {
		a.Log.SetLevel(logrus.WarnLevel)
	}
	return a, nil
}

// withJournal runs fn against an opened journal and closes it afterwards.
func withJournal(cmd *cobra.Command, fn func(j *app.Journal) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Stop()
	return fn(a.Journal)
}
