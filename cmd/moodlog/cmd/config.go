package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/moodlog/internal/app"
	"github.com/corey/moodlog/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the resolved settings, data paths, and whether `moodlog serve` is running.",
	RunE:  runConfig,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a key in the config file",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List every config key",
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := config.Keys()
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Println(k)
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the resolved configuration to the config file",
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configInitCmd)
}

// configPath returns --config, or the config file inside the data dir.
func configPath(cfg *config.Config) string {
	if cfgFile != "" {
		return cfgFile
	}
	return app.NewPaths(cfg.DataDir, cfg.DBPath).Config
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	paths := app.NewPaths(cfg.DataDir, cfg.DBPath)

	serverStatus := fmt.Sprintf("%s✗ not running%s", colorYellow, colorReset)
	if portData, err := os.ReadFile(paths.PortFile); err == nil {
		serverStatus = fmt.Sprintf("%s✓ http://localhost:%s%s", colorGreen, strings.TrimSpace(string(portData)), colorReset)
	}
	file := configPath(cfg)
	if _, err := os.Stat(file); err != nil {
		file += colorGray + " (not created)" + colorReset
	}
	dict := cfg.Dictionary
	if dict == "" {
		dict = app.EmbeddedSource
	}
	tz := cfg.Timezone
	if tz == "" {
		tz = "UTC"
	}

	fmt.Printf("%s⚡ moodlog config%s\n", colorBold, colorReset)
	fmt.Printf("  Config:      %s\n", file)
	fmt.Printf("  Data:        %s\n", paths.Root)
	fmt.Printf("  DB:          %s\n", paths.DB)
	fmt.Printf("  Journal:     %s\n", cfg.Journal)
	fmt.Printf("  Dictionary:  %s\n", dict)
	fmt.Printf("  Timezone:    %s\n", tz)
	fmt.Printf("  Matching:    exact=%t case_sensitive=%t indexed=%t max_edit_distance=%d\n",
		cfg.Extract.ExactMatch, cfg.Extract.CaseSensitive, cfg.Extract.Indexed, cfg.Extract.MaxEditDistance)
	fmt.Printf("  Thresholds:  %.2f / %.2f / %.2f / %.2f\n",
		cfg.Sentiment.VeryNegativeThreshold, cfg.Sentiment.NegativeThreshold,
		cfg.Sentiment.PositiveThreshold, cfg.Sentiment.VeryPositiveThreshold)
	fmt.Printf("  Server:      %s\n", serverStatus)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path := configPath(cfg)
	if err := config.Set(path, args[0], args[1]); err != nil {
		return err
	}
	// Reject values that leave the file unloadable.
	if _, err := config.Load(config.LoadOptions{File: path, Flags: cmd.Flags()}); err != nil {
		return fmt.Errorf("config saved but invalid: %w", err)
	}
	fmt.Printf("⚡ %s = %s (%s)\n", args[0], args[1], path)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path := configPath(cfg)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(cfg, path); err != nil {
		return err
	}
	fmt.Printf("⚡ wrote %s\n", path)
	return nil
}
