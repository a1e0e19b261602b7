package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/moodlog/internal/app"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Analyze text without saving it",
	Long:  "Extracts emotion keywords and scores the mood of the text. Reads stdin when no text is given. No database required.",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the analysis as JSON")
}

// readText joins args, or reads stdin when args are empty and stdin is piped.
func readText(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if !isStdinPipe() {
		return "", fmt.Errorf("no text given (pass it as arguments or pipe it on stdin)")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, err := readText(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a, err := app.NewAnalyzer(cfg)
	if err != nil {
		return err
	}

	an := a.Analyze(text)
	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(an)
	}
	fmt.Print(formatAnalysis(an))
	return nil
}
