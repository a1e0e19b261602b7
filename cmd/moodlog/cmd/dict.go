package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/moodlog/internal/app"
	"github.com/corey/moodlog/internal/domain/dictionary"
)

var dictPolarity string

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Show the emotion dictionary in use",
	RunE:  runDict,
}

var dictListCmd = &cobra.Command{
	Use:   "list",
	Short: "List dictionary keys with their synonyms",
	RunE:  runDictList,
}

var dictCheckCmd = &cobra.Command{
	Use:   "check <file|dir>",
	Short: "Validate a dictionary file without using it",
	Args:  cobra.ExactArgs(1),
	RunE:  runDictCheck,
}

func init() {
	dictListCmd.Flags().StringVarP(&dictPolarity, "sentiment", "s", "", "only keys of this polarity (positive, negative, neutral)")
	dictCmd.AddCommand(dictListCmd)
	dictCmd.AddCommand(dictCheckCmd)
}

func loadDict(cmd *cobra.Command) (*dictionary.Dictionary, string, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, "", err
	}
	return app.LoadDictionary(cfg.Dictionary)
}

func formatDictStats(source string, st dictionary.Stats) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ dictionary%s %s\n", colorBold, colorReset, source))
	sb.WriteString(fmt.Sprintf("  Keys:      %d\n", st.Keys))
	sb.WriteString(fmt.Sprintf("  Synonyms:  %d\n", st.Synonyms))
	sb.WriteString(fmt.Sprintf("  Positive:  %s%d%s\n", colorGreen, st.Positive, colorReset))
	sb.WriteString(fmt.Sprintf("  Negative:  %s%d%s\n", colorYellow, st.Negative, colorReset))
	sb.WriteString(fmt.Sprintf("  Neutral:   %s%d%s\n", colorGray, st.Neutral, colorReset))
	return sb.String()
}

func runDict(cmd *cobra.Command, args []string) error {
	d, source, err := loadDict(cmd)
	if err != nil {
		return err
	}
	fmt.Print(formatDictStats(source, d.Stats()))
	return nil
}

func polarityColor(p dictionary.Polarity) string {
	switch p {
	case dictionary.Positive:
		return colorGreen
	case dictionary.Negative:
		return colorYellow
	default:
		return colorGray
	}
}

func runDictList(cmd *cobra.Command, args []string) error {
	d, _, err := loadDict(cmd)
	if err != nil {
		return err
	}
	want := dictionary.Polarity(strings.ToLower(dictPolarity))
	for _, e := range d.Entries() {
		if want != "" && e.Sentiment != want {
			continue
		}
		fmt.Printf("  %s%-8s%s %s%4.1f%s  %s%s%s\n",
			polarityColor(e.Sentiment), e.Key, colorReset,
			colorBold, e.Weight, colorReset,
			colorGray, strings.Join(e.Synonyms, ", "), colorReset)
	}
	return nil
}

func runDictCheck(cmd *cobra.Command, args []string) error {
	d, err := dictionary.LoadFile(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s✓ valid%s\n", colorGreen, colorReset)
	fmt.Print(formatDictStats(args[0], d.Stats()))
	return nil
}
