package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/corey/moodlog/internal/domain/analyzer"
	"github.com/corey/moodlog/internal/domain/keyword"
	"github.com/corey/moodlog/internal/domain/sentiment"
	"github.com/corey/moodlog/internal/domain/series"
	"github.com/corey/moodlog/internal/ports"
)

// ANSI color codes for terminal output. Cleared by disableColor.
var (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorRed     = "\033[31m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

func disableColor() {
	colorReset, colorBold, colorRed, colorCyan = "", "", "", ""
	colorMagenta, colorGreen, colorYellow, colorGray = "", "", "", ""
}

// labelColor maps a label to its terminal color.
func labelColor(l ports.Label) string {
	switch l {
	case ports.LabelVeryPositive:
		return colorBold + colorGreen
	case ports.LabelPositive:
		return colorGreen
	case ports.LabelNegative:
		return colorYellow
	case ports.LabelVeryNegative:
		return colorBold + colorRed
	default:
		return colorGray
	}
}

// formatLabel renders "😊 긍정적" in the label's color.
func formatLabel(l ports.Label) string {
	return fmt.Sprintf("%s %s%s%s", sentiment.LabelEmoji(l), labelColor(l), sentiment.LabelText(l), colorReset)
}

// bar renders a horizontal bar of n out of total, scaled to width cells.
func bar(n, total, width int) string {
	if total <= 0 || n <= 0 {
		return ""
	}
	cells := n * width / total
	if cells == 0 {
		cells = 1
	}
	return strings.Repeat("█", cells)
}

// formatSegments renders highlighted text with keywords in color.
func formatSegments(segs []keyword.Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		if s.IsKeyword {
			sb.WriteString(colorBold + colorCyan + s.Text + colorReset)
			continue
		}
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// formatKeywords renders "행복×2 좋다×1" in keyword order.
func formatKeywords(keywords []string, counts map[string]int) string {
	if len(keywords) == 0 {
		return colorGray + "(none)" + colorReset
	}
	parts := make([]string, len(keywords))
	for i, k := range keywords {
		parts[i] = fmt.Sprintf("%s%s%s×%d", colorMagenta, k, colorReset, counts[k])
	}
	return strings.Join(parts, " ")
}

// formatAnalysis formats an Analysis for terminal display.
//
//	⚡ 😄 매우 긍정적  score 1.000 │ 100% │ confidence 0.667
//	  오늘은 정말 [행복]하고 [좋은] 하루였다
//	  keywords: 행복×1 좋다×1 │ 2/5 tokens matched
func formatAnalysis(an analyzer.Analysis) string {
	s := an.Sentiment
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡%s %s  score %.3f │ %d%% │ confidence %.3f\n",
		colorBold, colorReset, formatLabel(s.Label), s.Score, an.Display.Percent, s.Confidence))
	sb.WriteString(fmt.Sprintf("  %s\n", formatSegments(an.Segments)))
	sb.WriteString(fmt.Sprintf("  keywords: %s │ %d/%d tokens matched\n",
		formatKeywords(an.Keywords, an.Counts), an.Meta.MatchedTokens, an.Meta.TotalTokens))
	sb.WriteString(fmt.Sprintf("  %spositive %d · negative %d · weight %.3f · raw %.3f%s\n",
		colorGray, s.Details.PositiveCount, s.Details.NegativeCount, s.Details.TotalWeight, s.RawScore, colorReset))
	return sb.String()
}

// formatEntry formats one entry in full.
func formatEntry(e *ports.Entry, loc *time.Location) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s%s%s  %s  %s%s%s\n",
		colorBold, e.Date.In(loc).Format("2006-01-02 15:04"), colorReset,
		formatLabel(e.Label()), colorGray, e.ID, colorReset))
	sb.WriteString(fmt.Sprintf("  %s\n", e.Text))
	sb.WriteString(fmt.Sprintf("  keywords: %s │ score %.3f\n", formatKeywords(e.Keywords, e.Counts), e.Score()))
	if e.BotReply != "" {
		sb.WriteString(fmt.Sprintf("  %s💬 %s%s\n", colorCyan, e.BotReply, colorReset))
	}
	return sb.String()
}

// formatEntryLine formats one entry as a single history line.
func formatEntryLine(e *ports.Entry, loc *time.Location) string {
	text := strings.ReplaceAll(e.Text, "\n", " ")
	if r := []rune(text); len(r) > 48 {
		text = string(r[:47]) + "…"
	}
	short := e.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("  %s%s%s  %s %s%-6.3f%s %s  %s%s%s",
		colorBold, e.Date.In(loc).Format("01-02 15:04"), colorReset,
		sentiment.LabelEmoji(e.Label()), labelColor(e.Label()), e.Score(), colorReset,
		text, colorGray, short, colorReset)
}

// formatStats formats RangeStats for terminal display.
func formatStats(st series.RangeStats) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ last %d days%s │ %d entries │ avg score %.3f\n",
		colorBold, st.Days, colorReset, st.Total, st.AvgScore))
	if st.Total == 0 {
		return sb.String()
	}
	rows := []struct {
		label ports.Label
		n     int
	}{
		{ports.LabelPositive, st.Positive},
		{ports.LabelNeutral, st.Neutral},
		{ports.LabelNegative, st.Negative},
	}
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("  %-16s %3d  %s%s%s\n",
			formatLabel(r.label), r.n, labelColor(r.label), bar(r.n, st.Total, 30), colorReset))
	}
	sb.WriteString(fmt.Sprintf("  %s(very positive %d · very negative %d)%s\n",
		colorGray, st.VeryPositive, st.VeryNegative, colorReset))
	if len(st.TopKeywords) > 0 {
		sb.WriteString("  top keywords:\n")
		for i, kc := range st.TopKeywords {
			sb.WriteString(fmt.Sprintf("  %2d. %s%s%s %d\n", i+1, colorMagenta, kc.Keyword, colorReset, kc.Count))
		}
	}
	return sb.String()
}

// formatSeries formats a TimeSeries as one line per day.
func formatSeries(ts series.TimeSeries) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ sentiment, %d days%s\n", colorBold, len(ts.Dates), colorReset))
	for i, d := range ts.Dates {
		total := ts.Positive[i] + ts.Negative[i] + ts.Neutral[i]
		if total == 0 {
			sb.WriteString(fmt.Sprintf("  %s %s·%s\n", d[5:], colorGray, colorReset))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s %s%s%s%s%s%s%s%s%s  %s%+.3f%s\n", d[5:],
			colorGreen, strings.Repeat("▇", ts.Positive[i]), colorReset,
			colorGray, strings.Repeat("▇", ts.Neutral[i]), colorReset,
			colorYellow, strings.Repeat("▇", ts.Negative[i]), colorReset,
			scoreColor(ts.AvgScores[i]), ts.AvgScores[i], colorReset))
	}
	return sb.String()
}

func scoreColor(score float64) string {
	switch {
	case score > 0:
		return colorGreen
	case score < 0:
		return colorYellow
	default:
		return colorGray
	}
}

// formatWords formats a WordSeries as a keyword × day table of totals.
func formatWords(ws series.WordSeries) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ top keywords, %d days%s\n", colorBold, len(ws.Dates), colorReset))
	if len(ws.Words) == 0 {
		sb.WriteString(fmt.Sprintf("  %s(no keywords yet)%s\n", colorGray, colorReset))
		return sb.String()
	}
	top := 0
	totals := make(map[string]int, len(ws.Words))
	for _, w := range ws.Words {
		for _, n := range ws.Data[w] {
			totals[w] += n
		}
		top = max(top, totals[w])
	}
	for _, w := range ws.Words {
		sb.WriteString(fmt.Sprintf("  %s%-8s%s %3d  %s%s%s\n",
			colorMagenta, w, colorReset, totals[w], colorCyan, bar(totals[w], top, 30), colorReset))
	}
	return sb.String()
}

// formatCalendar renders one month as a Monday-first grid with a mood dot per day.
func formatCalendar(month time.Time, moods map[string]ports.Label) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ %s%s\n", colorBold, month.Format("2006-01"), colorReset))
	sb.WriteString("  Mo Tu We Th Fr Sa Su\n  ")

	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) + 6) % 7
	sb.WriteString(strings.Repeat("   ", offset))
	days := first.AddDate(0, 1, -1).Day()
	for d := 1; d <= days; d++ {
		key := first.AddDate(0, 0, d-1).Format(ports.DayLayout)
		if l, ok := moods[key]; ok {
			sb.WriteString(fmt.Sprintf("%s%2d%s ", labelColor(l), d, colorReset))
		} else {
			sb.WriteString(fmt.Sprintf("%s%2d%s ", colorGray, d, colorReset))
		}
		if (offset+d)%7 == 0 && d != days {
			sb.WriteString("\n  ")
		}
	}
	sb.WriteString("\n")

	// Legend, most positive first.
	sb.WriteString("  ")
	for _, l := range ports.Labels {
		sb.WriteString(fmt.Sprintf("%s■%s %s  ", labelColor(l), colorReset, sentiment.LabelText(l)))
	}
	sb.WriteString("\n")
	return sb.String()
}

// sortedDays returns the keys of moods in ascending order.
func sortedDays(moods map[string]ports.Label) []string {
	days := make([]string, 0, len(moods))
	for d := range moods {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}
