package sentiment

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/corey/moodlog/internal/ports"
)

// Display text and emoji for a label that is missing or unrecognized.
const (
	UnknownText  = "알 수 없음"
	UnknownEmoji = "🤔"
)

type labelStyle struct {
	text     string
	emoji    string
	color    string
	gradient [2]string
	pastel   string
}

var styles = map[ports.Label]labelStyle{
	ports.LabelVeryPositive: {"매우 긍정적", "😄", "#10B981", [2]string{"#10B981", "#34D399"}, "#D4EDDA"},
	ports.LabelPositive:     {"긍정적", "😊", "#34D399", [2]string{"#34D399", "#6EE7B7"}, "#E8F5E9"},
	ports.LabelNeutral:      {"중립적", "😐", "#94A3B8", [2]string{"#94A3B8", "#CBD5E1"}, "#F5F7FA"},
	ports.LabelNegative:     {"부정적", "😔", "#F59E0B", [2]string{"#F59E0B", "#FCD34D"}, "#FFF3CD"},
	ports.LabelVeryNegative: {"매우 부정적", "😢", "#EF4444", [2]string{"#EF4444", "#F87171"}, "#F8D7DA"},
}

// style falls back to neutral for unknown labels.
func style(l ports.Label) labelStyle {
	if s, ok := styles[l]; ok {
		return s
	}
	return styles[ports.LabelNeutral]
}

// LabelText returns the Korean display text for l.
func LabelText(l ports.Label) string {
	if s, ok := styles[l]; ok {
		return s.text
	}
	return UnknownText
}

// LabelEmoji returns the emoji for l.
func LabelEmoji(l ports.Label) string {
	if s, ok := styles[l]; ok {
		return s.emoji
	}
	return UnknownEmoji
}

// Color returns the primary color for l.
func Color(l ports.Label) string { return style(l).color }

// Gradient returns the start and end background colors for l.
func Gradient(l ports.Label) [2]string { return style(l).gradient }

// Pastel returns the calendar cell color for l.
func Pastel(l ports.Label) string { return style(l).pastel }

// Theme groups every color associated with a label.
type Theme struct {
	Primary  string    `json:"primary"`
	Pastel   string    `json:"pastel"`
	Gradient [2]string `json:"gradient"`
}

// ThemeFor returns the color theme for l.
func ThemeFor(l ports.Label) Theme {
	s := style(l)
	return Theme{Primary: s.color, Pastel: s.pastel, Gradient: s.gradient}
}

// Legacy collapses the very_* labels into the three-level scheme used by
// older entries.
func Legacy(l ports.Label) ports.Label {
	switch {
	case l.IsPositive():
		return ports.LabelPositive
	case l.IsNegative():
		return ports.LabelNegative
	default:
		return ports.LabelNeutral
	}
}

// ParseLabel accepts a label name in any case, with '-' or ' ' in place of
// '_'.
func ParseLabel(s string) (ports.Label, error) {
	norm := strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	l := ports.Label(norm)
	if !l.Valid() {
		return "", fmt.Errorf("unknown sentiment label %q", s)
	}
	return l, nil
}

// ScoreToPercent maps a score in [-1, 1] to 0..100.
func ScoreToPercent(score float64) int {
	return int(math.Round((clamp(score) + 1) * 50))
}

// ScoreToOpacity grows from 0.3 at a neutral score to 1.0 at either extreme.
func ScoreToOpacity(score float64) float64 {
	return math.Min(0.3+math.Abs(score)*0.7, 1)
}

// ScoreToTextColor picks a dark text color on positive backgrounds and a
// light one otherwise.
func ScoreToTextColor(score float64) string {
	if score > 0 {
		return "#1F2937"
	}
	return "#F9FAFB"
}

type colorBand struct {
	upper    float64
	from, to string
	base     float64 // ratio = (score - base) / 0.4
}

var gradientBands = []colorBand{
	{-0.6, "#DC2626", "#EF4444", -1},
	{-0.2, "#EF4444", "#F59E0B", -0.6},
	{0.2, "#F59E0B", "#94A3B8", -0.2},
	{0.6, "#94A3B8", "#34D399", 0.2},
	{math.Inf(1), "#34D399", "#10B981", 0.6},
}

// ScoreToGradientColor maps a score to a color on a red, amber, slate, green
// scale. The result is a lower-case "#rrggbb" string.
func ScoreToGradientColor(score float64) string {
	s := clamp(score)
	for _, b := range gradientBands {
		if s <= b.upper {
			return interpolate(b.from, b.to, (s-b.base)/0.4)
		}
	}
	return strings.ToLower(gradientBands[len(gradientBands)-1].to)
}

func interpolate(from, to string, ratio float64) string {
	r := math.Max(0, math.Min(1, ratio))
	a, b := hexToRGB(from), hexToRGB(to)
	var out [3]int
	for i := range out {
		out[i] = int(math.Round(float64(a[i]) + float64(b[i]-a[i])*r))
	}
	return fmt.Sprintf("#%02x%02x%02x", out[0], out[1], out[2])
}

// hexToRGB parses "#rrggbb"; malformed input yields black.
func hexToRGB(hex string) [3]int {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 {
		return [3]int{}
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return [3]int{}
	}
	return [3]int{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}
}
