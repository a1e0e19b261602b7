package ports

import "time"

// Label is the five-level sentiment classification attached to an entry.
type Label string

const (
	LabelVeryPositive Label = "very_positive"
	LabelPositive     Label = "positive"
	LabelNeutral      Label = "neutral"
	LabelNegative     Label = "negative"
	LabelVeryNegative Label = "very_negative"
)

// Labels lists every label from most positive to most negative.
var Labels = []Label{LabelVeryPositive, LabelPositive, LabelNeutral, LabelNegative, LabelVeryNegative}

// Valid reports whether l is one of the five known labels.
func (l Label) Valid() bool {
	switch l {
	case LabelVeryPositive, LabelPositive, LabelNeutral, LabelNegative, LabelVeryNegative:
		return true
	}
	return false
}

// IsPositive reports whether l belongs to the positive group.
func (l Label) IsPositive() bool {
	return l == LabelPositive || l == LabelVeryPositive
}

// IsNegative reports whether l belongs to the negative group.
func (l Label) IsNegative() bool {
	return l == LabelNegative || l == LabelVeryNegative
}

// Sentiment is the estimator output stored with an entry. It is written
// once when the entry is created and never recomputed.
type Sentiment struct {
	Label      Label            `json:"label"`
	Score      float64          `json:"score"`      // [-1, 1], 3 decimals
	RawScore   float64          `json:"rawScore"`   // signed weight sum before normalization
	Confidence float64          `json:"confidence"` // [0, 1]
	Details    SentimentDetails `json:"details"`
}

// SentimentDetails carries the counters behind a Sentiment.
type SentimentDetails struct {
	PositiveCount int     `json:"positiveCount"`
	NegativeCount int     `json:"negativeCount"`
	TotalWords    int     `json:"totalWords"`
	TotalWeight   float64 `json:"totalWeight"`
}

// Entry is one diary message. The JSON shape is the persisted contract:
// {id, date, text, keywords, counts, weighted, sentiment, botReply}.
//
// Keywords, Counts, Weighted and Sentiment are outputs of the analysis
// pipeline for Text. Any of them may be missing on entries written by older
// clients; readers must treat missing fields as empty or neutral.
type Entry struct {
	ID        string             `json:"id"`
	Date      time.Time          `json:"date"`
	Text      string             `json:"text"`
	Keywords  []string           `json:"keywords"`
	Counts    map[string]int     `json:"counts"`
	Weighted  map[string]float64 `json:"weighted"`
	Sentiment *Sentiment         `json:"sentiment,omitempty"`
	BotReply  string             `json:"botReply,omitempty"`
}

// Label returns the entry's label, or neutral when no sentiment is attached.
func (e *Entry) Label() Label {
	if e == nil || e.Sentiment == nil || e.Sentiment.Label == "" {
		return LabelNeutral
	}
	return e.Sentiment.Label
}

// Score returns the entry's normalized score, or 0 when no sentiment is attached.
func (e *Entry) Score() float64 {
	if e == nil || e.Sentiment == nil {
		return 0
	}
	return e.Sentiment.Score
}
