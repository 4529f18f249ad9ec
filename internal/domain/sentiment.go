package domain

import "strings"

// Sentiment is a three-way emotional polarity label.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ParseSentiment maps a classifier label to a Sentiment.
// Unrecognized labels fall back to neutral rather than failing the query:
// an unknown label carries no polarity signal.
func ParseSentiment(label string) Sentiment {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "positive":
		return SentimentPositive
	case "negative":
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Marker returns the compact sentiment indicator used in highlight output.
func (s Sentiment) Marker() string {
	switch s {
	case SentimentPositive:
		return "[+]"
	case SentimentNegative:
		return "[-]"
	default:
		return "[~]"
	}
}

// Prediction is a single classifier output.
type Prediction struct {
	Label      Sentiment
	Confidence float64
}

// SentimentStats counts cached reviews per sentiment label for one place.
type SentimentStats struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}
