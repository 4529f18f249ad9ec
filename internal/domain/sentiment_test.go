package domain

import "testing"

func TestParseSentiment(t *testing.T) {
	tests := []struct {
		in   string
		want Sentiment
	}{
		{"positive", SentimentPositive},
		{"POSITIVE", SentimentPositive},
		{" negative ", SentimentNegative},
		{"neutral", SentimentNeutral},
		{"speech", SentimentNeutral},
		{"", SentimentNeutral},
	}
	for _, tt := range tests {
		if got := ParseSentiment(tt.in); got != tt.want {
			t.Errorf("ParseSentiment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSentimentMarker(t *testing.T) {
	if SentimentPositive.Marker() != "[+]" {
		t.Errorf("positive marker = %q", SentimentPositive.Marker())
	}
	if SentimentNegative.Marker() != "[-]" {
		t.Errorf("negative marker = %q", SentimentNegative.Marker())
	}
	if SentimentNeutral.Marker() != "[~]" {
		t.Errorf("neutral marker = %q", SentimentNeutral.Marker())
	}
	if Sentiment("bogus").Marker() != "[~]" {
		t.Errorf("unknown label must use the neutral marker")
	}
}
