package session

import (
	"reflect"
	"testing"

	"github.com/placerank/placerank/internal/domain"
)

func TestHighlights(t *testing.T) {
	s := New()
	s.Update(domain.SentimentNegative, []domain.ScoredReview{
		{ReviewID: 0, PlaceID: 1, Text: "the rooms were dirty and the heating broken", Sentiment: domain.SentimentNegative, Score: 1.8},
		{ReviewID: 1, PlaceID: 1, Text: "short text", Sentiment: domain.SentimentNegative, Score: 1.5},
		{ReviewID: 2, PlaceID: 1, Text: "  staff was unhelpful during our entire stay  ", Sentiment: domain.SentimentNeutral, Score: 1.2},
		{ReviewID: 3, PlaceID: 2, Text: "a different place entirely, lovely garden", Sentiment: domain.SentimentPositive, Score: 1.0},
	})

	got := s.Highlights(1, 5)
	want := []string{
		"[-] the rooms were dirty and the heating broken",
		"[~] staff was unhelpful during our entire stay",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Highlights = %v, want %v", got, want)
	}
}

func TestHighlights_TopKLimit(t *testing.T) {
	s := New()
	s.Update(domain.SentimentPositive, []domain.ScoredReview{
		{ReviewID: 0, PlaceID: 1, Text: "first long enough review text here", Sentiment: domain.SentimentPositive, Score: 2.0},
		{ReviewID: 1, PlaceID: 1, Text: "second long enough review text here", Sentiment: domain.SentimentPositive, Score: 1.9},
		{ReviewID: 2, PlaceID: 1, Text: "third long enough review text here", Sentiment: domain.SentimentPositive, Score: 1.8},
	})

	got := s.Highlights(1, 2)
	if len(got) != 2 {
		t.Fatalf("highlights = %d, want 2", len(got))
	}
	if got[0] != "[+] first long enough review text here" {
		t.Errorf("best-first order broken: %q", got[0])
	}
}

func TestHighlights_UnknownPlace(t *testing.T) {
	s := New()
	s.Update(domain.SentimentNeutral, nil)
	if got := s.Highlights(42, 3); got != nil {
		t.Errorf("Highlights = %v, want nil", got)
	}
}

func TestSentimentStats(t *testing.T) {
	s := New()
	s.Update(domain.SentimentNegative, []domain.ScoredReview{
		{PlaceID: 1, Sentiment: domain.SentimentNegative},
		{PlaceID: 1, Sentiment: domain.SentimentNegative},
		{PlaceID: 1, Sentiment: domain.SentimentPositive},
		{PlaceID: 1, Sentiment: domain.SentimentNeutral},
		{PlaceID: 2, Sentiment: domain.SentimentPositive},
	})

	got := s.SentimentStats(1)
	want := domain.SentimentStats{Positive: 1, Negative: 2, Neutral: 1}
	if got != want {
		t.Errorf("SentimentStats = %+v, want %+v", got, want)
	}

	if zero := s.SentimentStats(99); zero != (domain.SentimentStats{}) {
		t.Errorf("unknown place stats = %+v, want zeros", zero)
	}
}

func TestUpdate_ReplacesState(t *testing.T) {
	s := New()
	s.Update(domain.SentimentPositive, []domain.ScoredReview{
		{PlaceID: 1, Sentiment: domain.SentimentPositive, Text: "great stay, highly recommend this place"},
	})
	s.Update(domain.SentimentNegative, nil)

	if s.QuerySentiment() != domain.SentimentNegative {
		t.Errorf("QuerySentiment = %s", s.QuerySentiment())
	}
	if got := s.Highlights(1, 5); got != nil {
		t.Errorf("stale highlights survived update: %v", got)
	}
	if stats := s.SentimentStats(1); stats != (domain.SentimentStats{}) {
		t.Errorf("stale stats survived update: %+v", stats)
	}
}

func TestUpdated(t *testing.T) {
	s := New()
	if s.Updated() {
		t.Error("fresh session must not report updated")
	}
	s.Update(domain.SentimentNeutral, nil)
	if !s.Updated() {
		t.Error("session must report updated after an empty outcome")
	}
}
