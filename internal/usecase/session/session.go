// Package session caches the last ranking's scored reviews for follow-up
// highlight and sentiment queries.
package session

import (
	"strings"

	"github.com/placerank/placerank/internal/domain"
)

// Session holds the capped scored-review set and query sentiment of the most
// recent search. A fresh session is empty until the first Update. Not safe
// for concurrent use; callers serialize access.
type Session struct {
	querySentiment domain.Sentiment
	byPlace        map[int64][]domain.ScoredReview
	updated        bool
}

// minHighlightLen is the shortest trimmed review text worth showing.
const minHighlightLen = 20

// New creates an empty session.
func New() *Session {
	return &Session{byPlace: map[int64][]domain.ScoredReview{}}
}

// Update replaces the cached state with a new search outcome. Reviews must
// already be capped per place and ordered by score descending; grouping
// preserves that order. An empty review set is a valid outcome and still
// replaces the previous state.
func (s *Session) Update(querySentiment domain.Sentiment, reviews []domain.ScoredReview) {
	byPlace := make(map[int64][]domain.ScoredReview)
	for _, r := range reviews {
		byPlace[r.PlaceID] = append(byPlace[r.PlaceID], r)
	}
	s.querySentiment = querySentiment
	s.byPlace = byPlace
	s.updated = true
}

// Updated reports whether any search has populated the session.
func (s *Session) Updated() bool { return s.updated }

// QuerySentiment returns the sentiment of the last query.
func (s *Session) QuerySentiment() domain.Sentiment { return s.querySentiment }

// Highlights returns up to topK cached review texts for a place, best score
// first, each prefixed with its sentiment marker. Texts too short to be
// meaningful on their own are skipped.
func (s *Session) Highlights(placeID int64, topK int) []string {
	if topK <= 0 {
		return nil
	}

	out := make([]string, 0, topK)
	for _, r := range s.byPlace[placeID] {
		if len(out) == topK {
			break
		}
		text := strings.TrimSpace(r.Text)
		if len([]rune(text)) <= minHighlightLen {
			continue
		}
		out = append(out, r.Sentiment.Marker()+" "+text)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SentimentStats counts cached reviews per sentiment for a place. Places
// absent from the cache report all-zero counts.
func (s *Session) SentimentStats(placeID int64) domain.SentimentStats {
	var stats domain.SentimentStats
	for _, r := range s.byPlace[placeID] {
		switch r.Sentiment {
		case domain.SentimentPositive:
			stats.Positive++
		case domain.SentimentNegative:
			stats.Negative++
		default:
			stats.Neutral++
		}
	}
	return stats
}
