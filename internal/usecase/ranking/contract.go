package ranking

import (
	"context"

	"github.com/placerank/placerank/internal/domain"
)

// Retriever fetches candidate reviews for a normalized query vector.
type Retriever interface {
	Retrieve(query []float32, topK int) []domain.Candidate
}

// Scorer classifies and re-scores candidates by sentiment alignment.
type Scorer interface {
	ClassifyQuery(ctx context.Context, query string) (domain.Sentiment, error)
	Score(ctx context.Context, candidates []domain.Candidate, querySent domain.Sentiment) ([]domain.ScoredReview, error)
}

// Places resolves place metadata for the final join.
type Places interface {
	Place(id int64) (domain.Place, bool)
}

// SessionSink receives the capped review set of each successful search.
type SessionSink interface {
	Update(querySentiment domain.Sentiment, reviews []domain.ScoredReview)
}
