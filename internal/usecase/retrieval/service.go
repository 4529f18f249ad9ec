// Package retrieval turns a query vector into a pool of candidate reviews.
package retrieval

import (
	"go.uber.org/zap"

	"github.com/placerank/placerank/internal/domain"
)

// Service over-fetches from the vector index so that sentiment filtering
// downstream still leaves enough survivors to rank.
type Service struct {
	index     Index
	corpus    Corpus
	overfetch int
	logger    *zap.Logger
}

// New creates the retrieval service. overfetch is the index over-fetch
// multiplier applied to the requested candidate count.
func New(index Index, corpus Corpus, overfetch int, logger *zap.Logger) *Service {
	if overfetch <= 0 {
		overfetch = 1
	}
	return &Service{
		index:     index,
		corpus:    corpus,
		overfetch: overfetch,
		logger:    logger,
	}
}

// Retrieve searches the index for up to topK*overfetch candidates, capped at
// the index size, and drops hits that do not resolve to a usable review.
func (s *Service) Retrieve(query []float32, topK int) []domain.Candidate {
	if topK <= 0 || s.index.Len() == 0 {
		return nil
	}

	searchK := topK * s.overfetch
	if searchK > s.index.Len() {
		searchK = s.index.Len()
	}

	hits := s.index.Search(query, searchK)

	out := make([]domain.Candidate, 0, len(hits))
	for _, h := range hits {
		review, ok := s.corpus.Review(h.ReviewID)
		if !ok || review.PlaceID == 0 {
			continue
		}
		out = append(out, h)
	}

	if dropped := len(hits) - len(out); dropped > 0 {
		s.logger.Debug("dropped unresolvable candidates",
			zap.Int("dropped", dropped),
			zap.Int("kept", len(out)),
		)
	}

	return out
}
