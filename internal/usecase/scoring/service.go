// Package scoring classifies candidate reviews and re-scores similarity by
// sentiment alignment with the query.
package scoring

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/placerank/placerank/internal/domain"
)

// Service runs sentiment classification over retrieved candidates and
// applies the scoring policy.
type Service struct {
	classifier domain.Classifier
	corpus     Corpus
	policy     Policy
	batchSize  int
	ceiling    int
	logger     *zap.Logger
}

// New creates the scoring service. ceiling caps how many scored reviews
// survive into aggregation; batchSize caps texts per classifier request.
func New(classifier domain.Classifier, corpus Corpus, policy Policy, batchSize, ceiling int, logger *zap.Logger) *Service {
	if batchSize <= 0 {
		batchSize = 32
	}
	if ceiling <= 0 {
		ceiling = 300
	}
	return &Service{
		classifier: classifier,
		corpus:     corpus,
		policy:     policy,
		batchSize:  batchSize,
		ceiling:    ceiling,
		logger:     logger,
	}
}

// ClassifyQuery labels the query text itself. The label steers alignment
// multipliers and the score floor for the whole search.
func (s *Service) ClassifyQuery(ctx context.Context, query string) (domain.Sentiment, error) {
	preds, err := s.classifier.ClassifyBatch(ctx, []string{domain.TruncateRunes(query, s.policy.TruncateLen)})
	if err != nil {
		return "", fmt.Errorf("classify query: %w", err)
	}
	if len(preds) == 0 {
		return "", fmt.Errorf("classify query: empty prediction: %w", domain.ErrClassifierProviderError)
	}
	return preds[0].Label, nil
}

// Score classifies the candidates, computes final scores, drops everything
// at or below the sentiment-specific floor, and returns at most the ceiling
// best survivors ordered by score descending.
func (s *Service) Score(ctx context.Context, candidates []domain.Candidate, querySent domain.Sentiment) ([]domain.ScoredReview, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	reviews := make([]domain.Review, 0, len(candidates))
	sims := make([]float64, 0, len(candidates))
	texts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		review, ok := s.corpus.Review(c.ReviewID)
		if !ok {
			continue
		}
		reviews = append(reviews, review)
		sims = append(sims, c.Similarity)
		texts = append(texts, domain.TruncateRunes(review.Text, s.policy.TruncateLen))
	}
	if len(reviews) == 0 {
		return nil, nil
	}

	preds, err := s.classifyAll(ctx, texts)
	if err != nil {
		return nil, err
	}

	threshold := s.policy.Threshold(querySent)

	scored := make([]domain.ScoredReview, 0, len(reviews))
	for i, review := range reviews {
		weight := s.policy.Weight(preds[i].Label)
		align := s.policy.Align(querySent, preds[i].Label)
		score := sims[i] * weight * align

		if score <= threshold {
			continue
		}

		scored = append(scored, domain.ScoredReview{
			ReviewID:   review.ID,
			PlaceID:    review.PlaceID,
			Text:       review.Text,
			Similarity: sims[i],
			Sentiment:  preds[i].Label,
			Confidence: preds[i].Confidence,
			Weight:     weight,
			Alignment:  align,
			Score:      score,
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ReviewID < scored[j].ReviewID
	})

	if len(scored) > s.ceiling {
		scored = scored[:s.ceiling]
	}

	s.logger.Debug("scored candidates",
		zap.Int("classified", len(reviews)),
		zap.Int("survived", len(scored)),
		zap.String("query_sentiment", string(querySent)),
		zap.Float64("threshold", threshold),
	)

	return scored, nil
}

// classifyAll splits texts into provider-sized batches. Any batch failure
// fails the whole scoring pass.
func (s *Service) classifyAll(ctx context.Context, texts []string) ([]domain.Prediction, error) {
	preds := make([]domain.Prediction, 0, len(texts))
	for start := 0; start < len(texts); start += s.batchSize {
		end := start + s.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := s.classifier.ClassifyBatch(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("classify reviews [%d:%d]: %w", start, end, err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf(
				"classify reviews [%d:%d]: got %d predictions: %w",
				start, end, len(batch), domain.ErrClassifierProviderError,
			)
		}
		preds = append(preds, batch...)
	}
	return preds, nil
}
