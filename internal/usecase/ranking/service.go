// Package ranking orchestrates the full search pipeline: query validation,
// sentiment classification, embedding, retrieval, scoring, per-place
// aggregation and the final metadata join.
package ranking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/placerank/placerank/internal/domain"
	"github.com/placerank/placerank/internal/domain/rank"
	"github.com/placerank/placerank/internal/metrics"
)

// Options are the caller-tunable knobs of one search. Zero values select
// the configured defaults.
type Options struct {
	TopK       int
	MinReviews int
	Strategy   rank.Strategy
}

// Result is the outcome of one search.
type Result struct {
	Places         []domain.PlaceResult `json:"results"`
	QuerySentiment domain.Sentiment     `json:"query_sentiment"`
}

// Params are the configured pipeline limits.
type Params struct {
	CandidateCeiling  int
	PerPlaceCap       int
	ResultOverfetch   int
	DefaultTopK       int
	DefaultMinReviews int
}

// Service runs place searches. Each SearchPlaces call replaces the given
// session's cached state, including on empty outcomes.
type Service struct {
	embedder  domain.Embedder
	retriever Retriever
	scorer    Scorer
	places    Places
	params    Params
	logger    *zap.Logger
}

// New creates the ranking service.
func New(embedder domain.Embedder, retriever Retriever, scorer Scorer, places Places, params Params, logger *zap.Logger) *Service {
	if params.CandidateCeiling <= 0 {
		params.CandidateCeiling = 300
	}
	if params.PerPlaceCap <= 0 {
		params.PerPlaceCap = 15
	}
	if params.ResultOverfetch <= 0 {
		params.ResultOverfetch = 2
	}
	if params.DefaultTopK <= 0 {
		params.DefaultTopK = 10
	}
	if params.DefaultMinReviews <= 0 {
		params.DefaultMinReviews = 3
	}
	return &Service{
		embedder:  embedder,
		retriever: retriever,
		scorer:    scorer,
		places:    places,
		params:    params,
		logger:    logger,
	}
}

// SearchPlaces ranks places for a free-text query and records the outcome
// in sess. Queries that normalize to nothing fail before any provider or
// index work.
func (s *Service) SearchPlaces(ctx context.Context, sess SessionSink, query string, opts Options) (Result, error) {
	start := time.Now()

	normalized := domain.NormalizeText(query)
	if normalized == "" {
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return Result{}, fmt.Errorf("query is empty after normalization: %w", domain.ErrInvalidQuery)
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = s.params.DefaultTopK
	}
	minReviews := opts.MinReviews
	if minReviews <= 0 {
		minReviews = s.params.DefaultMinReviews
	}

	querySent, err := s.scorer.ClassifyQuery(ctx, normalized)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return Result{}, err
	}

	embRes, err := s.embedder.Embed(ctx, normalized)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return Result{}, fmt.Errorf("embed query: %w", err)
	}
	vec := embRes.Embedding
	domain.NormalizeL2(vec)

	candidates := s.retriever.Retrieve(vec, s.params.CandidateCeiling)
	if len(candidates) == 0 {
		sess.Update(querySent, nil)
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeNoCandidates).Inc()
		metrics.SearchDuration.Observe(time.Since(start).Seconds())
		s.logger.Info("search found no candidates", zap.String("query_sentiment", string(querySent)))
		return Result{QuerySentiment: querySent}, nil
	}

	scored, err := s.scorer.Score(ctx, candidates, querySent)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return Result{}, err
	}

	capped := capPerPlace(scored, s.params.PerPlaceCap)
	sess.Update(querySent, capped)

	aggs := aggregatePlaces(capped)

	kept := aggs[:0]
	for _, agg := range aggs {
		if agg.ReviewCount >= minReviews {
			kept = append(kept, agg)
		}
	}
	aggs = kept

	if len(aggs) == 0 {
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeInsufficientEvidence).Inc()
		metrics.SearchDuration.Observe(time.Since(start).Seconds())
		s.logger.Info("search found no places with enough evidence",
			zap.Int("min_reviews", minReviews),
			zap.String("query_sentiment", string(querySent)),
		)
		return Result{QuerySentiment: querySent}, nil
	}

	applyStrategy(aggs, opts.Strategy, querySent)
	sortAggregates(aggs)

	if limit := topK * s.params.ResultOverfetch; len(aggs) > limit {
		aggs = aggs[:limit]
	}

	results := s.join(aggs, topK)

	metrics.SearchesTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	s.logger.Info("search complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("scored", len(scored)),
		zap.Int("places", len(results)),
		zap.String("query_sentiment", string(querySent)),
		zap.String("strategy", opts.Strategy.String()),
		zap.Duration("took", time.Since(start)),
	)

	return Result{Places: results, QuerySentiment: querySent}, nil
}

// join attaches place metadata, drops unnamed places and deduplicates by
// name keeping the best-ranked occurrence, then truncates to topK.
func (s *Service) join(aggs []domain.PlaceAggregate, topK int) []domain.PlaceResult {
	results := make([]domain.PlaceResult, 0, topK)
	seen := make(map[string]bool)

	for _, agg := range aggs {
		if len(results) == topK {
			break
		}

		place, ok := s.places.Place(agg.PlaceID)
		if !ok {
			continue
		}
		name := strings.TrimSpace(place.Name)
		if name == "" || strings.EqualFold(name, "nan") {
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		results = append(results, domain.PlaceResult{
			PlaceID:     agg.PlaceID,
			Name:        name,
			Address:     place.Address,
			Category:    place.Category,
			Rating:      place.Rating,
			FinalScore:  agg.FinalScore,
			AvgScore:    agg.AvgScore,
			ReviewCount: agg.ReviewCount,
			Positive:    agg.Positive,
			Negative:    agg.Negative,
			Neutral:     agg.Neutral,
		})
	}
	return results
}
