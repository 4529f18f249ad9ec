// Package ingest embeds the review corpus and fills the vector index.
package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/placerank/placerank/internal/domain"
)

// Corpus is the review source being indexed.
type Corpus interface {
	Len() int
	Review(id int) (domain.Review, bool)
}

// Index receives the normalized review vectors, in corpus order.
type Index interface {
	Add(vectors ...[]float32) error
}

// Service embeds reviews batch by batch. Row order is preserved so corpus
// review ids keep matching index rows.
type Service struct {
	embedder  domain.Embedder
	batch     domain.BatchEmbedder
	batchSize int
	logger    *zap.Logger

	// Progress, when set, is called after each batch with rows done and total.
	Progress func(done, total int)
}

// New creates the ingest service. The embedder's batch interface is used
// when available, otherwise texts embed one by one.
func New(embedder domain.Embedder, batchSize int, logger *zap.Logger) *Service {
	if batchSize <= 0 {
		batchSize = 64
	}
	batch, _ := embedder.(domain.BatchEmbedder)
	return &Service{
		embedder:  embedder,
		batch:     batch,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Run embeds every corpus review and adds the vectors to the index.
func (s *Service) Run(ctx context.Context, corpus Corpus, index Index) error {
	total := corpus.Len()
	if total == 0 {
		return nil
	}

	var tokens int
	for start := 0; start < total; start += s.batchSize {
		end := start + s.batchSize
		if end > total {
			end = total
		}

		texts := make([]string, 0, end-start)
		for id := start; id < end; id++ {
			review, ok := corpus.Review(id)
			if !ok {
				return fmt.Errorf("corpus review %d missing", id)
			}
			texts = append(texts, domain.NormalizeText(review.Text))
		}

		res, err := s.embedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed batch [%d:%d]: %w", start, end, err)
		}
		if len(res.Embeddings) != len(texts) {
			return fmt.Errorf(
				"embed batch [%d:%d]: got %d vectors: %w",
				start, end, len(res.Embeddings), domain.ErrEmbeddingProviderError,
			)
		}

		for _, v := range res.Embeddings {
			domain.NormalizeL2(v)
		}
		if err := index.Add(res.Embeddings...); err != nil {
			return fmt.Errorf("index batch [%d:%d]: %w", start, end, err)
		}

		tokens += res.TotalTokens
		if s.Progress != nil {
			s.Progress(end, total)
		}
	}

	s.logger.Info("corpus indexed",
		zap.Int("reviews", total),
		zap.Int("tokens", tokens),
	)
	return nil
}

func (s *Service) embedBatch(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if s.batch != nil {
		return s.batch.BatchEmbed(ctx, texts)
	}
	return domain.BatchFallback(ctx, s.embedder, texts)
}
