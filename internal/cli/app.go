package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/placerank/placerank/internal/config"
	"github.com/placerank/placerank/internal/db"
	dbRedis "github.com/placerank/placerank/internal/db/redis"
	"github.com/placerank/placerank/internal/domain"
	logpkg "github.com/placerank/placerank/internal/logger"
	"github.com/placerank/placerank/internal/metrics"
	"github.com/placerank/placerank/internal/repository/corpus"
	"github.com/placerank/placerank/internal/repository/embcache"
	"github.com/placerank/placerank/internal/repository/vectorindex"
	openaiTransport "github.com/placerank/placerank/internal/transport/openai"
	ingestuc "github.com/placerank/placerank/internal/usecase/ingest"
	"github.com/placerank/placerank/internal/usecase/ranking"
	"github.com/placerank/placerank/internal/usecase/retrieval"
	"github.com/placerank/placerank/internal/usecase/scoring"
)

// app is the composition root shared by the serve and query commands.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	store   db.Store
	corpus  *corpus.Corpus
	index   *vectorindex.Index
	ranking *ranking.Service
}

// buildApp loads config, connects infrastructure, loads and indexes the
// corpus. progress, when set, is called after each embedded batch.
func buildApp(ctx context.Context, progress func(done, total int)) (*app, error) {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	metrics.RegisterPipelineMetrics()

	reviews, err := corpus.LoadReviews(cfg.Data.ReviewsPath)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	places, err := corpus.LoadPlaces(cfg.Data.PlacesPath)
	if err != nil {
		return nil, fmt.Errorf("load places: %w", err)
	}
	corp := corpus.New(reviews, places)
	logger.Info("corpus loaded",
		zap.Int("reviews", corp.Len()),
		zap.Int("places", corp.Places()),
	)

	a := &app{cfg: cfg, logger: logger, corpus: corp}

	// Optional Redis embedding cache.
	if cfg.Cache.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create cache store: %w", err)
		}
		readyTimeout := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readyTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("cache not ready: %w", err)
		}
		a.store = store
		logger.Info("embedding cache connected", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	embedder := buildEmbedder(cfg, a.store, logger)
	classifier := openaiTransport.NewClassifier(&openaiTransport.ClassifierConfig{
		APIKey:   cfg.Classifier.APIKey,
		BaseURL:  cfg.Classifier.BaseURL,
		Model:    cfg.Classifier.Model,
		Provider: "openai",
		Logger:   logger,
	})

	a.index = vectorindex.New(cfg.Embedding.Dimensions)

	ingestSvc := ingestuc.New(embedder, cfg.Embedding.BatchSize, logger)
	ingestSvc.Progress = progress
	if err := ingestSvc.Run(ctx, corp, a.index); err != nil {
		a.close()
		return nil, fmt.Errorf("index corpus: %w", err)
	}

	retrievalSvc := retrieval.New(a.index, corp, cfg.Ranking.OverfetchMultiplier, logger)
	scoringSvc := scoring.New(
		classifier, corp, policyFromConfig(cfg.Ranking),
		cfg.Classifier.BatchSize, cfg.Ranking.CandidateCeiling, logger,
	)
	a.ranking = ranking.New(embedder, retrievalSvc, scoringSvc, corp, ranking.Params{
		CandidateCeiling:  cfg.Ranking.CandidateCeiling,
		PerPlaceCap:       cfg.Ranking.PerPlaceCap,
		ResultOverfetch:   cfg.Ranking.ResultOverfetch,
		DefaultTopK:       cfg.Ranking.DefaultTopK,
		DefaultMinReviews: cfg.Ranking.DefaultMinReviews,
	}, logger)

	return a, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// buildEmbedder assembles the embedder chain: OpenAI provider, optionally
// wrapped with the Redis cache.
func buildEmbedder(cfg config.Config, store db.Store, logger *zap.Logger) domain.Embedder {
	base := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})

	if store == nil {
		return base
	}
	return embcache.New(base, store, metrics.EmbeddingCacheTotal, logger)
}

// policyFromConfig starts from the built-in scoring tables and applies any
// overrides from the ranking config. Labels were validated at config load.
func policyFromConfig(rc config.RankingConfig) scoring.Policy {
	policy := scoring.DefaultPolicy()
	policy.NegativeThreshold = rc.NegativeThreshold
	policy.DefaultThreshold = rc.DefaultThreshold
	policy.TruncateLen = rc.TruncateLen

	for label, w := range rc.SentimentWeights {
		policy.Weights[domain.Sentiment(label)] = w
	}
	for qLabel, row := range rc.Alignment {
		q := domain.Sentiment(qLabel)
		if policy.Alignment[q] == nil {
			policy.Alignment[q] = map[domain.Sentiment]float64{}
		}
		for rLabel, a := range row {
			policy.Alignment[q][domain.Sentiment(rLabel)] = a
		}
	}
	return policy
}
