package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search outcome label values.
const (
	OutcomeOK                   = "ok"
	OutcomeNoCandidates         = "no_candidates"
	OutcomeInsufficientEvidence = "insufficient_evidence"
	OutcomeError                = "error"
)

// Pipeline Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "placerank",
			Name:      "searches_total",
			Help:      "Total place searches by outcome",
		},
		[]string{"outcome"},
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "placerank",
			Name:      "search_duration_seconds",
			Help:      "End-to-end place search duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "placerank",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "placerank",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "placerank",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	ClassificationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "placerank",
			Name:      "classification_requests_total",
			Help:      "Total number of sentiment classification requests",
		},
		[]string{"provider", "model", "status"},
	)

	ClassificationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "placerank",
			Name:      "classification_request_duration_seconds",
			Help:      "Sentiment classification request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	ClassifiedTextsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "placerank",
			Name:      "classified_texts_total",
			Help:      "Total texts classified by sentiment label",
		},
		[]string{"label"},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers Prometheus pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(ClassificationRequestsTotal)
	prometheus.MustRegister(ClassificationRequestDuration)
	prometheus.MustRegister(ClassifiedTextsTotal)
	pipelineMetricsRegistered = true
}
