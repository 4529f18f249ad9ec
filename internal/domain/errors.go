package domain

import "errors"

var (
	// ErrInvalidQuery signals a query that is empty after text normalization.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrUnknownAggregation signals an unrecognized aggregation strategy name.
	ErrUnknownAggregation = errors.New("unknown aggregation strategy")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrClassifierProviderError signals a sentiment classifier failure.
	ErrClassifierProviderError = errors.New("sentiment classifier error")
)
