// Package rank defines the closed set of place aggregation strategies.
package rank

import (
	"fmt"

	"github.com/placerank/placerank/internal/domain"
)

// Strategy selects how per-place review scores reduce to a final place score.
type Strategy int

const (
	// Weighted is avg_score * ln(1+count) * sqrt(sentiment_ratio). Default.
	Weighted Strategy = iota
	// Mean uses the capped average review score.
	Mean
	// Max uses the best single review score.
	Max
)

// ParseStrategy maps an API strategy name to a Strategy.
// The empty string selects the default (weighted); any other unrecognized
// name is a caller error, never a silent fallback.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", "weighted":
		return Weighted, nil
	case "mean":
		return Mean, nil
	case "max":
		return Max, nil
	default:
		return Weighted, fmt.Errorf("%w: %q", domain.ErrUnknownAggregation, name)
	}
}

func (s Strategy) String() string {
	switch s {
	case Mean:
		return "mean"
	case Max:
		return "max"
	default:
		return "weighted"
	}
}
