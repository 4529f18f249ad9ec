package ranking

import (
	"math"
	"sort"

	"github.com/placerank/placerank/internal/domain"
	"github.com/placerank/placerank/internal/domain/rank"
)

// capPerPlace keeps at most cap best-scored reviews per place so a single
// heavily-reviewed venue cannot flood the evidence pool. Order within and
// across places stays score-descending with review id as tiebreak.
func capPerPlace(reviews []domain.ScoredReview, cap int) []domain.ScoredReview {
	if cap <= 0 {
		return reviews
	}

	sorted := make([]domain.ScoredReview, len(reviews))
	copy(sorted, reviews)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].ReviewID < sorted[j].ReviewID
	})

	taken := make(map[int64]int)
	out := make([]domain.ScoredReview, 0, len(sorted))
	for _, r := range sorted {
		if taken[r.PlaceID] >= cap {
			continue
		}
		taken[r.PlaceID]++
		out = append(out, r)
	}
	return out
}

// aggregatePlaces reduces capped reviews to per-place statistics.
func aggregatePlaces(reviews []domain.ScoredReview) []domain.PlaceAggregate {
	byPlace := make(map[int64]*domain.PlaceAggregate)
	order := make([]int64, 0)

	for _, r := range reviews {
		agg, ok := byPlace[r.PlaceID]
		if !ok {
			agg = &domain.PlaceAggregate{PlaceID: r.PlaceID}
			byPlace[r.PlaceID] = agg
			order = append(order, r.PlaceID)
		}

		agg.TotalScore += r.Score
		agg.ReviewCount++
		if r.Score > agg.MaxScore {
			agg.MaxScore = r.Score
		}
		switch r.Sentiment {
		case domain.SentimentPositive:
			agg.Positive++
		case domain.SentimentNegative:
			agg.Negative++
		default:
			agg.Neutral++
		}
	}

	out := make([]domain.PlaceAggregate, 0, len(byPlace))
	for _, id := range order {
		agg := byPlace[id]
		agg.AvgScore = agg.TotalScore / float64(agg.ReviewCount)
		out = append(out, *agg)
	}
	return out
}

// applyStrategy computes FinalScore per aggregate.
//
// The weighted strategy scales the average by evidence volume, ln(1+count),
// and by the sentiment ratio aligned with the query: for negative queries
// places with more negative than positive reviews rise, otherwise places
// with more positive than negative reviews rise. Add-one smoothing keeps
// the ratio finite on one-sided counts.
func applyStrategy(aggs []domain.PlaceAggregate, strategy rank.Strategy, querySent domain.Sentiment) {
	for i := range aggs {
		agg := &aggs[i]
		switch strategy {
		case rank.Mean:
			agg.FinalScore = agg.AvgScore
		case rank.Max:
			agg.FinalScore = agg.MaxScore
		default:
			var ratio float64
			if querySent == domain.SentimentNegative {
				ratio = float64(agg.Negative+1) / float64(agg.Positive+agg.Neutral+1)
			} else {
				ratio = float64(agg.Positive+1) / float64(agg.Negative+1)
			}
			agg.FinalScore = agg.AvgScore * math.Log1p(float64(agg.ReviewCount)) * math.Sqrt(ratio)
		}
	}
}

// sortAggregates orders by FinalScore descending, place id ascending on ties.
func sortAggregates(aggs []domain.PlaceAggregate) {
	sort.Slice(aggs, func(i, j int) bool {
		if aggs[i].FinalScore != aggs[j].FinalScore {
			return aggs[i].FinalScore > aggs[j].FinalScore
		}
		return aggs[i].PlaceID < aggs[j].PlaceID
	})
}
