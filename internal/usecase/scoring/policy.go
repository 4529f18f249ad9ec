package scoring

import "github.com/placerank/placerank/internal/domain"

// Policy holds the sentiment scoring tables: base weights per review
// sentiment, query/review alignment multipliers, and score floors.
type Policy struct {
	Weights           map[domain.Sentiment]float64
	Alignment         map[domain.Sentiment]map[domain.Sentiment]float64
	NegativeThreshold float64
	DefaultThreshold  float64
	TruncateLen       int
}

// DefaultPolicy returns the built-in scoring tables. Negative queries boost
// aligned negative reviews hard and nearly erase positive ones; positive
// queries do the mirror image with slightly softer multipliers.
func DefaultPolicy() Policy {
	return Policy{
		Weights: map[domain.Sentiment]float64{
			domain.SentimentPositive: 1.2,
			domain.SentimentNeutral:  1.0,
			domain.SentimentNegative: 0.8,
		},
		Alignment: map[domain.Sentiment]map[domain.Sentiment]float64{
			domain.SentimentNegative: {
				domain.SentimentPositive: 0.05,
				domain.SentimentNegative: 2.5,
				domain.SentimentNeutral:  0.5,
			},
			domain.SentimentPositive: {
				domain.SentimentPositive: 2.0,
				domain.SentimentNegative: 0.05,
				domain.SentimentNeutral:  0.7,
			},
		},
		NegativeThreshold: 0.15,
		DefaultThreshold:  0.20,
		TruncateLen:       512,
	}
}

// Weight returns the base weight for a review sentiment. Unknown labels
// weigh 1.0.
func (p Policy) Weight(review domain.Sentiment) float64 {
	if w, ok := p.Weights[review]; ok {
		return w
	}
	return 1.0
}

// Align returns the query/review alignment multiplier. Neutral queries and
// missing table entries leave scores untouched.
func (p Policy) Align(query, review domain.Sentiment) float64 {
	row, ok := p.Alignment[query]
	if !ok {
		return 1.0
	}
	if a, ok := row[review]; ok {
		return a
	}
	return 1.0
}

// Threshold returns the score floor for the query sentiment. Negative
// queries use a lower floor: misaligned reviews are already crushed by
// alignment, so survivors carry more signal.
func (p Policy) Threshold(query domain.Sentiment) float64 {
	if query == domain.SentimentNegative {
		return p.NegativeThreshold
	}
	return p.DefaultThreshold
}

// Score computes the final review score.
func (p Policy) Score(similarity float64, query, review domain.Sentiment) float64 {
	return similarity * p.Weight(review) * p.Align(query, review)
}
