package domain

// Review is a single customer review bound to a place.
// Reviews are immutable once loaded into the corpus.
type Review struct {
	ID      int
	PlaceID int64
	Text    string
	Rating  float64
}

// Place is venue metadata joined into the ranked output.
type Place struct {
	ID       int64
	Name     string
	Address  string
	Category string
	Rating   float64
}

// Candidate is a raw retrieval hit: a corpus row index with its cosine
// similarity to the query vector.
type Candidate struct {
	ReviewID   int
	Similarity float64
}

// ScoredReview is a review after sentiment-aware re-scoring.
// It lives only inside one query's pipeline and the session cache.
type ScoredReview struct {
	ReviewID   int
	PlaceID    int64
	Text       string
	Similarity float64
	Sentiment  Sentiment
	Confidence float64
	Weight     float64
	Alignment  float64
	Score      float64
}

// PlaceAggregate is the per-place reduction of capped scored reviews.
type PlaceAggregate struct {
	PlaceID     int64
	AvgScore    float64
	MaxScore    float64
	ReviewCount int
	TotalScore  float64
	Positive    int
	Negative    int
	Neutral     int
	FinalScore  float64
}

// PlaceResult is one row of the ranked output after the metadata join.
type PlaceResult struct {
	PlaceID     int64   `json:"place_id"`
	Name        string  `json:"name"`
	Address     string  `json:"address,omitempty"`
	Category    string  `json:"category,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	FinalScore  float64 `json:"final_score"`
	AvgScore    float64 `json:"avg_score"`
	ReviewCount int     `json:"review_count"`
	Positive    int     `json:"positive_reviews"`
	Negative    int     `json:"negative_reviews"`
	Neutral     int     `json:"neutral_reviews"`
}
