package retrieval

import "github.com/placerank/placerank/internal/domain"

// Index is the vector search surface the retriever depends on.
type Index interface {
	Search(query []float32, k int) []domain.Candidate
	Len() int
}

// Corpus resolves candidate ids to reviews.
type Corpus interface {
	Review(id int) (domain.Review, bool)
}
