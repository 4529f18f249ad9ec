package scoring

import "github.com/placerank/placerank/internal/domain"

// Corpus resolves candidate ids to review rows.
type Corpus interface {
	Review(id int) (domain.Review, bool)
}
