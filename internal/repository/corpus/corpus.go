// Package corpus holds the immutable in-memory review and place tables.
package corpus

import "github.com/placerank/placerank/internal/domain"

// Corpus is the read-only review/place store for the process lifetime.
// Review ids are positional: review i is row i, matching vector index rows.
type Corpus struct {
	reviews []domain.Review
	places  map[int64]domain.Place
}

// New builds a corpus. Review IDs are reassigned to positional indices so
// they always line up with the vector index.
func New(reviews []domain.Review, places []domain.Place) *Corpus {
	rs := make([]domain.Review, len(reviews))
	copy(rs, reviews)
	for i := range rs {
		rs[i].ID = i
	}

	pm := make(map[int64]domain.Place, len(places))
	for _, p := range places {
		pm[p.ID] = p
	}

	return &Corpus{reviews: rs, places: pm}
}

// Len returns the number of reviews.
func (c *Corpus) Len() int { return len(c.reviews) }

// Review returns the review at positional id.
func (c *Corpus) Review(id int) (domain.Review, bool) {
	if id < 0 || id >= len(c.reviews) {
		return domain.Review{}, false
	}
	return c.reviews[id], true
}

// Place returns place metadata by id.
func (c *Corpus) Place(id int64) (domain.Place, bool) {
	p, ok := c.places[id]
	return p, ok
}

// Places returns the number of known places.
func (c *Corpus) Places() int { return len(c.places) }
