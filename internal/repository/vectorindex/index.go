// Package vectorindex provides a flat inner-product index over L2-normalized
// vectors. On unit vectors the inner product equals cosine similarity, so a
// brute-force scan returns exact cosine-ranked neighbors.
package vectorindex

import (
	"fmt"
	"sort"

	"github.com/placerank/placerank/internal/domain"
)

// Index holds normalized review vectors. Row position i corresponds 1:1 to
// corpus review id i. Append-only; not safe for concurrent mutation.
type Index struct {
	dim     int
	vectors [][]float32
}

// New creates an empty index for vectors of the given dimensionality.
// With dim 0 the index adopts the dimensionality of the first added vector.
func New(dim int) *Index {
	return &Index{dim: dim}
}

// Dim returns the configured vector dimensionality.
func (x *Index) Dim() int { return x.dim }

// Len returns the number of indexed vectors.
func (x *Index) Len() int { return len(x.vectors) }

// Add appends vectors to the index. Callers must pass L2-normalized vectors;
// the index never re-normalizes.
func (x *Index) Add(vectors ...[]float32) error {
	if x.dim == 0 && len(vectors) > 0 {
		x.dim = len(vectors[0])
	}
	for _, v := range vectors {
		if len(v) != x.dim {
			return fmt.Errorf("%w: got %d, index dim %d", domain.ErrVectorDimMismatch, len(v), x.dim)
		}
	}
	x.vectors = append(x.vectors, vectors...)
	return nil
}

// Search returns up to k candidates ranked by inner-product similarity,
// descending. Ties break by ascending review id for stable ordering.
func (x *Index) Search(query []float32, k int) []domain.Candidate {
	if k <= 0 || len(x.vectors) == 0 || len(query) != x.dim {
		return nil
	}
	if k > len(x.vectors) {
		k = len(x.vectors)
	}

	hits := make([]domain.Candidate, len(x.vectors))
	for i, v := range x.vectors {
		hits[i] = domain.Candidate{ReviewID: i, Similarity: dot(v, query)}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ReviewID < hits[j].ReviewID
	})

	return hits[:k]
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
