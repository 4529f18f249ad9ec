package domain

import "math"

// NormalizeL2 scales v to unit length in place and returns it.
// Zero vectors are returned unchanged. After normalization, inner product
// equals cosine similarity.
func NormalizeL2(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
	return v
}
