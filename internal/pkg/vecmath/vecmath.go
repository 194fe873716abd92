package vecmath

import (
	"errors"
	"math"
)

// ErrDimensionMismatch is returned when two vectors (or a vector/weight pair)
// disagree on length.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Normalize returns v scaled to unit length. A zero vector is returned
// unchanged rather than dividing by zero.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	inv := 1.0 / math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}

// Cosine computes the cosine similarity between a and b, accumulating in
// float64 to avoid drift on long vectors.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	var dot, na, nb float64
	for i := 0; i < len(a); i++ {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}

// WeightedAverage computes the componentwise weighted mean of vecs. All
// vectors must share one dimension and len(vecs) must equal len(weights).
// When the weights sum to zero the zero vector is returned.
func WeightedAverage(vecs [][]float32, weights []float64) ([]float32, error) {
	if len(vecs) != len(weights) {
		return nil, ErrDimensionMismatch
	}
	if len(vecs) == 0 {
		return nil, nil
	}
	dim := len(vecs[0])
	for _, v := range vecs {
		if len(v) != dim {
			return nil, ErrDimensionMismatch
		}
	}
	acc := make([]float64, dim)
	var totalW float64
	for i, v := range vecs {
		w := weights[i]
		totalW += w
		for j, x := range v {
			acc[j] += float64(x) * w
		}
	}
	out := make([]float32, dim)
	if totalW == 0 {
		return out, nil
	}
	for j := range acc {
		out[j] = float32(acc[j] / totalW)
	}
	return out, nil
}
