package vecmath

import (
	"errors"
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	var mag float64
	for _, x := range v {
		mag += float64(x) * float64(x)
	}
	if math.Abs(math.Sqrt(mag)-1.0) > 1e-6 {
		t.Fatalf("expected unit magnitude, got %v", math.Sqrt(mag))
	}
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Fatalf("unexpected components: %v", v)
	}

	zero := Normalize([]float32{0, 0, 0})
	for _, x := range zero {
		if x != 0 {
			t.Fatalf("zero vector should pass through unchanged, got %v", zero)
		}
	}
}

func TestCosineDimensionMismatch(t *testing.T) {
	if _, err := Cosine([]float32{1, 2}, []float32{1, 2, 3}); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestCosine(t *testing.T) {
	sim, err := Cosine([]float32{1, 0}, []float32{1, 0})
	if err != nil {
		t.Fatalf("Cosine: %v", err)
	}
	if math.Abs(sim-1.0) > 1e-9 {
		t.Fatalf("identical vectors should have similarity 1, got %v", sim)
	}
	sim, err = Cosine([]float32{1, 0}, []float32{0, 1})
	if err != nil {
		t.Fatalf("Cosine: %v", err)
	}
	if math.Abs(sim) > 1e-9 {
		t.Fatalf("orthogonal vectors should have similarity 0, got %v", sim)
	}
	sim, err = Cosine([]float32{0, 0}, []float32{1, 1})
	if err != nil || sim != 0 {
		t.Fatalf("zero vector similarity should be 0, got %v err=%v", sim, err)
	}
}

func TestWeightedAverageIdentity(t *testing.T) {
	v := []float32{0.5, -2, 3}
	out, err := WeightedAverage([][]float32{v}, []float64{7.25})
	if err != nil {
		t.Fatalf("WeightedAverage: %v", err)
	}
	for i := range v {
		if math.Abs(float64(out[i]-v[i])) > 1e-6 {
			t.Fatalf("single-vector average should equal the vector, got %v", out)
		}
	}
}

func TestWeightedAverageZeroWeights(t *testing.T) {
	out, err := WeightedAverage([][]float32{{1, 2}, {3, 4}}, []float64{0, 0})
	if err != nil {
		t.Fatalf("WeightedAverage: %v", err)
	}
	for _, x := range out {
		if x != 0 || math.IsNaN(float64(x)) {
			t.Fatalf("all-zero weights should yield the zero vector, got %v", out)
		}
	}
}

func TestWeightedAverageMismatch(t *testing.T) {
	if _, err := WeightedAverage([][]float32{{1}}, []float64{1, 2}); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch for weight count, got %v", err)
	}
	if _, err := WeightedAverage([][]float32{{1, 2}, {1}}, []float64{1, 2}); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch for vector dims, got %v", err)
	}
}

func TestWeightedAverage(t *testing.T) {
	out, err := WeightedAverage([][]float32{{1, 0}, {0, 1}}, []float64{3, 1})
	if err != nil {
		t.Fatalf("WeightedAverage: %v", err)
	}
	if math.Abs(float64(out[0])-0.75) > 1e-6 || math.Abs(float64(out[1])-0.25) > 1e-6 {
		t.Fatalf("unexpected weighted average: %v", out)
	}
}
