package signals

import (
	"math"
	"testing"
)

func TestBayesianAverageBoundaries(t *testing.T) {
	if got := BayesianAverage(4.2, 0); got != PriorMean {
		t.Fatalf("count=0 should equal prior mean, got %v", got)
	}
	got := BayesianAverage(4.2, 1e9)
	if math.Abs(got-4.2) > 1e-6 {
		t.Fatalf("large count should converge on raw avg, got %v", got)
	}
}

func TestBayesianAverageBlendScenario(t *testing.T) {
	// 50 ratings at 4.0 against a prior of 3.5 with strength 10.
	got := BayesianAverage(4.0, 50)
	want := (PriorStrength*PriorMean + 50*4.0) / (PriorStrength + 50)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("got %v want %v", got, want)
	}
	if got <= PriorMean || got >= 4.0 {
		t.Fatalf("blend must land strictly between prior and raw avg, got %v", got)
	}
}

func TestWilsonMonotonicInCount(t *testing.T) {
	prev := WilsonLowerBound(0.65, 10)
	for _, n := range []float64{25, 50, 100, 500, 5000} {
		cur := WilsonLowerBound(0.65, n)
		if cur <= prev {
			t.Fatalf("wilson bound should increase with n: n=%v gave %v after %v", n, cur, prev)
		}
		prev = cur
	}
}

func TestWilsonBelowRatio(t *testing.T) {
	p := 0.6458
	lb := WilsonLowerBound(p, 50)
	if lb >= p {
		t.Fatalf("lower bound %v must be strictly below ratio %v", lb, p)
	}
	if lb <= 0 {
		t.Fatalf("lower bound should be positive at n=50, got %v", lb)
	}
}

func TestWilsonZeroSample(t *testing.T) {
	if got := WilsonLowerBound(0.9, 0); got != 0 {
		t.Fatalf("n=0 should yield 0, got %v", got)
	}
}

func TestPositivityClamped(t *testing.T) {
	if got := Positivity(5); got != 1 {
		t.Fatalf("avg 5 -> 1, got %v", got)
	}
	if got := Positivity(1); got != 0 {
		t.Fatalf("avg 1 -> 0, got %v", got)
	}
	if got := Positivity(0.5); got != 0 {
		t.Fatalf("below-scale avg should clamp to 0, got %v", got)
	}
	if got := Positivity(3.583); math.Abs(got-0.64575) > 1e-9 {
		t.Fatalf("got %v", got)
	}
}

func TestBlendRatingsSkipsEmptySources(t *testing.T) {
	avg, wilson, total := BlendRatings([]RatingInput{
		{Source: "openlibrary", Avg: 4.0, Count: 50},
		{Source: "goodreads", Avg: 2.0, Count: 0},
	})
	if total != 50 {
		t.Fatalf("zero-count rows must not contribute, total=%d", total)
	}
	want := BayesianAverage(4.0, 50)
	if math.Abs(avg-want) > 1e-12 {
		t.Fatalf("avg %v want %v", avg, want)
	}
	if wilson <= 0 || wilson >= Positivity(avg) {
		t.Fatalf("wilson %v out of range for avg %v", wilson, avg)
	}
}

func TestBlendRatingsNoData(t *testing.T) {
	avg, wilson, total := BlendRatings(nil)
	if avg != 0 || wilson != 0 || total != 0 {
		t.Fatalf("empty input should yield zeros, got %v %v %d", avg, wilson, total)
	}
}
