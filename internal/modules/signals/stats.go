package signals

import (
	"math"
)

const (
	// Prior for Bayesian shrinkage on a 1-5 rating scale.
	PriorMean     = 3.5
	PriorStrength = 10.0

	wilsonZ = 1.959963984540054 // 95% two-sided
)

// sourceWeights holds per-source reliability multipliers applied to rating
// counts before blending. Unlisted sources count at face value.
var sourceWeights = map[string]float64{
	"openlibrary": 1.0,
	"goodreads":   1.0,
	"storygraph":  1.0,
}

func SourceWeight(source string) float64 {
	if w, ok := sourceWeights[source]; ok {
		return w
	}
	return 1.0
}

// BayesianAverage pulls a raw average toward the prior mean, weighted by
// how many observations back it. At count 0 it is exactly the prior; as
// count grows it converges on the raw average.
func BayesianAverage(rawAvg, count float64) float64 {
	if count < 0 {
		count = 0
	}
	return (PriorStrength*PriorMean + count*rawAvg) / (PriorStrength + count)
}

// WilsonLowerBound is the 95% lower confidence bound on a Bernoulli
// proportion. Conservative for small n: it penalizes thin samples harder
// than the raw proportion does.
func WilsonLowerBound(positivity float64, n float64) float64 {
	if n <= 0 {
		return 0
	}
	if positivity < 0 {
		positivity = 0
	}
	if positivity > 1 {
		positivity = 1
	}
	z := wilsonZ
	z2 := z * z
	denom := 1 + z2/n
	center := positivity + z2/(2*n)
	margin := z * math.Sqrt((positivity*(1-positivity)+z2/(4*n))/n)
	lb := (center - margin) / denom
	if lb < 0 {
		return 0
	}
	return lb
}

// Positivity maps a 1-5 average onto [0,1].
func Positivity(avg float64) float64 {
	p := (avg - 1) / 4
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// BlendRatings collapses per-source (avg, count) rows into one calibrated
// pair. Counts are scaled by source reliability before averaging.
func BlendRatings(rows []RatingInput) (blendedAvg, blendedWilson float64, totalCount int) {
	var weightedSum, weightedCount float64
	for _, row := range rows {
		if row.Count <= 0 {
			continue
		}
		w := float64(row.Count) * SourceWeight(row.Source)
		weightedSum += row.Avg * w
		weightedCount += w
		totalCount += row.Count
	}
	if weightedCount == 0 {
		return 0, 0, 0
	}
	rawAvg := weightedSum / weightedCount
	blendedAvg = BayesianAverage(rawAvg, weightedCount)
	blendedWilson = WilsonLowerBound(Positivity(blendedAvg), float64(totalCount))
	return blendedAvg, blendedWilson, totalCount
}

// RatingInput is one source's aggregate for a single work.
type RatingInput struct {
	Source string
	Avg    float64
	Count  int
}
