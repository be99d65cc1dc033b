package constraint

import (
	"math"
	"sort"
)

// mean computes the arithmetic mean; empty input returns 0
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// meanAbs computes the mean of absolute values; empty input returns 0
func meanAbs(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += math.Abs(v)
	}
	return sum / float64(len(values))
}

// stdDev computes the population standard deviation (divide by n),
// matching full-group aggregation semantics
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sumSquared := 0.0
	for _, v := range values {
		d := v - m
		sumSquared += d * d
	}
	return math.Sqrt(sumSquared / float64(len(values)))
}

// percentileValue returns the value at the given percentile (0..1) of a
// sorted slice, with linear interpolation between order statistics
func percentileValue(sorted []float64, percentile float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if percentile <= 0 {
		return sorted[0]
	}
	if percentile >= 1 {
		return sorted[n-1]
	}

	index := percentile * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// median computes the median of a slice without mutating it
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return percentileValue(sorted, 0.5)
}

// minMaxNormalize scales each value into [0,1] by the column's min and
// max. A constant column normalizes every row to exactly 0.5; this is a
// defined edge case, not an error.
func minMaxNormalize(values []float64) []float64 {
	n := len(values)
	if n == 0 {
		return nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	result := make([]float64, n)
	if hi == lo {
		for i := range result {
			result[i] = 0.5
		}
		return result
	}

	span := hi - lo
	for i, v := range values {
		result[i] = (v - lo) / span
	}
	return result
}

// capAt bounds a ratio at the given limit
func capAt(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}

// round4 rounds to 4 decimal places
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
