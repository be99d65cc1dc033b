package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, mean(nil))
	assert.Equal(t, 2.0, mean([]float64{1, 2, 3}))
	assert.Equal(t, -1.5, mean([]float64{-1, -2}))
}

func TestMeanAbs(t *testing.T) {
	assert.Equal(t, 0.0, meanAbs(nil))
	assert.Equal(t, 2.0, meanAbs([]float64{-1, 2, -3}))
}

func TestStdDev(t *testing.T) {
	t.Run("fewer than two values", func(t *testing.T) {
		assert.Equal(t, 0.0, stdDev(nil))
		assert.Equal(t, 0.0, stdDev([]float64{5}))
	})

	t.Run("population form", func(t *testing.T) {
		// mean 5, squared deviations 25+25 -> sqrt(50/2) = 5
		assert.InDelta(t, 5.0, stdDev([]float64{0, 10}), 1e-9)
		// constant series has zero spread
		assert.Equal(t, 0.0, stdDev([]float64{3, 3, 3, 3}))
	})
}

func TestPercentileValue(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	tests := []struct {
		name       string
		percentile float64
		want       float64
	}{
		{"zero returns minimum", 0, 1},
		{"one returns maximum", 1, 10},
		{"median interpolates", 0.5, 5.5},
		{"p95 interpolates between order statistics", 0.95, 9.55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, percentileValue(sorted, tt.percentile), 1e-9)
		})
	}

	assert.Equal(t, 0.0, percentileValue(nil, 0.5))
	assert.Equal(t, 7.0, percentileValue([]float64{7}, 0.5))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, median(nil))
	assert.Equal(t, 2.0, median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 2, 3}))

	// input is not mutated
	values := []float64{3, 1, 2}
	median(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestMinMaxNormalize(t *testing.T) {
	t.Run("scales into unit interval", func(t *testing.T) {
		got := minMaxNormalize([]float64{2, 4, 6})
		assert.InDelta(t, 0.0, got[0], 1e-9)
		assert.InDelta(t, 0.5, got[1], 1e-9)
		assert.InDelta(t, 1.0, got[2], 1e-9)
	})

	t.Run("constant column normalizes to 0.5", func(t *testing.T) {
		got := minMaxNormalize([]float64{7, 7, 7, 7})
		for _, v := range got {
			assert.Equal(t, 0.5, v)
		}
	})

	t.Run("single value normalizes to 0.5", func(t *testing.T) {
		assert.Equal(t, []float64{0.5}, minMaxNormalize([]float64{42}))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, minMaxNormalize(nil))
	})

	t.Run("negative values", func(t *testing.T) {
		got := minMaxNormalize([]float64{-10, 0, 10})
		assert.InDelta(t, 0.0, got[0], 1e-9)
		assert.InDelta(t, 0.5, got[1], 1e-9)
		assert.InDelta(t, 1.0, got[2], 1e-9)
	})
}

func TestCapAt(t *testing.T) {
	assert.Equal(t, 10.0, capAt(500, 10))
	assert.Equal(t, 3.0, capAt(3, 10))
	assert.Equal(t, 10.0, capAt(10, 10))
}

func TestRound4(t *testing.T) {
	assert.InDelta(t, 1.2346, round4(1.23456), 1e-9)
	assert.InDelta(t, 1.2345, round4(1.23454), 1e-9)
	assert.InDelta(t, 1.0, round4(0.99999), 1e-9)
}
