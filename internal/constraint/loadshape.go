package constraint

import (
	"math"
)

// BuildLoadShape derives a node's month-by-hour congestion-intensity
// fingerprint from its deduplicated observations. |congestion| is
// averaged per (month, hour) cell and the 12x24 matrix is normalized by
// the node's own maximum. Returns nil for effectively uncongested nodes
// (matrix maximum below the floor).
func BuildLoadShape(observations []PriceObservation) *LoadShape {
	var sums, counts [12][24]float64
	for _, o := range observations {
		if !o.IsValid() {
			continue
		}
		m, h := o.Month-1, o.Hour
		sums[m][h] += math.Abs(o.Congestion)
		counts[m][h]++
	}

	var matrix [12][24]float64
	peak := 0.0
	for m := 0; m < 12; m++ {
		for h := 0; h < 24; h++ {
			if counts[m][h] > 0 {
				matrix[m][h] = sums[m][h] / counts[m][h]
				if matrix[m][h] > peak {
					peak = matrix[m][h]
				}
			}
		}
	}

	if peak < loadShapeFloor {
		return nil
	}

	hourly := make(map[int][]float64, 12)
	for m := 0; m < 12; m++ {
		row := make([]float64, 24)
		for h := 0; h < 24; h++ {
			row[h] = matrix[m][h] / peak
		}
		hourly[m+1] = row
	}

	return &LoadShape{Hourly: hourly, PeakValue: peak}
}
