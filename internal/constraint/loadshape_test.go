package constraint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shapeObs(month, hour int, congestion float64) PriceObservation {
	return PriceObservation{
		Timestamp:  time.Date(2025, time.Month(month), 10, hour, 0, 0, 0, time.UTC),
		Zone:       "Z",
		NodeName:   "BUS",
		NodeID:     "U1",
		Congestion: congestion,
		Hour:       hour,
		Month:      month,
	}
}

func TestBuildLoadShape(t *testing.T) {
	obs := []PriceObservation{
		shapeObs(6, 14, 10),
		shapeObs(6, 14, -30), // cell average |c| = 20, the peak
		shapeObs(6, 3, 5),
		shapeObs(1, 14, 10),
	}

	shape := BuildLoadShape(obs)
	require.NotNil(t, shape)

	assert.InDelta(t, 20.0, shape.PeakValue, 1e-9)
	assert.Len(t, shape.Hourly, 12)

	june := shape.Hourly[6]
	require.Len(t, june, 24)
	assert.InDelta(t, 1.0, june[14], 1e-9)
	assert.InDelta(t, 0.25, june[3], 1e-9)

	january := shape.Hourly[1]
	assert.InDelta(t, 0.5, january[14], 1e-9)

	// cells with no observations stay zero
	assert.Equal(t, 0.0, june[0])
	assert.Equal(t, 0.0, shape.Hourly[12][0])
}

func TestBuildLoadShapeUncongested(t *testing.T) {
	obs := []PriceObservation{
		shapeObs(6, 14, 0),
		shapeObs(6, 15, 0),
	}
	assert.Nil(t, BuildLoadShape(obs))
}

func TestBuildLoadShapeEmpty(t *testing.T) {
	assert.Nil(t, BuildLoadShape(nil))
}

func TestBuildLoadShapeSkipsInvalid(t *testing.T) {
	obs := []PriceObservation{
		shapeObs(6, 14, 10),
		{NodeName: "BUS", Congestion: 99}, // zero timestamp, bad month
	}

	shape := BuildLoadShape(obs)
	require.NotNil(t, shape)
	assert.InDelta(t, 10.0, shape.PeakValue, 1e-9)
}
