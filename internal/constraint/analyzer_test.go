package constraint

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testAnalyzerConfig lowers the observation floors so small synthetic
// feeds clear them
func testAnalyzerConfig() AnalyzerConfig {
	cfg := DefaultAnalyzerConfig()
	cfg.Extractor.MinObservations = 4
	cfg.Nodes.MinObservations = 2
	cfg.MaxConcurrency = 2
	return cfg
}

// analyzerFeed builds a two-zone feed where HOT dominates CALM on every
// metric, so HOT classifies as "both" and CALM as unconstrained
func analyzerFeed() []PriceObservation {
	var obs []PriceObservation
	for h := 0; h < 8; h++ {
		congestion := 10.0
		energy := 10.0
		if h%2 == 1 {
			congestion = -10
			energy = 20
		}
		obs = append(obs, hourObs("HOT", h, 20, energy, congestion, 2))
		obs = append(obs, hourObs("CALM", h, 20, 15, 0, 0))
	}
	return obs
}

func hotNodeFeed() []PriceObservation {
	return []PriceObservation{
		nodeObs("BUS1", "U1", 0, 12),
		nodeObs("BUS1", "U1", 1, 8),
		nodeObs("BUS2", "U2", 0, 1),
		nodeObs("BUS2", "U2", 1, 1),
	}
}

type failingSource struct{}

func (failingSource) NodeObservations(context.Context, string) ([]PriceObservation, error) {
	return nil, errors.New("feed unavailable")
}

func TestAnalyzerFullPipeline(t *testing.T) {
	analyzer, err := NewAnalyzer(testAnalyzerConfig(), nil, nil)
	require.NoError(t, err)

	source := StaticNodeSource{"HOT": hotNodeFeed()}

	result, err := analyzer.Analyze(context.Background(), analyzerFeed(), source, nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Zones, 2)

	// Reports are zone ordered
	calm := result.Zones[0]
	hot := result.Zones[1]
	assert.Equal(t, "CALM", calm.Classification.Zone)
	assert.Equal(t, "HOT", hot.Classification.Zone)

	assert.Equal(t, ClassificationUnconstrained, calm.Classification.Classification)
	assert.Equal(t, ClassificationBoth, hot.Classification.Classification)

	// Node drill-down only for the constrained zone
	assert.Nil(t, calm.NodeAnalysis)
	require.NotNil(t, hot.NodeAnalysis)
	assert.Len(t, hot.NodeAnalysis.Nodes, 2)

	// Recommendations follow the classification
	assert.Equal(t, CategoryConsistent, calm.Recommendation.Primary.Category)
	assert.Equal(t, CategoryDispatchable, hot.Recommendation.Primary.Category)
}

func TestAnalyzerWithoutNodeSource(t *testing.T) {
	analyzer, err := NewAnalyzer(testAnalyzerConfig(), nil, nil)
	require.NoError(t, err)

	result, err := analyzer.Analyze(context.Background(), analyzerFeed(), nil, nil)
	require.NoError(t, err)
	require.Len(t, result.Zones, 2)
	for _, zr := range result.Zones {
		assert.Nil(t, zr.NodeAnalysis)
	}
}

func TestAnalyzerNodeFeedFailureDegrades(t *testing.T) {
	analyzer, err := NewAnalyzer(testAnalyzerConfig(), nil, nil)
	require.NoError(t, err)

	// A broken drill-down feed degrades to zone-only reports
	result, err := analyzer.Analyze(context.Background(), analyzerFeed(), failingSource{}, nil)
	require.NoError(t, err)
	require.Len(t, result.Zones, 2)
	for _, zr := range result.Zones {
		assert.Nil(t, zr.NodeAnalysis)
	}
}

func TestAnalyzerEmptyFeed(t *testing.T) {
	analyzer, err := NewAnalyzer(testAnalyzerConfig(), nil, nil)
	require.NoError(t, err)

	result, err := analyzer.Analyze(context.Background(), nil, nil, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.Empty(t, result.Zones)
}

func TestAnalyzerCancellation(t *testing.T) {
	analyzer, err := NewAnalyzer(testAnalyzerConfig(), nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = analyzer.Analyze(ctx, analyzerFeed(), nil, nil)
	assert.Error(t, err)
}

func TestNewAnalyzerRejectsInvalidConfig(t *testing.T) {
	cfg := testAnalyzerConfig()
	cfg.MaxConcurrency = 0

	_, err := NewAnalyzer(cfg, nil, nil)
	assert.Error(t, err)
}
