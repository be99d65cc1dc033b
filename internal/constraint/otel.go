package constraint

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// EngineMetrics holds the analysis-engine instrumentation.
type EngineMetrics struct {
	AnalysisRunsTotal    metric.Int64Counter
	AnalysisDuration     metric.Float64Histogram
	ZonesClassifiedTotal metric.Int64Counter
	NodesScoredTotal     metric.Int64Counter
	AnalysisErrors       metric.Int64Counter
}

// NewEngineMetrics creates the engine metric instruments on the given meter
func NewEngineMetrics(meter metric.Meter) (*EngineMetrics, error) {
	runs, err := meter.Int64Counter(
		"constraint_analysis_runs_total",
		metric.WithDescription("Total number of constraint analysis runs"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"constraint_analysis_duration_seconds",
		metric.WithDescription("Constraint analysis run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	zones, err := meter.Int64Counter(
		"constraint_zones_classified_total",
		metric.WithDescription("Total number of zones classified"),
	)
	if err != nil {
		return nil, err
	}

	nodes, err := meter.Int64Counter(
		"constraint_nodes_scored_total",
		metric.WithDescription("Total number of nodes scored"),
	)
	if err != nil {
		return nil, err
	}

	errors, err := meter.Int64Counter(
		"constraint_analysis_errors_total",
		metric.WithDescription("Total number of per-zone analysis errors"),
	)
	if err != nil {
		return nil, err
	}

	return &EngineMetrics{
		AnalysisRunsTotal:    runs,
		AnalysisDuration:     duration,
		ZonesClassifiedTotal: zones,
		NodesScoredTotal:     nodes,
		AnalysisErrors:       errors,
	}, nil
}

// recordRun records run-level metrics; safe on a nil receiver
func (m *EngineMetrics) recordRun(ctx context.Context, runID string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("run.id", runID))
	m.AnalysisRunsTotal.Add(ctx, 1, attrs)
	m.AnalysisDuration.Record(ctx, duration.Seconds(), attrs)
}

// recordZone records one classified zone; safe on a nil receiver
func (m *EngineMetrics) recordZone(ctx context.Context, classification Classification) {
	if m == nil {
		return
	}
	m.ZonesClassifiedTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("classification", classification.String())))
}

// recordNodes records scored node counts for a zone; safe on a nil receiver
func (m *EngineMetrics) recordNodes(ctx context.Context, zone string, count int) {
	if m == nil {
		return
	}
	m.NodesScoredTotal.Add(ctx, int64(count),
		metric.WithAttributes(attribute.String("zone", zone)))
}

// recordError records a per-zone analysis error; safe on a nil receiver
func (m *EngineMetrics) recordError(ctx context.Context, zone string) {
	if m == nil {
		return
	}
	m.AnalysisErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("zone", zone)))
}
