package constraint

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"
)

// ZoneNodeAnalysis is the node-level congestion ranking for one zone.
type ZoneNodeAnalysis struct {
	Zone string `json:"zone"`

	// Nodes is the full ranked list, severity descending
	Nodes []NodeScore `json:"nodes"`
	// Hotspots is the top subset, with load shapes attached
	Hotspots []NodeScore `json:"hotspots"`

	TierCounts map[Tier]int `json:"tier_counts"`

	// ExtremeThreshold is the zone-wide |congestion| percentile value
	// used for extreme-event counting
	ExtremeThreshold float64 `json:"extreme_threshold"`
}

// NodeAnalyzer scores node-level congestion within a single zone that
// was classified as constrained upstream.
type NodeAnalyzer struct {
	cfg    NodeConfig
	logger *slog.Logger
}

// NewNodeAnalyzer creates a node congestion analyzer with the given parameters
func NewNodeAnalyzer(cfg NodeConfig, logger *slog.Logger) *NodeAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &NodeAnalyzer{cfg: cfg, logger: logger}
}

// Analyze deduplicates co-located generating-unit identifiers onto
// physical buses, computes per-node congestion statistics, normalizes
// them within the zone, and returns the severity ranking. Nodes below
// MinObservations hours are excluded, never defaulted.
func (a *NodeAnalyzer) Analyze(ctx context.Context, zone string, observations []PriceObservation) ZoneNodeAnalysis {
	start := time.Now()
	analysis := ZoneNodeAnalysis{
		Zone:       zone,
		TierCounts: make(map[Tier]int),
	}

	deduped, representative := deduplicate(observations)
	if len(deduped) == 0 {
		a.logger.WarnContext(ctx, "no usable node observations for zone", "zone", zone)
		return analysis
	}

	// Zone-wide extreme threshold over deduplicated rows, computed once
	// before any per-node grouping.
	absCong := make([]float64, len(deduped))
	for i, o := range deduped {
		absCong[i] = math.Abs(o.Congestion)
	}
	sort.Float64s(absCong)
	analysis.ExtremeThreshold = percentileValue(absCong, a.cfg.ExtremePercentile)

	nodeObs := make(map[string][]PriceObservation)
	for _, o := range deduped {
		nodeObs[o.NodeName] = append(nodeObs[o.NodeName], o)
	}

	names := make([]string, 0, len(nodeObs))
	for name, obs := range nodeObs {
		if len(obs) < a.cfg.MinObservations {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) == 0 {
		a.logger.WarnContext(ctx, "no nodes above observation floor",
			"zone", zone,
			"buses", len(nodeObs),
			"required", a.cfg.MinObservations,
		)
		return analysis
	}

	scores := make([]NodeScore, len(names))
	for i, name := range names {
		scores[i] = a.nodeMetrics(name, representative[name], nodeObs[name], analysis.ExtremeThreshold)
	}

	a.applySeverity(scores)

	// Rank severity descending, node name ascending on ties for
	// reproducible ordering
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].SeverityScore != scores[j].SeverityScore {
			return scores[i].SeverityScore > scores[j].SeverityScore
		}
		return scores[i].NodeName < scores[j].NodeName
	})

	for _, s := range scores {
		analysis.TierCounts[s.Tier]++
	}

	analysis.Nodes = scores

	limit := a.cfg.HotspotLimit
	if limit > len(scores) {
		limit = len(scores)
	}
	hotspots := make([]NodeScore, limit)
	copy(hotspots, scores[:limit])
	for i := range hotspots {
		hotspots[i].Shape = BuildLoadShape(nodeObs[hotspots[i].NodeName])
	}
	analysis.Hotspots = hotspots

	a.logger.InfoContext(ctx, "node congestion analysis completed",
		"zone", zone,
		"buses", len(nodeObs),
		"nodes_scored", len(scores),
		"hotspots", len(hotspots),
		"extreme_threshold", analysis.ExtremeThreshold,
		"duration", time.Since(start),
	)

	return analysis
}

// nodeMetrics computes the raw per-node statistics
func (a *NodeAnalyzer) nodeMetrics(name, nodeID string, obs []PriceObservation, extremeThreshold float64) NodeScore {
	n := len(obs)
	congestion := make([]float64, 0, n)
	var peakAbs, offpeakAbs []float64

	congestedHours := 0
	extremeHours := 0
	for _, o := range obs {
		congestion = append(congestion, o.Congestion)
		abs := math.Abs(o.Congestion)
		if abs > a.cfg.CongestionThreshold {
			congestedHours++
		}
		if abs > extremeThreshold {
			extremeHours++
		}
		if a.cfg.PeakHours.Contains(o.Hour) {
			peakAbs = append(peakAbs, abs)
		} else {
			offpeakAbs = append(offpeakAbs, abs)
		}
	}

	magnitude := meanAbs(congestion)

	return NodeScore{
		NodeName:          name,
		NodeID:            nodeID,
		Magnitude:         magnitude,
		Volatility:        capAt(stdDev(congestion)/math.Max(magnitude, epsilonFloor), a.cfg.VolatilityCap),
		CongestedHoursPct: float64(congestedHours) / float64(n),
		PeakOffpeakRatio:  capAt(mean(peakAbs)/math.Max(mean(offpeakAbs), epsilonFloor), a.cfg.RatioCap),
		ExtremeEventHours: extremeHours,
		HourCount:         n,
	}
}

// applySeverity normalizes the 5 metrics within the zone and assigns
// the weighted severity score and tier
func (a *NodeAnalyzer) applySeverity(scores []NodeScore) {
	n := len(scores)
	magnitude := make([]float64, n)
	volatility := make([]float64, n)
	congested := make([]float64, n)
	peakRatio := make([]float64, n)
	extreme := make([]float64, n)
	for i, s := range scores {
		magnitude[i] = s.Magnitude
		volatility[i] = s.Volatility
		congested[i] = s.CongestedHoursPct
		peakRatio[i] = s.PeakOffpeakRatio
		extreme[i] = float64(s.ExtremeEventHours)
	}

	magnitude = minMaxNormalize(magnitude)
	volatility = minMaxNormalize(volatility)
	congested = minMaxNormalize(congested)
	peakRatio = minMaxNormalize(peakRatio)
	extreme = minMaxNormalize(extreme)

	w := a.cfg.Weights
	for i := range scores {
		severity := w.Magnitude*magnitude[i] +
			w.Volatility*volatility[i] +
			w.CongestedHoursPct*congested[i] +
			w.PeakOffpeakRatio*peakRatio[i] +
			w.ExtremeEventHours*extreme[i]

		scores[i].SeverityScore = round4(severity)
		scores[i].Tier = a.cfg.TierCutoffs.TierFor(scores[i].SeverityScore)
	}
}

// deduplicate collapses rows sharing (node name, timestamp) onto one
// representative row per physical bus and hour. Multiple generating-unit
// identifiers can share one bus and therefore identical price data, so
// this must run before any statistic is computed. The representative
// node id per bus is the lexically smallest id seen, keeping output
// stable across input orderings.
func deduplicate(observations []PriceObservation) ([]PriceObservation, map[string]string) {
	sorted := make([]PriceObservation, 0, len(observations))
	for _, o := range observations {
		if o.IsValid() && o.NodeName != "" {
			sorted = append(sorted, o)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].NodeName != sorted[j].NodeName {
			return sorted[i].NodeName < sorted[j].NodeName
		}
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		}
		return sorted[i].NodeID < sorted[j].NodeID
	})

	type busHour struct {
		name string
		ts   time.Time
	}
	seen := make(map[busHour]bool, len(sorted))
	representative := make(map[string]string)

	deduped := make([]PriceObservation, 0, len(sorted))
	for _, o := range sorted {
		if id, ok := representative[o.NodeName]; !ok || o.NodeID < id {
			representative[o.NodeName] = o.NodeID
		}
		key := busHour{name: o.NodeName, ts: o.Timestamp}
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, o)
	}

	return deduped, representative
}
