package constraint

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// WriteZoneReport persists the per-zone classification and
// recommendation summary as CSV.
func WriteZoneReport(result *AnalysisResult, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create zone report: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{"Grid Constraint Zone Report"})
	writer.Write([]string{"Run:", result.RunID})
	writer.Write([]string{"Generated:", result.GeneratedAt.Format("2006-01-02 15:04:05")})
	writer.Write([]string{""})

	writer.Write([]string{
		"Zone", "Classification", "Transmission_Score", "Generation_Score",
		"Hours", "Congested_Hours_Pct", "Congestion_Value_Per_MWh",
		"Annual_Constrained_Hours", "Primary_Category", "Primary_Assets",
	})

	for _, zr := range result.Zones {
		zc := zr.Classification
		rec := zr.Recommendation
		writer.Write([]string{
			zc.Zone,
			zc.Classification.String(),
			fmt.Sprintf("%.4f", zc.TransmissionScore),
			fmt.Sprintf("%.4f", zc.GenerationScore),
			strconv.Itoa(zc.Metrics.HourCount),
			fmt.Sprintf("%.4f", zc.Metrics.CongestedHoursPct),
			fmt.Sprintf("%.2f", rec.CongestionValuePerMWh),
			fmt.Sprintf("%.0f", rec.AnnualConstrainedHours),
			rec.Primary.Category.String(),
			strings.Join(rec.Primary.Assets, "; "),
		})
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("write zone report: %w", err)
	}
	return nil
}

// WriteHotspotReport persists node hotspot rankings for every zone with
// node analysis, one file per zone, plus the tier distribution.
func WriteHotspotReport(result *AnalysisResult, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	for _, zr := range result.Zones {
		if zr.NodeAnalysis == nil {
			continue
		}
		path := filepath.Join(outputDir, fmt.Sprintf("hotspots_%s.csv", zr.Classification.Zone))
		if err := writeZoneHotspots(zr.Classification.Zone, zr.NodeAnalysis, path); err != nil {
			return err
		}
	}
	return nil
}

// writeZoneHotspots writes one zone's node ranking CSV
func writeZoneHotspots(zone string, analysis *ZoneNodeAnalysis, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create hotspot report for %s: %w", zone, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{"Congestion Hotspots", zone})
	writer.Write([]string{"Extreme_Threshold:", fmt.Sprintf("%.4f", analysis.ExtremeThreshold)})
	writer.Write([]string{
		"Tier_Distribution:",
		fmt.Sprintf("critical=%d", analysis.TierCounts[TierCritical]),
		fmt.Sprintf("elevated=%d", analysis.TierCounts[TierElevated]),
		fmt.Sprintf("moderate=%d", analysis.TierCounts[TierModerate]),
		fmt.Sprintf("low=%d", analysis.TierCounts[TierLow]),
	})
	writer.Write([]string{""})

	writer.Write([]string{
		"Rank", "Node", "Node_ID", "Severity", "Tier",
		"Magnitude", "Volatility", "Congested_Hours_Pct",
		"Peak_Offpeak_Ratio", "Extreme_Event_Hours", "Hours", "Shape_Peak",
	})

	shapes := make(map[string]*LoadShape, len(analysis.Hotspots))
	for _, h := range analysis.Hotspots {
		shapes[h.NodeName] = h.Shape
	}

	for rank, node := range analysis.Nodes {
		shapePeak := ""
		if shape := shapes[node.NodeName]; shape != nil {
			shapePeak = fmt.Sprintf("%.4f", shape.PeakValue)
		}
		writer.Write([]string{
			strconv.Itoa(rank + 1),
			node.NodeName,
			node.NodeID,
			fmt.Sprintf("%.4f", node.SeverityScore),
			node.Tier.String(),
			fmt.Sprintf("%.4f", node.Magnitude),
			fmt.Sprintf("%.4f", node.Volatility),
			fmt.Sprintf("%.4f", node.CongestedHoursPct),
			fmt.Sprintf("%.4f", node.PeakOffpeakRatio),
			strconv.Itoa(node.ExtremeEventHours),
			strconv.Itoa(node.HourCount),
			shapePeak,
		})
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("write hotspot report for %s: %w", zone, err)
	}
	return nil
}
