package constraint

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Feed column names. Matching is case-insensitive.
const (
	colTimestamp  = "timestamp"
	colZone       = "zone"
	colTotal      = "total"
	colEnergy     = "energy"
	colCongestion = "congestion"
	colLoss       = "loss"
	colNodeID     = "node_id"
	colNodeName   = "node_name"
	colHour       = "hour"
	colMonth      = "month"
)

// LoadObservations loads an hourly price-observation feed from a CSV
// file. Required columns: timestamp, zone, total, energy, congestion,
// loss. Optional: node_id, node_name, hour, month (hour and month are
// derived from the timestamp when absent). A feed missing required
// columns yields an empty result with an error log, not a failure;
// individual malformed rows are skipped with a warning.
func LoadObservations(ctx context.Context, csvPath string) ([]PriceObservation, error) {
	logger := slog.Default()

	file, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("open feed file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read feed records: %w", err)
	}
	if len(records) < 2 {
		logger.WarnContext(ctx, "feed contains no data rows", "file", filepath.Base(csvPath))
		return nil, nil
	}

	indices := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		indices[strings.ToLower(strings.TrimSpace(col))] = i
	}

	required := []string{colTimestamp, colZone, colTotal, colEnergy, colCongestion, colLoss}
	for _, col := range required {
		if _, ok := indices[col]; !ok {
			logger.ErrorContext(ctx, "feed missing required column, returning empty result",
				"file", filepath.Base(csvPath),
				"column", col,
			)
			return nil, nil
		}
	}

	var observations []PriceObservation
	for i := 1; i < len(records); i++ {
		obs, err := parseObservation(records[i], indices)
		if err != nil {
			logger.Warn("failed to parse feed record",
				"file", filepath.Base(csvPath),
				"line", i+1,
				"error", err,
			)
			continue
		}
		observations = append(observations, obs)
	}

	logger.InfoContext(ctx, "observation feed loaded",
		"file", filepath.Base(csvPath),
		"rows", len(records)-1,
		"observations", len(observations),
	)

	return observations, nil
}

// parseObservation parses one CSV record into a PriceObservation
func parseObservation(record []string, indices map[string]int) (PriceObservation, error) {
	field := func(col string) string {
		idx, ok := indices[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	ts, err := parseTimestamp(field(colTimestamp))
	if err != nil {
		return PriceObservation{}, fmt.Errorf("parse timestamp: %w", err)
	}

	zone := field(colZone)
	if zone == "" {
		return PriceObservation{}, fmt.Errorf("empty zone")
	}

	obs := PriceObservation{
		Timestamp: ts,
		Zone:      zone,
		NodeID:    field(colNodeID),
		NodeName:  field(colNodeName),
		Hour:      ts.Hour(),
		Month:     int(ts.Month()),
	}

	for col, dst := range map[string]*float64{
		colTotal:      &obs.Total,
		colEnergy:     &obs.Energy,
		colCongestion: &obs.Congestion,
		colLoss:       &obs.Loss,
	} {
		v, err := strconv.ParseFloat(field(col), 64)
		if err != nil {
			return PriceObservation{}, fmt.Errorf("parse %s: %w", col, err)
		}
		*dst = v
	}

	// Explicit hour/month columns win over timestamp-derived values
	if h := field(colHour); h != "" {
		hour, err := strconv.Atoi(h)
		if err != nil {
			return PriceObservation{}, fmt.Errorf("parse hour: %w", err)
		}
		obs.Hour = hour
	}
	if m := field(colMonth); m != "" {
		month, err := strconv.Atoi(m)
		if err != nil {
			return PriceObservation{}, fmt.Errorf("parse month: %w", err)
		}
		obs.Month = month
	}

	if !obs.IsValid() {
		return PriceObservation{}, fmt.Errorf("observation failed validation")
	}
	return obs, nil
}

// parseTimestamp attempts the common feed timestamp layouts
func parseTimestamp(value string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", value)
}

// DirectoryNodeSource serves per-zone node drill-down feeds from CSV
// files named <zone>.csv in a directory. A zone without a file yields
// an empty result, not an error.
type DirectoryNodeSource struct {
	Dir string
}

// NodeObservations implements NodeObservationSource
func (s DirectoryNodeSource) NodeObservations(ctx context.Context, zone string) ([]PriceObservation, error) {
	path := filepath.Join(s.Dir, zone+".csv")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return LoadObservations(ctx, path)
}

// StaticNodeSource serves pre-grouped node observations from memory.
// Useful for callers that already materialized the drill-down feed.
type StaticNodeSource map[string][]PriceObservation

// NodeObservations implements NodeObservationSource
func (s StaticNodeSource) NodeObservations(_ context.Context, zone string) ([]PriceObservation, error) {
	return s[zone], nil
}
