package economics

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

// LoadOperations loads a balancing area's hourly operational series
// from a CSV file. Required columns: timestamp, demand, net_generation,
// total_interchange. Missing required columns yield an empty result
// with an error log; malformed rows are skipped with a warning.
func LoadOperations(ctx context.Context, csvPath string) ([]HourlyOperation, error) {
	logger := slog.Default()

	records, err := readCSV(csvPath)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		logger.WarnContext(ctx, "operations feed contains no data rows", "file", filepath.Base(csvPath))
		return nil, nil
	}

	indices := headerIndex(records[0])
	for _, col := range []string{"timestamp", "demand", "net_generation", "total_interchange"} {
		if _, ok := indices[col]; !ok {
			logger.ErrorContext(ctx, "operations feed missing required column, returning empty result",
				"file", filepath.Base(csvPath),
				"column", col,
			)
			return nil, nil
		}
	}

	var ops []HourlyOperation
	for i := 1; i < len(records); i++ {
		op, err := parseOperation(records[i], indices)
		if err != nil {
			logger.Warn("failed to parse operations record",
				"file", filepath.Base(csvPath),
				"line", i+1,
				"error", err,
			)
			continue
		}
		ops = append(ops, op)
	}

	logger.InfoContext(ctx, "operations feed loaded",
		"file", filepath.Base(csvPath),
		"hours", len(ops),
	)
	return ops, nil
}

// LoadPriceSeries loads an hourly price series from a CSV file with
// timestamp and price columns.
func LoadPriceSeries(ctx context.Context, csvPath string) ([]PricePoint, error) {
	logger := slog.Default()

	records, err := readCSV(csvPath)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}

	indices := headerIndex(records[0])
	for _, col := range []string{"timestamp", "price"} {
		if _, ok := indices[col]; !ok {
			logger.ErrorContext(ctx, "price series missing required column, returning empty result",
				"file", filepath.Base(csvPath),
				"column", col,
			)
			return nil, nil
		}
	}

	var series []PricePoint
	for i := 1; i < len(records); i++ {
		record := records[i]
		ts, err := parseTimestamp(strings.TrimSpace(record[indices["timestamp"]]))
		if err != nil {
			logger.Warn("failed to parse price record", "line", i+1, "error", err)
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(record[indices["price"]]), 64)
		if err != nil {
			logger.Warn("failed to parse price record", "line", i+1, "error", err)
			continue
		}
		series = append(series, PricePoint{Timestamp: ts, Price: price})
	}
	return series, nil
}

// parseOperation parses one CSV record into an HourlyOperation
func parseOperation(record []string, indices map[string]int) (HourlyOperation, error) {
	field := func(col string) string {
		idx, ok := indices[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	ts, err := parseTimestamp(field("timestamp"))
	if err != nil {
		return HourlyOperation{}, fmt.Errorf("parse timestamp: %w", err)
	}

	op := HourlyOperation{Timestamp: ts}
	for col, dst := range map[string]*float64{
		"demand":            &op.Demand,
		"net_generation":    &op.NetGeneration,
		"total_interchange": &op.TotalInterchange,
	} {
		v, err := strconv.ParseFloat(field(col), 64)
		if err != nil {
			return HourlyOperation{}, fmt.Errorf("parse %s: %w", col, err)
		}
		*dst = v
	}
	return op, nil
}

// readCSV reads all records from a CSV file
func readCSV(csvPath string) ([][]string, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("open feed file: %w", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read feed records: %w", err)
	}
	return records, nil
}

// headerIndex maps lowercased column names to positions
func headerIndex(header []string) map[string]int {
	indices := make(map[string]int, len(header))
	for i, col := range header {
		indices[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return indices
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
