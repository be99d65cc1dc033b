// Package constraint implements the grid constraint analytics engine:
// it converts decomposed hourly locational price data into zone-level
// constraint classifications, node-level congestion hotspot rankings,
// month-by-hour constraint intensity profiles, and resource-deployment
// recommendations.
//
// # Pipeline
//
// The engine is a pure computation over an already-normalized tabular
// feed; it performs no network I/O and persists no state:
//
//  1. Extractor reduces the hourly feed to one ZoneMetrics row per zone
//     (8 ratio/volatility/percentage metrics, epsilon-floored).
//  2. Classifier min-max normalizes the metrics across the full zone
//     set, computes weighted transmission and generation scores in
//     [0,1], and applies the >=0.5 truth table.
//  3. NodeAnalyzer drills into constrained zones: deduplicates unit
//     identifiers sharing a physical bus, scores each bus against the
//     zone-wide extreme threshold, and tiers the composite severity.
//  4. BuildLoadShape derives each hotspot's normalized 12x24 month-hour
//     congestion fingerprint.
//  5. RecommendationEngine maps each classification to a prioritized
//     resource portfolio.
//
// Analyzer wires the stages together with bounded per-zone parallelism;
// the shared inputs (system average energy series, zone extreme
// threshold) are computed once before the fan-out, and grouping keys are
// sorted so results are reproducible across runs.
//
// Weights, thresholds, and category templates are immutable
// configuration structures passed into each component, so the engine is
// reusable across markets with different conventions.
package constraint
