package economics

import (
	"time"
)

// PeriodType identifies the aggregation period of a score.
type PeriodType string

const (
	PeriodMonth PeriodType = "month"
	PeriodYear  PeriodType = "year"
)

// DataQuality flags how complete the hourly series was.
type DataQuality string

const (
	// QualityGood means at least GoodHours hours were present
	QualityGood DataQuality = "good"
	// QualityPartial means at least PartialHours hours were present
	QualityPartial DataQuality = "partial"
	// QualitySparse means fewer hours were present
	QualitySparse DataQuality = "sparse"
	// QualityNoTransferLimit means the transfer limit was missing or
	// non-positive; all other fields are zero/null, not an error
	QualityNoTransferLimit DataQuality = "no_transfer_limit"
)

// LMPCoverage flags how much of the period matched the interface price
// series.
type LMPCoverage string

const (
	CoverageFull    LMPCoverage = "full"
	CoveragePartial LMPCoverage = "partial"
	CoverageSparse  LMPCoverage = "sparse"
)

// HourlyOperation is one hour of a balancing area's operational series.
type HourlyOperation struct {
	Timestamp        time.Time `json:"timestamp"`
	Demand           float64   `json:"demand"`
	NetGeneration    float64   `json:"net_generation"`
	TotalInterchange float64   `json:"total_interchange"`
}

// NetImports is the import level implied by interchange (imports are
// negative interchange by convention)
func (h HourlyOperation) NetImports() float64 {
	return -h.TotalInterchange
}

// PricePoint is one hour of a price series ($/MWh).
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// CongestionPeriodScore is the import-congestion economics result for
// one balancing area and period.
type CongestionPeriodScore struct {
	BalancingArea string     `json:"balancing_area"`
	PeriodStart   time.Time  `json:"period_start"`
	PeriodEnd     time.Time  `json:"period_end"`
	PeriodType    PeriodType `json:"period_type"`

	TransferLimit float64 `json:"transfer_limit"`
	TotalHours    int     `json:"total_hours"`

	HoursImporting    int     `json:"hours_importing"`
	PctHoursImporting float64 `json:"pct_hours_importing"`

	// Strictly-greater-than threshold counts on utilization
	HoursAbove80 int `json:"hours_above_80"`
	HoursAbove90 int `json:"hours_above_90"`
	HoursAbove95 int `json:"hours_above_95"`

	// Import share of load over importing hours; nil when demand was
	// zero or missing for every importing hour
	AvgImportPctOfLoad *float64 `json:"avg_import_pct_of_load"`
	MaxImportPctOfLoad *float64 `json:"max_import_pct_of_load"`

	// MaxUtilization is unclipped; values above 1.0 represent stress
	// beyond the estimated limit
	MaxUtilization float64 `json:"max_utilization"`

	// DurationCurve holds utilization sorted descending, one entry per
	// observed hour, unclipped
	DurationCurve []float64 `json:"duration_curve"`

	// Economic metrics, present only when an interface price series was
	// supplied
	LMPCoverage          LMPCoverage `json:"lmp_coverage,omitempty"`
	AvgCongestionPremium *float64    `json:"avg_congestion_premium"`
	OpportunityScore     *float64    `json:"congestion_opportunity_score"`

	DataQuality DataQuality `json:"data_quality"`
}

// Config parameterizes the economics calculator.
type Config struct {
	// Utilization thresholds for stress-hour counting (strict >)
	HighUtilization     float64 `json:"high_utilization"`
	SevereUtilization   float64 `json:"severe_utilization"`
	CriticalUtilization float64 `json:"critical_utilization"`

	// Hour-count floors for the data quality flag
	GoodHours    int `json:"good_hours"`
	PartialHours int `json:"partial_hours"`

	// Matched-hour fractions for the coverage flag
	FullCoverage    float64 `json:"full_coverage"`
	PartialCoverage float64 `json:"partial_coverage"`

	// OpportunityDivisor converts $/MWh-hours into $/kW
	OpportunityDivisor float64 `json:"opportunity_divisor"`
}

// DefaultConfig returns the standard calculator parameters
func DefaultConfig() Config {
	return Config{
		HighUtilization:     0.80,
		SevereUtilization:   0.90,
		CriticalUtilization: 0.95,
		GoodHours:           8000,
		PartialHours:        6000,
		FullCoverage:        0.90,
		PartialCoverage:     0.50,
		OpportunityDivisor:  1000,
	}
}

// IsValid checks if calculator parameters are usable
func (c Config) IsValid() bool {
	return c.HighUtilization > 0 && c.SevereUtilization > c.HighUtilization &&
		c.CriticalUtilization > c.SevereUtilization && c.CriticalUtilization < 2 &&
		c.GoodHours > c.PartialHours && c.PartialHours > 0 &&
		c.FullCoverage > c.PartialCoverage && c.PartialCoverage > 0 &&
		c.OpportunityDivisor > 0
}
