package constraint

import (
	"time"
)

// Classification is the constraint category assigned to a zone.
type Classification int

const (
	// ClassificationUnconstrained indicates neither composite score reached the threshold
	ClassificationUnconstrained Classification = iota
	// ClassificationTransmission indicates congestion-driven constraint
	ClassificationTransmission
	// ClassificationGeneration indicates energy-supply-driven constraint
	ClassificationGeneration
	// ClassificationBoth indicates both scores reached the threshold
	ClassificationBoth
)

// String returns the string representation of the classification
func (c Classification) String() string {
	switch c {
	case ClassificationTransmission:
		return "transmission"
	case ClassificationGeneration:
		return "generation"
	case ClassificationBoth:
		return "both"
	case ClassificationUnconstrained:
		return "unconstrained"
	default:
		return "unknown"
	}
}

// Constrained reports whether the zone warrants node-level drill-down
func (c Classification) Constrained() bool {
	return c == ClassificationTransmission || c == ClassificationGeneration || c == ClassificationBoth
}

// Tier is the severity bucket assigned to a node's composite score.
type Tier int

const (
	TierLow Tier = iota
	TierModerate
	TierElevated
	TierCritical
)

// String returns the string representation of the tier
func (t Tier) String() string {
	switch t {
	case TierCritical:
		return "critical"
	case TierElevated:
		return "elevated"
	case TierModerate:
		return "moderate"
	case TierLow:
		return "low"
	default:
		return "unknown"
	}
}

// PriceObservation is one hourly decomposed locational price record.
// Zone-level feeds populate Zone only; node-level feeds additionally
// carry NodeID and NodeName (multiple unit-level NodeIDs may share one
// NodeName, i.e. one physical bus).
type PriceObservation struct {
	Timestamp  time.Time `json:"timestamp"`
	Zone       string    `json:"zone"`
	NodeID     string    `json:"node_id,omitempty"`
	NodeName   string    `json:"node_name,omitempty"`
	Total      float64   `json:"total"`
	Energy     float64   `json:"energy"`
	Congestion float64   `json:"congestion"`
	Loss       float64   `json:"loss"`
	Hour       int       `json:"hour"`
	Month      int       `json:"month"`
}

// IsValid checks if the observation carries usable keys and calendar fields
func (o PriceObservation) IsValid() bool {
	return !o.Timestamp.IsZero() && o.Zone != "" &&
		o.Hour >= 0 && o.Hour <= 23 && o.Month >= 1 && o.Month <= 12
}

// ZoneMetrics contains the raw (pre-normalization) statistics for one zone.
type ZoneMetrics struct {
	Zone string `json:"zone"`

	// Transmission-side metrics
	CongestionRatio      float64 `json:"congestion_ratio"`
	CongestionVolatility float64 `json:"congestion_volatility"`
	CongestedHoursPct    float64 `json:"congested_hours_pct"`
	PeakOffpeakRatio     float64 `json:"peak_offpeak_ratio"`

	// Generation-side metrics
	EnergyDeviation  float64 `json:"energy_deviation"`
	EnergyVolatility float64 `json:"energy_volatility"`
	LossRatio        float64 `json:"loss_ratio"`
	HighEnergyPct    float64 `json:"high_energy_pct"`

	// Supporting raw statistics
	HourCount         int     `json:"hour_count"`
	MeanAbsCongestion float64 `json:"mean_abs_congestion"`
}

// ZoneClassification is the classifier's decision output for one zone.
// Both composite scores lie in [0,1].
type ZoneClassification struct {
	Zone              string         `json:"zone"`
	TransmissionScore float64        `json:"transmission_score"`
	GenerationScore   float64        `json:"generation_score"`
	Classification    Classification `json:"classification"`
	Metrics           ZoneMetrics    `json:"metrics"`
}

// NodeScore is the severity ranking for one physical bus within a zone.
type NodeScore struct {
	NodeName string `json:"node_name"` // dedup key (physical bus)
	NodeID   string `json:"node_id"`   // representative pricing-point id

	SeverityScore float64 `json:"severity_score"`
	Tier          Tier    `json:"tier"`

	// Raw per-node statistics
	Magnitude         float64 `json:"magnitude"`
	Volatility        float64 `json:"volatility"`
	CongestedHoursPct float64 `json:"congested_hours_pct"`
	PeakOffpeakRatio  float64 `json:"peak_offpeak_ratio"`
	ExtremeEventHours int     `json:"extreme_event_hours"`
	HourCount         int     `json:"hour_count"`

	// Shape is attached to hotspot entries only
	Shape *LoadShape `json:"shape,omitempty"`
}

// LoadShape is a node's month-by-hour congestion-intensity fingerprint.
// Hourly maps month (1..12) to 24 values normalized to [0,1] by the
// node's own maximum; PeakValue is the unnormalized maximum in $/MWh.
type LoadShape struct {
	Hourly    map[int][]float64 `json:"hourly"`
	PeakValue float64           `json:"peak_value"`
}

// EACCategory is an energy-asset-class category used in recommendations.
type EACCategory int

const (
	CategoryVariable EACCategory = iota
	CategoryConsistent
	CategoryDispatchable
)

// String returns the string representation of the category
func (c EACCategory) String() string {
	switch c {
	case CategoryVariable:
		return "variable"
	case CategoryConsistent:
		return "consistent"
	case CategoryDispatchable:
		return "dispatchable"
	default:
		return "unknown"
	}
}

// ResourceBlock names one prioritized resource category with concrete assets.
type ResourceBlock struct {
	Category EACCategory `json:"category"`
	Reason   string      `json:"reason"`
	Assets   []string    `json:"assets"`
}

// Recommendation is the DER guidance derived from a zone classification.
type Recommendation struct {
	Zone           string         `json:"zone"`
	Classification Classification `json:"classification"`
	Rationale      string         `json:"rationale"`

	Primary   ResourceBlock  `json:"primary"`
	Secondary ResourceBlock  `json:"secondary"`
	Tertiary  *ResourceBlock `json:"tertiary,omitempty"`

	// Derived from zone metrics, no new statistics
	AnnualConstrainedHours float64 `json:"annual_constrained_hours"`
	CongestionValuePerMWh  float64 `json:"congestion_value_per_mwh"`
}

// PeakHours is the set of hours-of-day treated as on-peak.
type PeakHours [24]bool

// DefaultPeakHours returns the default peak-hour set, hours 7-22 inclusive
func DefaultPeakHours() PeakHours {
	return NewPeakHours(7, 22)
}

// NewPeakHours builds a contiguous peak-hour set covering start..end inclusive
func NewPeakHours(start, end int) PeakHours {
	var p PeakHours
	for h := start; h <= end && h >= 0 && h <= 23; h++ {
		p[h] = true
	}
	return p
}

// Contains reports whether the given hour-of-day is on-peak
func (p PeakHours) Contains(hour int) bool {
	return hour >= 0 && hour <= 23 && p[hour]
}

// Count returns the number of on-peak hours
func (p PeakHours) Count() int {
	n := 0
	for _, on := range p {
		if on {
			n++
		}
	}
	return n
}

// IsValid checks that the set is neither empty nor the full day
func (p PeakHours) IsValid() bool {
	n := p.Count()
	return n > 0 && n < 24
}

// Constants for default thresholds
const (
	// epsilonFloor prevents division by zero in ratio metrics
	epsilonFloor = 0.01

	// DefaultMinZoneObservations is the minimum hour count for a zone to be scored
	DefaultMinZoneObservations = 100
	// DefaultMinNodeObservations is the minimum hour count for a node to be scored
	DefaultMinNodeObservations = 24

	// DefaultCongestionThreshold is the |congestion| level counting as a congested hour ($/MWh)
	DefaultCongestionThreshold = 2.0
	// DefaultHighEnergyOffset is the margin over mean energy counting as a high-energy hour ($/MWh)
	DefaultHighEnergyOffset = 3.0

	// DefaultZoneCap bounds zone-level volatility and peak/off-peak ratios
	DefaultZoneCap = 10.0
	// DefaultNodeCap bounds node-level volatility and peak/off-peak ratios
	DefaultNodeCap = 20.0

	// DefaultExtremePercentile is the zone-wide |congestion| percentile defining extreme events
	DefaultExtremePercentile = 0.95

	// DefaultHotspotLimit caps the hotspot subset size
	DefaultHotspotLimit = 10

	// loadShapeFloor is the matrix maximum below which a node is treated as uncongested
	loadShapeFloor = 1e-6
)

// ExtractorConfig parameterizes the zone metrics extractor.
type ExtractorConfig struct {
	PeakHours           PeakHours `json:"peak_hours"`
	ExcludedZones       []string  `json:"excluded_zones"` // regional aggregates, not physical zones
	MinObservations     int       `json:"min_observations"`
	CongestionThreshold float64   `json:"congestion_threshold"`
	HighEnergyOffset    float64   `json:"high_energy_offset"`
	VolatilityCap       float64   `json:"volatility_cap"`
	RatioCap            float64   `json:"ratio_cap"`
}

// DefaultExtractorConfig returns the standard extractor parameters
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		PeakHours:           DefaultPeakHours(),
		MinObservations:     DefaultMinZoneObservations,
		CongestionThreshold: DefaultCongestionThreshold,
		HighEnergyOffset:    DefaultHighEnergyOffset,
		VolatilityCap:       DefaultZoneCap,
		RatioCap:            DefaultZoneCap,
	}
}

// IsValid checks if extractor parameters are usable
func (c ExtractorConfig) IsValid() bool {
	return c.PeakHours.IsValid() && c.MinObservations > 0 &&
		c.CongestionThreshold > 0 && c.HighEnergyOffset > 0 &&
		c.VolatilityCap > 1 && c.RatioCap > 1
}

// ClassifierWeights are the composite-score weights over the normalized
// zone metrics. Each side must sum to 1.
type ClassifierWeights struct {
	// Transmission score components
	CongestionRatio      float64 `json:"congestion_ratio"`
	CongestionVolatility float64 `json:"congestion_volatility"`
	CongestedHoursPct    float64 `json:"congested_hours_pct"`
	PeakOffpeakRatio     float64 `json:"peak_offpeak_ratio"`

	// Generation score components
	EnergyDeviation  float64 `json:"energy_deviation"`
	EnergyVolatility float64 `json:"energy_volatility"`
	LossRatio        float64 `json:"loss_ratio"`
	HighEnergyPct    float64 `json:"high_energy_pct"`
}

// DefaultClassifierWeights returns the standard score weights
func DefaultClassifierWeights() ClassifierWeights {
	return ClassifierWeights{
		CongestionRatio:      0.30,
		CongestionVolatility: 0.25,
		CongestedHoursPct:    0.25,
		PeakOffpeakRatio:     0.20,

		EnergyDeviation:  0.35,
		EnergyVolatility: 0.30,
		LossRatio:        0.20,
		HighEnergyPct:    0.15,
	}
}

// IsValid checks that each score's weights sum to 1 (allowing small
// floating point error)
func (w ClassifierWeights) IsValid() bool {
	t := w.CongestionRatio + w.CongestionVolatility + w.CongestedHoursPct + w.PeakOffpeakRatio
	g := w.EnergyDeviation + w.EnergyVolatility + w.LossRatio + w.HighEnergyPct
	return w.CongestionRatio >= 0 && w.CongestionVolatility >= 0 &&
		w.CongestedHoursPct >= 0 && w.PeakOffpeakRatio >= 0 &&
		w.EnergyDeviation >= 0 && w.EnergyVolatility >= 0 &&
		w.LossRatio >= 0 && w.HighEnergyPct >= 0 &&
		t > 0.99 && t < 1.01 && g > 0.99 && g < 1.01
}

// ClassifierConfig parameterizes the zone classifier.
type ClassifierConfig struct {
	Weights        ClassifierWeights `json:"weights"`
	ScoreThreshold float64           `json:"score_threshold"`
}

// DefaultClassifierConfig returns the standard classifier parameters
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Weights:        DefaultClassifierWeights(),
		ScoreThreshold: 0.5,
	}
}

// IsValid checks if classifier parameters are usable
func (c ClassifierConfig) IsValid() bool {
	return c.Weights.IsValid() && c.ScoreThreshold > 0 && c.ScoreThreshold < 1
}

// NodeWeights are the severity-score weights over the normalized node metrics.
type NodeWeights struct {
	Magnitude         float64 `json:"magnitude"`
	Volatility        float64 `json:"volatility"`
	CongestedHoursPct float64 `json:"congested_hours_pct"`
	PeakOffpeakRatio  float64 `json:"peak_offpeak_ratio"`
	ExtremeEventHours float64 `json:"extreme_event_hours"`
}

// DefaultNodeWeights returns the standard severity weights
func DefaultNodeWeights() NodeWeights {
	return NodeWeights{
		Magnitude:         0.30,
		Volatility:        0.20,
		CongestedHoursPct: 0.25,
		PeakOffpeakRatio:  0.15,
		ExtremeEventHours: 0.10,
	}
}

// IsValid checks that the weights sum to 1 (allowing small floating point error)
func (w NodeWeights) IsValid() bool {
	sum := w.Magnitude + w.Volatility + w.CongestedHoursPct + w.PeakOffpeakRatio + w.ExtremeEventHours
	return w.Magnitude >= 0 && w.Volatility >= 0 && w.CongestedHoursPct >= 0 &&
		w.PeakOffpeakRatio >= 0 && w.ExtremeEventHours >= 0 &&
		sum > 0.99 && sum < 1.01
}

// TierCutoffs are the severity-score boundaries for tiering, inclusive
// at the lower bound.
type TierCutoffs struct {
	Critical float64 `json:"critical"`
	Elevated float64 `json:"elevated"`
	Moderate float64 `json:"moderate"`
}

// DefaultTierCutoffs returns the standard 0.75/0.50/0.25 boundaries
func DefaultTierCutoffs() TierCutoffs {
	return TierCutoffs{Critical: 0.75, Elevated: 0.50, Moderate: 0.25}
}

// IsValid checks that cutoffs are strictly ordered within (0,1)
func (tc TierCutoffs) IsValid() bool {
	return tc.Critical > tc.Elevated && tc.Elevated > tc.Moderate &&
		tc.Moderate > 0 && tc.Critical < 1
}

// TierFor buckets a severity score. Boundaries are inclusive at the
// lower bound: a score exactly at a cutoff lands in the higher tier.
func (tc TierCutoffs) TierFor(severity float64) Tier {
	switch {
	case severity >= tc.Critical:
		return TierCritical
	case severity >= tc.Elevated:
		return TierElevated
	case severity >= tc.Moderate:
		return TierModerate
	default:
		return TierLow
	}
}

// NodeConfig parameterizes the node congestion analyzer.
type NodeConfig struct {
	PeakHours           PeakHours   `json:"peak_hours"`
	MinObservations     int         `json:"min_observations"`
	CongestionThreshold float64     `json:"congestion_threshold"`
	VolatilityCap       float64     `json:"volatility_cap"`
	RatioCap            float64     `json:"ratio_cap"`
	ExtremePercentile   float64     `json:"extreme_percentile"`
	Weights             NodeWeights `json:"weights"`
	TierCutoffs         TierCutoffs `json:"tier_cutoffs"`
	HotspotLimit        int         `json:"hotspot_limit"`
}

// DefaultNodeConfig returns the standard node analyzer parameters
func DefaultNodeConfig() NodeConfig {
	return NodeConfig{
		PeakHours:           DefaultPeakHours(),
		MinObservations:     DefaultMinNodeObservations,
		CongestionThreshold: DefaultCongestionThreshold,
		VolatilityCap:       DefaultNodeCap,
		RatioCap:            DefaultNodeCap,
		ExtremePercentile:   DefaultExtremePercentile,
		Weights:             DefaultNodeWeights(),
		TierCutoffs:         DefaultTierCutoffs(),
		HotspotLimit:        DefaultHotspotLimit,
	}
}

// IsValid checks if node analyzer parameters are usable
func (c NodeConfig) IsValid() bool {
	return c.PeakHours.IsValid() && c.MinObservations > 0 &&
		c.CongestionThreshold > 0 && c.VolatilityCap > 1 && c.RatioCap > 1 &&
		c.ExtremePercentile > 0 && c.ExtremePercentile < 1 &&
		c.Weights.IsValid() && c.TierCutoffs.IsValid() && c.HotspotLimit > 0
}
