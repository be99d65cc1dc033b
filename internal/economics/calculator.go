package economics

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"
)

// Calculator scores one balancing area's import-congestion economics
// for a period.
type Calculator struct {
	cfg    Config
	logger *slog.Logger
}

// NewCalculator creates an economics calculator with the given parameters
func NewCalculator(cfg Config, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{cfg: cfg, logger: logger}
}

// Score computes utilization-duration metrics and, when an interface
// price series is supplied, the congestion premium economics.
//
// Utilization is net imports over the transfer limit and is never
// clipped; values above 1.0 represent stress beyond the estimated
// limit. A missing or non-positive transfer limit yields a fully
// populated result flagged no_transfer_limit, not an error. interfacePrices
// and baselinePrices are optional; when baselinePrices is empty the
// median of the interface series serves as a synthetic baseline.
func (c *Calculator) Score(ctx context.Context, balancingArea string, periodType PeriodType, ops []HourlyOperation, transferLimit float64, interfacePrices, baselinePrices []PricePoint) CongestionPeriodScore {
	start := time.Now()

	score := CongestionPeriodScore{
		BalancingArea: balancingArea,
		PeriodType:    periodType,
		TransferLimit: transferLimit,
		TotalHours:    len(ops),
	}
	if len(ops) > 0 {
		bounds := make([]time.Time, 0, len(ops))
		for _, op := range ops {
			bounds = append(bounds, op.Timestamp)
		}
		sort.Slice(bounds, func(i, j int) bool { return bounds[i].Before(bounds[j]) })
		score.PeriodStart = bounds[0]
		score.PeriodEnd = bounds[len(bounds)-1]
	}

	if transferLimit <= 0 || math.IsNaN(transferLimit) {
		score.DataQuality = QualityNoTransferLimit
		c.logger.WarnContext(ctx, "no usable transfer limit, returning degenerate score",
			"balancing_area", balancingArea,
			"transfer_limit", transferLimit,
		)
		return score
	}

	score.DataQuality = c.dataQuality(len(ops))

	utilization := make([]float64, 0, len(ops))
	var importShares []float64
	for _, op := range ops {
		imports := op.NetImports()
		util := imports / transferLimit
		utilization = append(utilization, util)

		if util > score.MaxUtilization {
			score.MaxUtilization = util
		}
		if util > c.cfg.HighUtilization {
			score.HoursAbove80++
		}
		if util > c.cfg.SevereUtilization {
			score.HoursAbove90++
		}
		if util > c.cfg.CriticalUtilization {
			score.HoursAbove95++
		}

		if imports > 0 {
			score.HoursImporting++
			if op.Demand > 0 {
				importShares = append(importShares, imports/op.Demand)
			}
		}
	}

	if score.TotalHours > 0 {
		score.PctHoursImporting = float64(score.HoursImporting) / float64(score.TotalHours)
	}
	if len(importShares) > 0 {
		avg := mean(importShares)
		max := importShares[0]
		for _, v := range importShares[1:] {
			if v > max {
				max = v
			}
		}
		score.AvgImportPctOfLoad = &avg
		score.MaxImportPctOfLoad = &max
	}

	// Duration curve: one entry per observed hour, descending, unclipped
	curve := make([]float64, len(utilization))
	copy(curve, utilization)
	sort.Sort(sort.Reverse(sort.Float64Slice(curve)))
	score.DurationCurve = curve

	if len(interfacePrices) > 0 {
		c.applyEconomics(&score, ops, utilization, interfacePrices, baselinePrices)
	}

	c.logger.InfoContext(ctx, "import-congestion economics scored",
		"balancing_area", balancingArea,
		"period_type", string(periodType),
		"hours", score.TotalHours,
		"hours_importing", score.HoursImporting,
		"hours_above_high", score.HoursAbove80,
		"data_quality", string(score.DataQuality),
		"duration", time.Since(start),
	)

	return score
}

// applyEconomics merges the interface price series by timestamp and
// fills in the premium metrics
func (c *Calculator) applyEconomics(score *CongestionPeriodScore, ops []HourlyOperation, utilization []float64, interfacePrices, baselinePrices []PricePoint) {
	iface := priceIndex(interfacePrices)
	baseline := priceIndex(baselinePrices)

	// Synthetic baseline: median of the interface series
	var syntheticBaseline float64
	useSynthetic := len(baseline) == 0
	if useSynthetic {
		values := make([]float64, 0, len(iface))
		for _, p := range interfacePrices {
			values = append(values, p.Price)
		}
		syntheticBaseline = median(values)
	}

	matched := 0
	premiumSum := 0.0
	opportunitySum := 0.0
	for i, op := range ops {
		price, ok := iface[op.Timestamp]
		if !ok {
			continue
		}
		base := syntheticBaseline
		if !useSynthetic {
			base, ok = baseline[op.Timestamp]
			if !ok {
				continue
			}
		}

		matched++
		premium := price - base
		premiumSum += premium
		if utilization[i] > c.cfg.HighUtilization && premium > 0 {
			opportunitySum += premium
		}
	}

	score.LMPCoverage = c.coverage(matched, score.TotalHours)
	if matched > 0 {
		avg := premiumSum / float64(matched)
		opportunity := opportunitySum / c.cfg.OpportunityDivisor
		score.AvgCongestionPremium = &avg
		score.OpportunityScore = &opportunity
	}
}

// dataQuality flags hourly completeness against the configured floors
func (c *Calculator) dataQuality(hours int) DataQuality {
	switch {
	case hours >= c.cfg.GoodHours:
		return QualityGood
	case hours >= c.cfg.PartialHours:
		return QualityPartial
	default:
		return QualitySparse
	}
}

// coverage flags the matched-hour fraction against the configured floors
func (c *Calculator) coverage(matched, total int) LMPCoverage {
	if total == 0 {
		return CoverageSparse
	}
	frac := float64(matched) / float64(total)
	switch {
	case frac >= c.cfg.FullCoverage:
		return CoverageFull
	case frac >= c.cfg.PartialCoverage:
		return CoveragePartial
	default:
		return CoverageSparse
	}
}

// priceIndex builds a timestamp lookup for a price series
func priceIndex(series []PricePoint) map[time.Time]float64 {
	if len(series) == 0 {
		return nil
	}
	index := make(map[time.Time]float64, len(series))
	for _, p := range series {
		index[p.Timestamp] = p.Price
	}
	return index
}

// mean computes the arithmetic mean; empty input returns 0
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median computes the median without mutating the input
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
