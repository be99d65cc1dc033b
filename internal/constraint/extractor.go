package constraint

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"
)

// Extractor reduces an hourly price-observation feed to one statistics
// record per zone.
type Extractor struct {
	cfg    ExtractorConfig
	logger *slog.Logger
}

// NewExtractor creates a zone metrics extractor with the given parameters
func NewExtractor(cfg ExtractorConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, logger: logger}
}

// Extract computes ZoneMetrics for every zone with at least
// MinObservations hours. Zones below the floor and zones on the
// exclusion list are silently dropped. Output is ordered by zone id so
// downstream normalization is reproducible across runs.
func (e *Extractor) Extract(ctx context.Context, observations []PriceObservation) []ZoneMetrics {
	start := time.Now()

	excluded := make(map[string]bool, len(e.cfg.ExcludedZones))
	for _, z := range e.cfg.ExcludedZones {
		excluded[z] = true
	}

	// System-wide average energy price per timestamp, computed once
	// across all non-excluded zones before any per-zone work.
	systemEnergy := systemAverageEnergy(observations, excluded)

	zoneObs := make(map[string][]PriceObservation)
	for _, o := range observations {
		if !o.IsValid() || excluded[o.Zone] {
			continue
		}
		zoneObs[o.Zone] = append(zoneObs[o.Zone], o)
	}

	zones := make([]string, 0, len(zoneObs))
	for z := range zoneObs {
		zones = append(zones, z)
	}
	sort.Strings(zones)

	var metrics []ZoneMetrics
	for _, zone := range zones {
		obs := zoneObs[zone]
		if len(obs) < e.cfg.MinObservations {
			e.logger.DebugContext(ctx, "zone below observation floor, excluded",
				"zone", zone,
				"observations", len(obs),
				"required", e.cfg.MinObservations,
			)
			continue
		}
		metrics = append(metrics, e.zoneMetrics(zone, obs, systemEnergy))
	}

	e.logger.InfoContext(ctx, "zone metrics extracted",
		"zones_in_feed", len(zoneObs),
		"zones_scored", len(metrics),
		"observations", len(observations),
		"duration", time.Since(start),
	)

	return metrics
}

// zoneMetrics computes the 8 raw metrics for one zone
func (e *Extractor) zoneMetrics(zone string, obs []PriceObservation, systemEnergy map[time.Time]float64) ZoneMetrics {
	n := len(obs)
	congestion := make([]float64, 0, n)
	totals := make([]float64, 0, n)
	energy := make([]float64, 0, n)
	losses := make([]float64, 0, n)
	var peakAbs, offpeakAbs []float64

	congestedHours := 0
	for _, o := range obs {
		congestion = append(congestion, o.Congestion)
		totals = append(totals, o.Total)
		energy = append(energy, o.Energy)
		losses = append(losses, o.Loss)

		abs := math.Abs(o.Congestion)
		if abs > e.cfg.CongestionThreshold {
			congestedHours++
		}
		if e.cfg.PeakHours.Contains(o.Hour) {
			peakAbs = append(peakAbs, abs)
		} else {
			offpeakAbs = append(offpeakAbs, abs)
		}
	}

	meanAbsCong := meanAbs(congestion)
	meanAbsTotal := meanAbs(totals)
	meanEnergy := mean(energy)

	// Deviation from the system-wide energy price, matched by timestamp
	var deviations []float64
	for _, o := range obs {
		if avg, ok := systemEnergy[o.Timestamp]; ok {
			deviations = append(deviations, math.Abs(o.Energy-avg))
		}
	}

	highEnergyHours := 0
	highBar := meanEnergy + e.cfg.HighEnergyOffset
	for _, v := range energy {
		if v > highBar {
			highEnergyHours++
		}
	}

	return ZoneMetrics{
		Zone: zone,

		CongestionRatio:      meanAbsCong / math.Max(meanAbsTotal, epsilonFloor),
		CongestionVolatility: capAt(stdDev(congestion)/math.Max(meanAbsCong, epsilonFloor), e.cfg.VolatilityCap),
		CongestedHoursPct:    float64(congestedHours) / float64(n),
		PeakOffpeakRatio:     capAt(mean(peakAbs)/math.Max(mean(offpeakAbs), epsilonFloor), e.cfg.RatioCap),

		EnergyDeviation:  mean(deviations),
		EnergyVolatility: capAt(stdDev(energy)/math.Max(meanEnergy, epsilonFloor), e.cfg.VolatilityCap),
		LossRatio:        meanAbs(losses) / math.Max(meanAbsTotal, epsilonFloor),
		HighEnergyPct:    float64(highEnergyHours) / float64(n),

		HourCount:         n,
		MeanAbsCongestion: meanAbsCong,
	}
}

// systemAverageEnergy computes the average energy component per
// timestamp across all non-excluded zones
func systemAverageEnergy(observations []PriceObservation, excluded map[string]bool) map[time.Time]float64 {
	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)
	for _, o := range observations {
		if !o.IsValid() || excluded[o.Zone] {
			continue
		}
		sums[o.Timestamp] += o.Energy
		counts[o.Timestamp]++
	}

	avg := make(map[time.Time]float64, len(sums))
	for ts, sum := range sums {
		avg[ts] = sum / float64(counts[ts])
	}
	return avg
}
