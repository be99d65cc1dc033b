package constraint

import (
	"context"
	"log/slog"
	"sort"
)

// Classifier normalizes extractor output across the full zone set,
// computes the two composite scores, and assigns a classification tag.
type Classifier struct {
	cfg    ClassifierConfig
	logger *slog.Logger
}

// NewClassifier creates a zone classifier with the given parameters
func NewClassifier(cfg ClassifierConfig, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{cfg: cfg, logger: logger}
}

// Classify scores every zone against the full set. Each of the 8 raw
// metrics is min-max normalized independently across all zones
// (constant columns normalize to 0.5 for every row), then combined into
// transmission and generation scores in [0,1]. Both threshold checks
// use >= and are evaluated independently, so metrically identical zones
// land at 0.5 on both axes and classify as "both"; downstream consumers
// depend on that outcome.
//
// The optional expected map drives diagnostic agreement logging only
// and never affects output.
func (c *Classifier) Classify(ctx context.Context, metrics []ZoneMetrics, expected map[string]Classification) []ZoneClassification {
	if len(metrics) == 0 {
		return nil
	}

	rows := make([]ZoneMetrics, len(metrics))
	copy(rows, metrics)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Zone < rows[j].Zone })

	n := len(rows)
	columns := [8][]float64{}
	for i := range columns {
		columns[i] = make([]float64, n)
	}
	for i, m := range rows {
		columns[0][i] = m.CongestionRatio
		columns[1][i] = m.CongestionVolatility
		columns[2][i] = m.CongestedHoursPct
		columns[3][i] = m.PeakOffpeakRatio
		columns[4][i] = m.EnergyDeviation
		columns[5][i] = m.EnergyVolatility
		columns[6][i] = m.LossRatio
		columns[7][i] = m.HighEnergyPct
	}
	for i := range columns {
		columns[i] = minMaxNormalize(columns[i])
	}

	w := c.cfg.Weights
	results := make([]ZoneClassification, 0, n)
	agreements, disagreements := 0, 0

	for i, m := range rows {
		transmission := w.CongestionRatio*columns[0][i] +
			w.CongestionVolatility*columns[1][i] +
			w.CongestedHoursPct*columns[2][i] +
			w.PeakOffpeakRatio*columns[3][i]

		generation := w.EnergyDeviation*columns[4][i] +
			w.EnergyVolatility*columns[5][i] +
			w.LossRatio*columns[6][i] +
			w.HighEnergyPct*columns[7][i]

		classification := c.classify(transmission, generation)

		if expected != nil {
			if want, ok := expected[m.Zone]; ok {
				if want == classification {
					agreements++
				} else {
					disagreements++
					c.logger.InfoContext(ctx, "classification disagrees with expected category",
						"zone", m.Zone,
						"expected", want.String(),
						"actual", classification.String(),
						"transmission_score", transmission,
						"generation_score", generation,
					)
				}
			}
		}

		results = append(results, ZoneClassification{
			Zone:              m.Zone,
			TransmissionScore: transmission,
			GenerationScore:   generation,
			Classification:    classification,
			Metrics:           m,
		})
	}

	if expected != nil {
		c.logger.InfoContext(ctx, "classification validation summary",
			"zones", n,
			"agreements", agreements,
			"disagreements", disagreements,
		)
	}

	return results
}

// classify applies the fixed >= truth table over the two scores
func (c *Classifier) classify(transmission, generation float64) Classification {
	t := transmission >= c.cfg.ScoreThreshold
	g := generation >= c.cfg.ScoreThreshold
	switch {
	case t && g:
		return ClassificationBoth
	case t:
		return ClassificationTransmission
	case g:
		return ClassificationGeneration
	default:
		return ClassificationUnconstrained
	}
}
