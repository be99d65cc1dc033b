package constraint

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// NodeObservationSource supplies node-level drill-down observations for
// a zone on demand. Returning an empty slice (or nil) means no node
// feed is available for that zone; that is not an error.
type NodeObservationSource interface {
	NodeObservations(ctx context.Context, zone string) ([]PriceObservation, error)
}

// ZoneReport bundles everything produced for one zone.
type ZoneReport struct {
	Classification ZoneClassification `json:"classification"`
	Recommendation Recommendation     `json:"recommendation"`

	// NodeAnalysis is present only for constrained zones with a node feed
	NodeAnalysis *ZoneNodeAnalysis `json:"node_analysis,omitempty"`
}

// AnalysisResult is the full output of one analysis run.
type AnalysisResult struct {
	RunID       string       `json:"run_id"`
	GeneratedAt time.Time    `json:"generated_at"`
	Zones       []ZoneReport `json:"zones"`
}

// AnalyzerConfig parameterizes the full analysis pipeline.
type AnalyzerConfig struct {
	Extractor  ExtractorConfig  `json:"extractor"`
	Classifier ClassifierConfig `json:"classifier"`
	Nodes      NodeConfig       `json:"nodes"`

	// MaxConcurrency bounds parallel per-zone node analysis
	MaxConcurrency int `json:"max_concurrency"`
}

// DefaultAnalyzerConfig returns the standard pipeline parameters
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Extractor:      DefaultExtractorConfig(),
		Classifier:     DefaultClassifierConfig(),
		Nodes:          DefaultNodeConfig(),
		MaxConcurrency: 4,
	}
}

// IsValid checks if pipeline parameters are usable
func (c AnalyzerConfig) IsValid() bool {
	return c.Extractor.IsValid() && c.Classifier.IsValid() &&
		c.Nodes.IsValid() && c.MaxConcurrency > 0
}

// Analyzer orchestrates extraction, classification, per-constrained-zone
// node analysis, and recommendations for one market period.
type Analyzer struct {
	cfg         AnalyzerConfig
	extractor   *Extractor
	classifier  *Classifier
	nodes       *NodeAnalyzer
	recommender *RecommendationEngine
	logger      *slog.Logger
	metrics     *EngineMetrics
}

// NewAnalyzer creates the full pipeline with the given parameters.
// metrics may be nil when instrumentation is not wired.
func NewAnalyzer(cfg AnalyzerConfig, logger *slog.Logger, metrics *EngineMetrics) (*Analyzer, error) {
	if !cfg.IsValid() {
		return nil, fmt.Errorf("invalid analyzer configuration")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Analyzer{
		cfg:         cfg,
		extractor:   NewExtractor(cfg.Extractor, logger),
		classifier:  NewClassifier(cfg.Classifier, logger),
		nodes:       NewNodeAnalyzer(cfg.Nodes, logger),
		recommender: NewRecommendationEngine(DefaultRecommendationTemplates()),
		logger:      logger,
		metrics:     metrics,
	}, nil
}

// Analyze runs the full pipeline over one period's zone-level feed.
// Constrained zones fan out to bounded-parallel node analysis via the
// drill-down source; each zone's report is either fully produced or
// absent, so cancellation between zones needs no cleanup. nodeSource
// and expected may both be nil.
func (a *Analyzer) Analyze(ctx context.Context, observations []PriceObservation, nodeSource NodeObservationSource, expected map[string]Classification) (*AnalysisResult, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := a.logger.With("run_id", runID)

	logger.InfoContext(ctx, "starting constraint analysis",
		"observations", len(observations),
		"max_concurrency", a.cfg.MaxConcurrency,
	)

	metrics := a.extractor.Extract(ctx, observations)
	if len(metrics) == 0 {
		logger.WarnContext(ctx, "no zones above observation floor, returning empty result")
		return &AnalysisResult{RunID: runID, GeneratedAt: time.Now().UTC()}, nil
	}

	classifications := a.classifier.Classify(ctx, metrics, expected)

	reports := make([]ZoneReport, len(classifications))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.MaxConcurrency)

	for i, zc := range classifications {
		g.Go(func() error {
			report := ZoneReport{
				Classification: zc,
				Recommendation: a.recommender.Recommend(zc),
			}
			a.metrics.recordZone(gctx, zc.Classification)

			if zc.Classification.Constrained() && nodeSource != nil {
				nodeObs, err := nodeSource.NodeObservations(gctx, zc.Zone)
				if err != nil {
					// Per-zone drill-down failures degrade to a
					// zone-only report instead of failing the run
					a.metrics.recordError(gctx, zc.Zone)
					logger.WarnContext(gctx, "node drill-down feed failed for zone",
						"zone", zc.Zone,
						"error", err,
					)
				} else if len(nodeObs) > 0 {
					analysis := a.nodes.Analyze(gctx, zc.Zone, nodeObs)
					report.NodeAnalysis = &analysis
					a.metrics.recordNodes(gctx, zc.Zone, len(analysis.Nodes))
				}
			}

			mu.Lock()
			reports[i] = report
			mu.Unlock()
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	// Classification output is zone-ordered; keep reports aligned
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Classification.Zone < reports[j].Classification.Zone
	})

	duration := time.Since(start)
	a.metrics.recordRun(ctx, runID, duration)
	logger.InfoContext(ctx, "constraint analysis completed",
		"zones", len(reports),
		"duration", duration,
	)

	return &AnalysisResult{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Zones:       reports,
	}, nil
}
