package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gridlens/internal/config"
	"gridlens/internal/constraint"
	"gridlens/internal/infrastructure"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file (optional)")
	dataPath := flag.String("data", "", "zone-level hourly price CSV (required)")
	nodesDir := flag.String("nodes", "", "directory of per-zone node price CSVs (optional)")
	outputDir := flag.String("out", "data/reports", "output directory for constraint reports")
	flag.Parse()

	if *dataPath == "" {
		fmt.Fprintln(os.Stderr, "usage: constraint-report -data <prices.csv> [-nodes <dir>] [-config <file>] [-out <dir>]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.EnsureTraceID(context.Background())
	logger = infrastructure.LoggerWithContext(ctx)

	providers, err := infrastructure.InitializeOTel(nil, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize OpenTelemetry", "error", err)
		os.Exit(1)
	}
	defer providers.Shutdown(ctx)

	engineMetrics, err := constraint.NewEngineMetrics(providers.Meter)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create engine metrics", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Loading zone price feed", "path", *dataPath)
	observations, err := constraint.LoadObservations(ctx, *dataPath)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load zone price feed", "error", err)
		os.Exit(1)
	}
	if len(observations) == 0 {
		logger.ErrorContext(ctx, "No usable observations in feed",
			"path", *dataPath,
			"hint", "check column headers and timestamp formats")
		os.Exit(1)
	}
	logger.InfoContext(ctx, "Loaded zone price feed", "observations", len(observations))

	analyzerCfg := analyzerConfig(cfg.Analysis)
	analyzer, err := constraint.NewAnalyzer(analyzerCfg, logger, engineMetrics)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to build analyzer", "error", err)
		os.Exit(1)
	}

	var nodeSource constraint.NodeObservationSource
	if *nodesDir != "" {
		nodeSource = constraint.DirectoryNodeSource{Dir: *nodesDir}
	}

	result, err := analyzer.Analyze(ctx, observations, nodeSource, nil)
	if err != nil {
		logger.ErrorContext(ctx, "Constraint analysis failed", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		logger.ErrorContext(ctx, "Failed to create output directory", "error", err)
		os.Exit(1)
	}

	timestamp := time.Now().Format("20060102")
	reportPath := filepath.Join(*outputDir, fmt.Sprintf("constraint_report_%s.csv", timestamp))
	if err := constraint.WriteZoneReport(result, reportPath); err != nil {
		logger.ErrorContext(ctx, "Failed to write zone report", "error", err)
		os.Exit(1)
	}

	hotspotDir := filepath.Join(*outputDir, "hotspots")
	if err := constraint.WriteHotspotReport(result, hotspotDir); err != nil {
		logger.ErrorContext(ctx, "Failed to write hotspot reports", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Constraint report generated",
		"run_id", result.RunID,
		"zones", len(result.Zones),
		"report", reportPath,
		"hotspots", hotspotDir)

	printSummary(result)
}

// analyzerConfig maps the application configuration onto the pipeline parameters
func analyzerConfig(cfg config.AnalysisConfig) constraint.AnalyzerConfig {
	peak := constraint.NewPeakHours(cfg.PeakHourStart, cfg.PeakHourEnd)

	analyzerCfg := constraint.DefaultAnalyzerConfig()
	analyzerCfg.MaxConcurrency = cfg.MaxConcurrency

	analyzerCfg.Extractor.PeakHours = peak
	analyzerCfg.Extractor.ExcludedZones = cfg.ExcludedZones
	analyzerCfg.Extractor.MinObservations = cfg.MinZoneObservations
	analyzerCfg.Extractor.CongestionThreshold = cfg.CongestionThreshold
	analyzerCfg.Extractor.HighEnergyOffset = cfg.HighEnergyOffset

	analyzerCfg.Nodes.PeakHours = peak
	analyzerCfg.Nodes.MinObservations = cfg.MinNodeObservations
	analyzerCfg.Nodes.CongestionThreshold = cfg.CongestionThreshold
	analyzerCfg.Nodes.HotspotLimit = cfg.HotspotLimit

	return analyzerCfg
}

func printSummary(result *constraint.AnalysisResult) {
	if len(result.Zones) == 0 {
		fmt.Println("No zones above the observation floor.")
		return
	}

	fmt.Println("\n=== ZONE CONSTRAINT SUMMARY ===")
	fmt.Println("Zone                 | Class          | T-Score | G-Score | Primary Assets")
	fmt.Println("---------------------|----------------|---------|---------|---------------")

	for _, zr := range result.Zones {
		zc := zr.Classification
		assets := ""
		if len(zr.Recommendation.Primary.Assets) > 0 {
			assets = zr.Recommendation.Primary.Assets[0]
		}
		fmt.Printf("%-20s | %-14s | %7.4f | %7.4f | %s\n",
			zc.Zone, zc.Classification, zc.TransmissionScore, zc.GenerationScore, assets)
	}

	constrained := 0
	for _, zr := range result.Zones {
		if zr.Classification.Classification.Constrained() {
			constrained++
		}
	}
	fmt.Printf("\n%d of %d zones constrained\n", constrained, len(result.Zones))
}
