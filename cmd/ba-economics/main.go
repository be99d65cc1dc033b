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
	"gridlens/internal/economics"
	"gridlens/internal/infrastructure"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file (optional)")
	dataPath := flag.String("data", "", "hourly operations CSV for one balancing area (required)")
	baName := flag.String("ba", "", "balancing area name (required)")
	transferLimit := flag.Float64("limit", 0, "estimated transfer limit in MW (0 means unknown)")
	ifacePath := flag.String("iface", "", "interface price series CSV (optional)")
	baselinePath := flag.String("baseline", "", "baseline price series CSV (optional)")
	period := flag.String("period", "year", "aggregation period: month or year")
	outputDir := flag.String("out", "data/reports", "output directory for the score report")
	flag.Parse()

	if *dataPath == "" || *baName == "" {
		fmt.Fprintln(os.Stderr, "usage: ba-economics -data <ops.csv> -ba <name> [-limit <mw>] [-iface <prices.csv>] [-baseline <prices.csv>] [-period month|year]")
		os.Exit(2)
	}

	periodType := economics.PeriodType(*period)
	if periodType != economics.PeriodMonth && periodType != economics.PeriodYear {
		fmt.Fprintf(os.Stderr, "unknown period type %q, want month or year\n", *period)
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

	logger.InfoContext(ctx, "Loading operations feed", "path", *dataPath, "balancing_area", *baName)
	ops, err := economics.LoadOperations(ctx, *dataPath)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load operations feed", "error", err)
		os.Exit(1)
	}

	var ifacePrices, baselinePrices []economics.PricePoint
	if *ifacePath != "" {
		ifacePrices, err = economics.LoadPriceSeries(ctx, *ifacePath)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to load interface price series", "error", err)
			os.Exit(1)
		}
	}
	if *baselinePath != "" {
		baselinePrices, err = economics.LoadPriceSeries(ctx, *baselinePath)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to load baseline price series", "error", err)
			os.Exit(1)
		}
	}

	calcCfg := economics.DefaultConfig()
	calcCfg.GoodHours = cfg.Economics.GoodHours
	calcCfg.PartialHours = cfg.Economics.PartialHours
	if !calcCfg.IsValid() {
		logger.ErrorContext(ctx, "Invalid economics configuration",
			"good_hours", calcCfg.GoodHours,
			"partial_hours", calcCfg.PartialHours)
		os.Exit(1)
	}

	calc := economics.NewCalculator(calcCfg, logger)
	score := calc.Score(ctx, *baName, periodType, ops, *transferLimit, ifacePrices, baselinePrices)

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		logger.ErrorContext(ctx, "Failed to create output directory", "error", err)
		os.Exit(1)
	}

	timestamp := time.Now().Format("20060102")
	outputPath := filepath.Join(*outputDir, fmt.Sprintf("economics_%s_%s.csv", *baName, timestamp))
	if err := economics.WriteScoreReport(score, outputPath); err != nil {
		logger.ErrorContext(ctx, "Failed to write score report", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Economics score generated",
		"balancing_area", *baName,
		"report", outputPath,
		"data_quality", string(score.DataQuality))

	printScore(score)
}

func printScore(score economics.CongestionPeriodScore) {
	fmt.Printf("\n=== IMPORT CONGESTION: %s (%s) ===\n", score.BalancingArea, score.PeriodType)
	fmt.Printf("Data quality:        %s\n", score.DataQuality)
	if score.DataQuality == economics.QualityNoTransferLimit {
		fmt.Println("No usable transfer limit; utilization metrics unavailable.")
		return
	}

	fmt.Printf("Hours:               %d (%d importing, %.1f%%)\n",
		score.TotalHours, score.HoursImporting, score.PctHoursImporting*100)
	fmt.Printf("Stress hours:        >80%%: %d  >90%%: %d  >95%%: %d\n",
		score.HoursAbove80, score.HoursAbove90, score.HoursAbove95)
	fmt.Printf("Max utilization:     %.4f\n", score.MaxUtilization)

	if score.AvgCongestionPremium != nil {
		fmt.Printf("Avg premium:         %.2f $/MWh (coverage: %s)\n",
			*score.AvgCongestionPremium, score.LMPCoverage)
	}
	if score.OpportunityScore != nil {
		fmt.Printf("Opportunity score:   %.2f $/kW\n", *score.OpportunityScore)
	}
}
