package economics

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// WriteScoreReport persists one period score as CSV: a metadata block,
// the scalar metrics, then the full duration curve.
func WriteScoreReport(score CongestionPeriodScore, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create score report: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{"Import Congestion Economics", score.BalancingArea})
	writer.Write([]string{"Period_Type:", string(score.PeriodType)})
	if !score.PeriodStart.IsZero() {
		writer.Write([]string{"Period_Start:", score.PeriodStart.Format("2006-01-02 15:04:05")})
		writer.Write([]string{"Period_End:", score.PeriodEnd.Format("2006-01-02 15:04:05")})
	}
	writer.Write([]string{"Data_Quality:", string(score.DataQuality)})
	writer.Write([]string{""})

	writer.Write([]string{"Metric", "Value"})
	writer.Write([]string{"transfer_limit", fmt.Sprintf("%.2f", score.TransferLimit)})
	writer.Write([]string{"total_hours", strconv.Itoa(score.TotalHours)})
	writer.Write([]string{"hours_importing", strconv.Itoa(score.HoursImporting)})
	writer.Write([]string{"pct_hours_importing", fmt.Sprintf("%.4f", score.PctHoursImporting)})
	writer.Write([]string{"hours_above_80", strconv.Itoa(score.HoursAbove80)})
	writer.Write([]string{"hours_above_90", strconv.Itoa(score.HoursAbove90)})
	writer.Write([]string{"hours_above_95", strconv.Itoa(score.HoursAbove95)})
	writer.Write([]string{"max_utilization", fmt.Sprintf("%.4f", score.MaxUtilization)})
	writer.Write([]string{"avg_import_pct_of_load", formatNullable(score.AvgImportPctOfLoad)})
	writer.Write([]string{"max_import_pct_of_load", formatNullable(score.MaxImportPctOfLoad)})
	if score.LMPCoverage != "" {
		writer.Write([]string{"lmp_coverage", string(score.LMPCoverage)})
	}
	writer.Write([]string{"avg_congestion_premium", formatNullable(score.AvgCongestionPremium)})
	writer.Write([]string{"congestion_opportunity_score", formatNullable(score.OpportunityScore)})

	if len(score.DurationCurve) > 0 {
		writer.Write([]string{""})
		writer.Write([]string{"Rank", "Utilization"})
		for i, util := range score.DurationCurve {
			writer.Write([]string{strconv.Itoa(i + 1), fmt.Sprintf("%.4f", util)})
		}
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("write score report: %w", err)
	}
	return nil
}

// formatNullable renders an optional metric, empty when absent
func formatNullable(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.4f", *v)
}
