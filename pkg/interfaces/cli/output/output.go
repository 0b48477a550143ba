package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/factorydesk/ordertrack/pkg/application/dto"
	"github.com/factorydesk/ordertrack/pkg/application/services/aggregate"
	csvrepo "github.com/factorydesk/ordertrack/pkg/infrastructure/repositories/csv"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	Findings  []csvrepo.Finding
}

// Generate renders a tracking report in the specified format
func Generate(report *dto.TrackingReport, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(report, config)
	case "json":
		return generateJSONOutput(report, config)
	case "csv":
		return generateCSVOutput(report, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func generateTextOutput(report *dto.TrackingReport, config Config) error {
	s := report.Summary

	fmt.Printf("Order Tracking Report (%s dates)\n", report.DateMode)
	fmt.Printf("================================\n\n")
	fmt.Printf("Orders: %d   Quantity: %d\n", s.TotalOrders, s.TotalQuantity)
	fmt.Printf("Shipped: %d (%s%%)   Delayed: %d (%s%%)   Warning: %d   Critical: %d   On track: %d\n\n",
		s.ShippedCount, s.ShippedRate, s.DelayedCount, s.DelayRate,
		s.WarningCount, s.CriticalCount, s.OnTrackCount)

	printGroupTable("By Month", report.ByMonth)
	printGroupTable("By Destination", report.ByDestination)
	printGroupTable("By Vendor", report.ByVendor)
	if config.Verbose {
		printGroupTable("By Model", report.ByModel)
		printGroupTable("By Factory", report.ByFactory)
	}

	a := report.Anomalies
	fmt.Printf("Anomalies (run %s):\n", a.RunID)
	fmt.Printf("  Quantity outliers: %d\n", len(a.QuantityOutliers))
	fmt.Printf("  Process delays: %d\n", len(a.ProcessDelays))
	fmt.Printf("  Date gaps: %d\n", len(a.DateGapAnomalies))
	fmt.Printf("  Duplicate POs: %d\n", len(a.DuplicatePOs))
	fmt.Printf("  Missing destinations: %d\n", len(a.MissingDestinations))
	fmt.Printf("  Vendor quality issues: %d\n\n", len(a.VendorQualityIssues))

	if len(report.VendorScores) > 0 {
		fmt.Printf("Top Vendors:\n")
		fmt.Printf("%-20s %-8s %-12s %-12s %-8s\n", "Vendor", "Orders", "Completion", "On-Time", "Score")
		for _, v := range report.VendorScores {
			fmt.Printf("%-20s %-8d %-12s %-12s %-8s\n",
				v.Vendor, v.OrderCount, v.CompletionRate, v.OnTimeRate, v.Score)
		}
		fmt.Println()
	}

	if report.Bottleneck != nil {
		b := report.Bottleneck
		fmt.Printf("Predicted bottleneck: %s (%s%% complete, %d pending across %d orders)\n\n",
			b.StageName, b.CompletionRate, b.PendingQty, b.AffectedOrders)
	}

	if len(config.Findings) > 0 {
		fmt.Printf("Ingestion findings: %d\n", len(config.Findings))
		if config.Verbose {
			for _, f := range config.Findings {
				fmt.Printf("  row %d [%s] %s: %s\n", f.Row, f.Severity, f.Field, f.Message)
			}
		}
	}

	return nil
}

func printGroupTable(title string, groups []aggregate.GroupSummary) {
	if len(groups) == 0 {
		return
	}
	fmt.Printf("%s:\n", title)
	fmt.Printf("%-20s %-8s %-10s %-10s %-10s %-10s\n",
		"Key", "Orders", "Quantity", "Done", "Done %", "Delay %")
	for _, g := range groups {
		fmt.Printf("%-20s %-8d %-10d %-10d %-10s %-10s\n",
			g.Key, g.OrderCount, g.TotalQuantity, g.CompletedQuantity, g.CompletionRate, g.DelayRate)
	}
	fmt.Println()
}

func generateJSONOutput(report *dto.TrackingReport, config Config) error {
	payload := struct {
		*dto.TrackingReport
		Findings []csvrepo.Finding `json:"findings,omitempty"`
	}{report, config.Findings}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Println(string(data))
		return nil
	}

	path := filepath.Join(config.OutputDir, "report.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if config.Verbose {
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

func generateCSVOutput(report *dto.TrackingReport, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("csv output requires an output directory")
	}
	if err := os.MkdirAll(config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	groupFiles := map[string][]aggregate.GroupSummary{
		"by_month.csv":       report.ByMonth,
		"by_destination.csv": report.ByDestination,
		"by_model.csv":       report.ByModel,
		"by_vendor.csv":      report.ByVendor,
		"by_factory.csv":     report.ByFactory,
	}

	for name, groups := range groupFiles {
		if err := writeGroupCSV(filepath.Join(config.OutputDir, name), groups); err != nil {
			return err
		}
	}

	if err := writeAnomalyCSV(filepath.Join(config.OutputDir, "anomalies.csv"), report); err != nil {
		return err
	}

	if config.Verbose {
		fmt.Printf("wrote CSV reports to %s\n", config.OutputDir)
	}
	return nil
}

func writeGroupCSV(path string, groups []aggregate.GroupSummary) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"key", "orders", "total_quantity", "completed_quantity", "delayed_count", "completion_rate", "delay_rate"}); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	for _, g := range groups {
		row := []string{
			g.Key,
			strconv.Itoa(g.OrderCount),
			strconv.FormatInt(g.TotalQuantity, 10),
			strconv.FormatInt(g.CompletedQuantity, 10),
			strconv.Itoa(g.DelayedCount),
			g.CompletionRate,
			g.DelayRate,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

func writeAnomalyCSV(path string, report *dto.TrackingReport) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"kind", "subject", "severity", "detail"}); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	a := report.Anomalies
	for _, o := range a.QuantityOutliers {
		if err := w.Write([]string{"quantity_outlier", o.PONumber, string(o.Severity), fmt.Sprintf("quantity %d z-score %.2f", o.Quantity, o.ZScore)}); err != nil {
			return err
		}
	}
	for _, d := range a.ProcessDelays {
		if err := w.Write([]string{"process_delay", d.PONumber, string(d.Severity), fmt.Sprintf("%d days to CRD at %.0f%% shipped", d.DaysToCRD, d.CompletionRatio*100)}); err != nil {
			return err
		}
	}
	for _, g := range a.DateGapAnomalies {
		if err := w.Write([]string{"date_gap", g.PONumber, string(g.Severity), fmt.Sprintf("gap %d days", g.GapDays)}); err != nil {
			return err
		}
	}
	for _, dup := range a.DuplicatePOs {
		if err := w.Write([]string{"duplicate_po", dup.PONumber, "warning", fmt.Sprintf("appears %d times", dup.Count)}); err != nil {
			return err
		}
	}
	for _, m := range a.MissingDestinations {
		if err := w.Write([]string{"missing_destination", m.PONumber, "warning", fmt.Sprintf("destination %q", m.Destination)}); err != nil {
			return err
		}
	}
	for _, v := range a.VendorQualityIssues {
		if err := w.Write([]string{"vendor_quality", v.Vendor, string(v.Severity), fmt.Sprintf("%d of %d delayed (%s%%)", v.DelayedCount, v.OrderCount, v.DelayRate)}); err != nil {
			return err
		}
	}
	return nil
}
