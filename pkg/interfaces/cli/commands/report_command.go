package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/factorydesk/ordertrack/pkg/application/services"
	"github.com/factorydesk/ordertrack/pkg/application/services/aggregate"
	"github.com/factorydesk/ordertrack/pkg/application/services/filter"
	"github.com/factorydesk/ordertrack/pkg/domain/entities"
	"github.com/factorydesk/ordertrack/pkg/infrastructure/repositories/csv"
	"github.com/factorydesk/ordertrack/pkg/infrastructure/repositories/memory"
	"github.com/factorydesk/ordertrack/pkg/infrastructure/repositories/postgres"
	"github.com/factorydesk/ordertrack/pkg/interfaces/cli/output"
)

// Config holds configuration for the report command
type Config struct {
	InputFile   string
	DateMode    string
	Metric      string
	Search      string
	Month       string
	Destination string
	Vendor      string
	Factory     string
	Status      string
	Quick       string
	DateFrom    string
	DateTo      string
	MinQty      int64
	MaxQty      int64
	AnyFilter   bool
	OutputDir   string
	Format      string
	Verbose     bool
	StoreDB     bool
	DBSchema    string
	DBTag       string
	Help        bool
}

// ReportCommand handles the main report execution logic
type ReportCommand struct {
	config Config
	log    zerolog.Logger
}

// NewReportCommand creates a new report command with the given configuration
func NewReportCommand(config Config, log zerolog.Logger) *ReportCommand {
	return &ReportCommand{
		config: config,
		log:    log,
	}
}

// Execute runs the report command
func (c *ReportCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if c.config.InputFile == "" {
		return fmt.Errorf("validation error: input CSV file is required (-input)")
	}

	mode, err := parseDateMode(c.config.DateMode)
	if err != nil {
		return err
	}
	metric, err := parseMetric(c.config.Metric)
	if err != nil {
		return err
	}
	spec, err := c.buildFilterSpec()
	if err != nil {
		return err
	}

	if c.config.Verbose {
		fmt.Printf("📂 Loading orders from %s...\n", c.config.InputFile)
	}

	loader := csv.NewLoader(c.log)
	records, findings, err := loader.LoadOrders(c.config.InputFile)
	if err != nil {
		return fmt.Errorf("error loading orders: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("✅ Loaded %d orders (%d findings)\n\n", len(records), len(findings))
	}

	orderRepo := memory.NewOrderRepository(len(records))
	reportService := services.NewReportService(filter.NewEngine())
	orderRepo.OnReplace(reportService.InvalidateCache)
	if err := orderRepo.Replace(records); err != nil {
		return fmt.Errorf("failed to load orders into repository: %w", err)
	}

	snapshot, err := orderRepo.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to read order snapshot: %w", err)
	}

	if c.config.Verbose {
		fmt.Println("🔄 Building tracking report...")
	}

	startTime := time.Now()
	report := reportService.BuildReport(snapshot, services.ReportConfig{
		DateMode: mode,
		Metric:   metric,
		Filter:   spec,
	})
	buildTime := time.Since(startTime)

	if c.config.Verbose {
		fmt.Printf("✅ Report %s built in %v\n\n", report.RunID, buildTime)
	}

	if c.config.StoreDB {
		store, err := postgres.NewReportStore(postgres.Config{
			URL:    databaseURL(),
			Schema: c.config.DBSchema,
			Tag:    c.config.DBTag,
		}, c.log)
		if err != nil {
			return fmt.Errorf("failed to configure report store: %w", err)
		}
		if err := store.Store(ctx, report); err != nil {
			return fmt.Errorf("failed to store report: %w", err)
		}
	}

	return output.Generate(report, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Findings:  findings,
	})
}

// buildFilterSpec translates string flags into a compiled-ready filter spec
func (c *ReportCommand) buildFilterSpec() (filter.Spec, error) {
	spec := filter.Spec{
		Search:      c.config.Search,
		Month:       c.config.Month,
		Destination: c.config.Destination,
		Vendor:      c.config.Vendor,
		Factory:     c.config.Factory,
	}
	if c.config.AnyFilter {
		spec.Combine = filter.CombineAny
	}

	if c.config.Status != "" {
		state, err := filter.ParseStatus(c.config.Status)
		if err != nil {
			return filter.Spec{}, err
		}
		spec.Status = &state
	}
	if c.config.Quick != "" {
		quick, err := filter.ParseQuickFilter(c.config.Quick)
		if err != nil {
			return filter.Spec{}, err
		}
		spec.Quick = quick
	}
	if c.config.DateFrom != "" {
		from, err := parseDateFlag("from", c.config.DateFrom)
		if err != nil {
			return filter.Spec{}, err
		}
		spec.DateFrom = from
	}
	if c.config.DateTo != "" {
		to, err := parseDateFlag("to", c.config.DateTo)
		if err != nil {
			return filter.Spec{}, err
		}
		spec.DateTo = to
	}
	if c.config.MinQty > 0 {
		minQty := c.config.MinQty
		spec.MinQty = &minQty
	}
	if c.config.MaxQty > 0 {
		maxQty := c.config.MaxQty
		spec.MaxQty = &maxQty
	}
	return spec, nil
}

func parseDateMode(s string) (entities.DateMode, error) {
	switch s {
	case "", "crd":
		return entities.DateModeCRD, nil
	case "sdd":
		return entities.DateModeSDD, nil
	default:
		return entities.DateModeCRD, fmt.Errorf("unknown date mode: %s (want crd or sdd)", s)
	}
}

func parseMetric(s string) (aggregate.Metric, error) {
	switch s {
	case "", "warehouse-out":
		return aggregate.MetricWarehouseOut, nil
	case "warehouse-in":
		return aggregate.MetricWarehouseIn, nil
	default:
		return aggregate.MetricWarehouseOut, fmt.Errorf("unknown metric: %s (want warehouse-out or warehouse-in)", s)
	}
}

func parseDateFlag(name, value string) (*time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid -%s date %q: want YYYY-MM-DD", name, value)
	}
	return &t, nil
}

// databaseURL resolves the Postgres connection string from the environment
func databaseURL() string {
	if url := os.Getenv("ORDERTRACK_DB_URL"); url != "" {
		return url
	}
	return os.Getenv("DATABASE_URL")
}

func (c *ReportCommand) showHelp() {
	fmt.Println(`ordertrack - manufacturing order tracking report

Usage:
  ordertrack -input orders.csv [options]

Input:
  -input string       Path to order CSV file (required)
  -date-mode string   Operative date: crd or sdd (default "crd")
  -metric string      Completion metric: warehouse-out or warehouse-in (default "warehouse-out")

Filters (combined with AND unless -any is set):
  -search string      Substring match over PO, model, destination, vendor, factory, buyer
  -month string       Month key, e.g. 2026-06
  -destination string Exact destination (case-insensitive)
  -vendor string      Exact vendor (case-insensitive)
  -factory string     Exact factory (case-insensitive)
  -status string      ontrack, shipped, delayed, warning, critical
  -quick string       delayed, warning, critical, due-now, due-1-3, due-4-7
  -from string        Operative date lower bound, YYYY-MM-DD
  -to string          Operative date upper bound, YYYY-MM-DD
  -min-qty int        Minimum order quantity
  -max-qty int        Maximum order quantity
  -any                Combine filters with OR instead of AND

Output:
  -format string      Output format: text, json, csv (default "text")
  -output string      Output directory (required for csv, optional for json)
  -verbose            Enable verbose output

Storage:
  -db                 Store the report in Postgres (ORDERTRACK_DB_URL or DATABASE_URL)
  -db-schema string   Postgres schema name (default "ordertrack")
  -db-tag string      Free-form tag recorded with the run`)
}
