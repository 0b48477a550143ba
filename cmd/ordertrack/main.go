package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/factorydesk/ordertrack/pkg/interfaces/cli/commands"
)

func main() {
	// Command line flags
	var (
		inputFile   = flag.String("input", "", "Path to order CSV file")
		dateMode    = flag.String("date-mode", "crd", "Operative date: crd or sdd")
		metric      = flag.String("metric", "warehouse-out", "Completion metric: warehouse-out or warehouse-in")
		search      = flag.String("search", "", "Substring match over PO, model, destination, vendor, factory, buyer")
		month       = flag.String("month", "", "Month key filter, e.g. 2026-06")
		destination = flag.String("destination", "", "Exact destination filter")
		vendor      = flag.String("vendor", "", "Exact vendor filter")
		factory     = flag.String("factory", "", "Exact factory filter")
		status      = flag.String("status", "", "State filter: ontrack, shipped, delayed, warning, critical")
		quick       = flag.String("quick", "", "Quick filter: delayed, warning, critical, due-now, due-1-3, due-4-7")
		dateFrom    = flag.String("from", "", "Operative date lower bound, YYYY-MM-DD")
		dateTo      = flag.String("to", "", "Operative date upper bound, YYYY-MM-DD")
		minQty      = flag.Int64("min-qty", 0, "Minimum order quantity")
		maxQty      = flag.Int64("max-qty", 0, "Maximum order quantity")
		anyFilter   = flag.Bool("any", false, "Combine filters with OR instead of AND")
		outputDir   = flag.String("output", "", "Output directory for results (optional)")
		format      = flag.String("format", "text", "Output format: text, json, csv")
		verbose     = flag.Bool("verbose", false, "Enable verbose output")
		storeDB     = flag.Bool("db", false, "Store the report in Postgres")
		dbSchema    = flag.String("db-schema", "ordertrack", "Postgres schema name")
		dbTag       = flag.String("db-tag", "", "Free-form tag recorded with the run")
		help        = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	// Create command configuration
	config := commands.Config{
		InputFile:   *inputFile,
		DateMode:    *dateMode,
		Metric:      *metric,
		Search:      *search,
		Month:       *month,
		Destination: *destination,
		Vendor:      *vendor,
		Factory:     *factory,
		Status:      *status,
		Quick:       *quick,
		DateFrom:    *dateFrom,
		DateTo:      *dateTo,
		MinQty:      *minQty,
		MaxQty:      *maxQty,
		AnyFilter:   *anyFilter,
		OutputDir:   *outputDir,
		Format:      *format,
		Verbose:     *verbose,
		StoreDB:     *storeDB,
		DBSchema:    *dbSchema,
		DBTag:       *dbTag,
		Help:        *help,
	}

	// Create and execute command
	cmd := commands.NewReportCommand(config, log)
	ctx := context.Background()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
