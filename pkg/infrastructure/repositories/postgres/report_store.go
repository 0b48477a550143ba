package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"github.com/factorydesk/ordertrack/pkg/application/dto"
)

const connectTimeout = 12 * time.Second

var schemaPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Config holds the connection settings for the report store
type Config struct {
	URL    string
	Schema string
	Tag    string
}

// ReportStore persists tracking reports to Postgres. The core owns no
// persistence; this is an optional sink the CLI wires in behind a flag.
type ReportStore struct {
	cfg Config
	log zerolog.Logger
}

// NewReportStore creates a report store with the given configuration
func NewReportStore(cfg Config, log zerolog.Logger) (*ReportStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is required")
	}
	if cfg.Schema == "" {
		cfg.Schema = "ordertrack"
	}
	if !schemaPattern.MatchString(cfg.Schema) {
		return nil, fmt.Errorf("invalid schema name: %s", cfg.Schema)
	}
	return &ReportStore{cfg: cfg, log: log}, nil
}

// Store writes one tracking report, bootstrapping the schema if needed
func (s *ReportStore) Store(ctx context.Context, report *dto.TrackingReport) error {
	db, err := sql.Open("pgx", s.cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}
	if err := s.ensureSchema(ctx, db); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	if err := s.storeTx(ctx, db, report); err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}

	s.log.Info().
		Str("run_id", report.RunID).
		Str("schema", s.cfg.Schema).
		Msg("stored tracking report")
	return nil
}

func (s *ReportStore) storeTx(ctx context.Context, db *sql.DB, report *dto.TrackingReport) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s.tracking_runs (
			id, generated_at, date_mode, total_orders, total_quantity,
			shipped_count, delayed_count, warning_count, critical_count,
			on_track_count, shipped_rate, delay_rate, run_tag
		) VALUES (
			$1,$2,$3,$4,$5,
			$6,$7,$8,$9,
			$10,$11,$12,$13
		)`, s.cfg.Schema),
		report.RunID,
		report.GeneratedAt,
		report.DateMode,
		report.Summary.TotalOrders,
		report.Summary.TotalQuantity,
		report.Summary.ShippedCount,
		report.Summary.DelayedCount,
		report.Summary.WarningCount,
		report.Summary.CriticalCount,
		report.Summary.OnTrackCount,
		report.Summary.ShippedRate,
		report.Summary.DelayRate,
		nullString(s.cfg.Tag),
	)
	if err != nil {
		return err
	}

	insertAnomalySQL := fmt.Sprintf(`
		INSERT INTO %s.tracking_anomalies (
			id, run_id, kind, po_number, severity, detail
		) VALUES ($1,$2,$3,$4,$5,$6)`, s.cfg.Schema)

	for _, o := range report.Anomalies.QuantityOutliers {
		if _, err = tx.ExecContext(ctx, insertAnomalySQL,
			uuid.New(), report.RunID, "quantity_outlier", o.PONumber, string(o.Severity),
			fmt.Sprintf("quantity %d z-score %.2f", o.Quantity, o.ZScore)); err != nil {
			return err
		}
	}
	for _, d := range report.Anomalies.ProcessDelays {
		if _, err = tx.ExecContext(ctx, insertAnomalySQL,
			uuid.New(), report.RunID, "process_delay", d.PONumber, string(d.Severity),
			fmt.Sprintf("%d days to CRD at %.0f%% shipped", d.DaysToCRD, d.CompletionRatio*100)); err != nil {
			return err
		}
	}
	for _, g := range report.Anomalies.DateGapAnomalies {
		if _, err = tx.ExecContext(ctx, insertAnomalySQL,
			uuid.New(), report.RunID, "date_gap", g.PONumber, string(g.Severity),
			fmt.Sprintf("SDD-CRD gap of %d days", g.GapDays)); err != nil {
			return err
		}
	}
	for _, dup := range report.Anomalies.DuplicatePOs {
		if _, err = tx.ExecContext(ctx, insertAnomalySQL,
			uuid.New(), report.RunID, "duplicate_po", dup.PONumber, duplicateSeverity(dup.Count),
			fmt.Sprintf("appears %d times", dup.Count)); err != nil {
			return err
		}
	}
	for _, m := range report.Anomalies.MissingDestinations {
		if _, err = tx.ExecContext(ctx, insertAnomalySQL,
			uuid.New(), report.RunID, "missing_destination", m.PONumber, "warning",
			fmt.Sprintf("destination %q", m.Destination)); err != nil {
			return err
		}
	}
	for _, v := range report.Anomalies.VendorQualityIssues {
		if _, err = tx.ExecContext(ctx, insertAnomalySQL,
			uuid.New(), report.RunID, "vendor_quality", v.Vendor, string(v.Severity),
			fmt.Sprintf("%d of %d orders delayed (%s%%)", v.DelayedCount, v.OrderCount, v.DelayRate)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *ReportStore) ensureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, s.cfg.Schema),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.tracking_runs (
			id UUID PRIMARY KEY,
			generated_at TIMESTAMPTZ NOT NULL,
			date_mode TEXT NOT NULL,
			total_orders INTEGER NOT NULL,
			total_quantity BIGINT NOT NULL,
			shipped_count INTEGER NOT NULL,
			delayed_count INTEGER NOT NULL,
			warning_count INTEGER NOT NULL,
			critical_count INTEGER NOT NULL,
			on_track_count INTEGER NOT NULL,
			shipped_rate TEXT NOT NULL,
			delay_rate TEXT NOT NULL,
			run_tag TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, s.cfg.Schema),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.tracking_anomalies (
			id UUID PRIMARY KEY,
			run_id UUID NOT NULL REFERENCES %s.tracking_runs(id),
			kind TEXT NOT NULL,
			po_number TEXT NOT NULL,
			severity TEXT NOT NULL,
			detail TEXT NOT NULL
		)`, s.cfg.Schema, s.cfg.Schema),
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// duplicateSeverity grades a duplicate count
func duplicateSeverity(count int) string {
	if count > 2 {
		return "critical"
	}
	return "warning"
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
