package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/factorydesk/ordertrack/pkg/application/dto"
	"github.com/factorydesk/ordertrack/pkg/application/services/aggregate"
	"github.com/factorydesk/ordertrack/pkg/application/services/analytics"
	"github.com/factorydesk/ordertrack/pkg/application/services/filter"
	"github.com/factorydesk/ordertrack/pkg/domain/entities"
	domainsvc "github.com/factorydesk/ordertrack/pkg/domain/services"
)

// ReportConfig parameterizes one report pass
type ReportConfig struct {
	DateMode entities.DateMode
	Metric   aggregate.Metric
	Filter   filter.Spec
	// Now anchors urgency calculations (zero value = time.Now())
	Now time.Time
}

// ReportService orchestrates one evaluation pass: classify, filter,
// aggregate and analyze a record snapshot into a TrackingReport
type ReportService struct {
	filterEngine *filter.Engine
}

// NewReportService creates a report service around a filter engine
func NewReportService(filterEngine *filter.Engine) *ReportService {
	return &ReportService{filterEngine: filterEngine}
}

// InvalidateCache drops filter results; call after every snapshot replacement
func (s *ReportService) InvalidateCache() {
	s.filterEngine.InvalidateCache()
}

// BuildReport runs the full pipeline over one immutable snapshot.
// The filter narrows the set first; aggregation and analytics consume the
// narrowed set so every report section describes the same records.
func (s *ReportService) BuildReport(records []*entities.OrderRecord, config ReportConfig) *dto.TrackingReport {
	now := config.Now
	if now.IsZero() {
		now = time.Now()
	}

	filtered := s.filterEngine.Apply(records, config.Filter, config.DateMode)

	report := &dto.TrackingReport{
		RunID:         uuid.NewString(),
		GeneratedAt:   now,
		DateMode:      config.DateMode.String(),
		Summary:       summarize(filtered, now),
		ByMonth:       aggregate.GroupBy(filtered, aggregate.DimMonth, config.Metric, config.DateMode, now),
		ByDestination: aggregate.GroupBy(filtered, aggregate.DimDestination, config.Metric, config.DateMode, now),
		ByModel:       aggregate.GroupBy(filtered, aggregate.DimModel, config.Metric, config.DateMode, now),
		ByVendor:      aggregate.GroupBy(filtered, aggregate.DimVendor, config.Metric, config.DateMode, now),
		ByFactory:     aggregate.GroupBy(filtered, aggregate.DimFactory, config.Metric, config.DateMode, now),
		Anomalies:     analytics.Analyze(filtered, now),
		VendorScores:  analytics.VendorScores(filtered, now),
		Bottleneck:    analytics.PredictBottleneck(filtered),
	}
	return report
}

func summarize(records []*entities.OrderRecord, now time.Time) dto.SummaryStats {
	stats := dto.SummaryStats{TotalOrders: len(records)}

	for _, rec := range records {
		stats.TotalQuantity += rec.Quantity
		switch domainsvc.Classify(rec, now).State {
		case entities.StateShipped:
			stats.ShippedCount++
		case entities.StateDelayed:
			stats.DelayedCount++
		case entities.StateWarning:
			stats.WarningCount++
		case entities.StateCritical:
			stats.CriticalCount++
		default:
			stats.OnTrackCount++
		}
	}

	stats.ShippedRate = percent(int64(stats.ShippedCount), int64(stats.TotalOrders))
	stats.DelayRate = percent(int64(stats.DelayedCount), int64(stats.TotalOrders))
	return stats
}

// percent renders numerator/denominator as a two-decimal percentage string
func percent(numerator, denominator int64) string {
	if denominator == 0 {
		return "0.00"
	}
	return decimal.NewFromInt(numerator).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(denominator)).
		StringFixed(2)
}
