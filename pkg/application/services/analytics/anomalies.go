package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/factorydesk/ordertrack/pkg/domain/entities"
	"github.com/factorydesk/ordertrack/pkg/domain/services"
)

// Severity grades an anomaly finding
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Detection thresholds
const (
	outlierZScore         = 3
	criticalZScore        = 5
	processDelayWindow    = 7
	processDelayCritical  = 3
	processDelayMaxRatio  = 0.5
	dateGapLowerExclusive = -30
	dateGapUpperInclusive = 180
	dateGapCriticalAbs    = 365
	vendorMinOrders       = 5
	vendorDelayRateWarn   = 0.30
	vendorDelayRateCrit   = 0.50
)

// QuantityOutlier flags a statistically abnormal order quantity
type QuantityOutlier struct {
	PONumber string   `json:"poNumber"`
	Quantity int64    `json:"quantity"`
	ZScore   float64  `json:"zScore"`
	Severity Severity `json:"severity"`
}

// ProcessDelay flags an order close to its deadline with too little shipped
type ProcessDelay struct {
	PONumber        string   `json:"poNumber"`
	DaysToCRD       int      `json:"daysToCrd"`
	CompletionRatio float64  `json:"completionRatio"`
	Severity        Severity `json:"severity"`
}

// DateGapAnomaly flags an implausible spread between SDD and CRD
type DateGapAnomaly struct {
	PONumber string   `json:"poNumber"`
	GapDays  int      `json:"gapDays"`
	Severity Severity `json:"severity"`
}

// DuplicatePO reports a purchase order number appearing more than once
type DuplicatePO struct {
	PONumber string `json:"poNumber"`
	Count    int    `json:"count"`
}

// MissingDestination reports a record without a usable destination
type MissingDestination struct {
	PONumber    string `json:"poNumber"`
	Destination string `json:"destination"`
}

// VendorQualityIssue flags a vendor whose delay rate crosses the threshold
type VendorQualityIssue struct {
	Vendor       string   `json:"vendor"`
	OrderCount   int      `json:"orderCount"`
	DelayedCount int      `json:"delayedCount"`
	DelayRate    string   `json:"delayRate"`
	Severity     Severity `json:"severity"`
}

// Report bundles all anomaly sections for one analysis run.
// Sections are independent; each tolerates an empty record set and comes
// back empty-but-well-shaped rather than failing.
type Report struct {
	RunID               string               `json:"runId"`
	GeneratedAt         time.Time            `json:"generatedAt"`
	RecordCount         int                  `json:"recordCount"`
	QuantityOutliers    []QuantityOutlier    `json:"quantityOutliers"`
	ProcessDelays       []ProcessDelay       `json:"processDelays"`
	DateGapAnomalies    []DateGapAnomaly     `json:"dateGapAnomalies"`
	DuplicatePOs        []DuplicatePO        `json:"duplicatePoNumbers"`
	MissingDestinations []MissingDestination `json:"missingDestinations"`
	VendorQualityIssues []VendorQualityIssue `json:"vendorQualityIssues"`
}

// Analyze runs every anomaly detector over the record set
func Analyze(records []*entities.OrderRecord, now time.Time) *Report {
	return &Report{
		RunID:               uuid.NewString(),
		GeneratedAt:         now,
		RecordCount:         len(records),
		QuantityOutliers:    DetectQuantityOutliers(records),
		ProcessDelays:       DetectProcessDelays(records, now),
		DateGapAnomalies:    DetectDateGapAnomalies(records),
		DuplicatePOs:        DetectDuplicatePOs(records),
		MissingDestinations: DetectMissingDestinations(records),
		VendorQualityIssues: DetectVendorQualityIssues(records, now),
	}
}

// DetectQuantityOutliers flags quantities more than 3 population standard
// deviations from the mean of the positive quantities. A zero deviation
// (identical quantities) yields no outliers.
func DetectQuantityOutliers(records []*entities.OrderRecord) []QuantityOutlier {
	var positive []*entities.OrderRecord
	var sum float64
	for _, rec := range records {
		if rec.Quantity > 0 {
			positive = append(positive, rec)
			sum += float64(rec.Quantity)
		}
	}
	if len(positive) == 0 {
		return []QuantityOutlier{}
	}

	mean := sum / float64(len(positive))
	var variance float64
	for _, rec := range positive {
		d := float64(rec.Quantity) - mean
		variance += d * d
	}
	stdDev := math.Sqrt(variance / float64(len(positive)))
	if stdDev == 0 {
		return []QuantityOutlier{}
	}

	outliers := []QuantityOutlier{}
	for _, rec := range positive {
		z := (float64(rec.Quantity) - mean) / stdDev
		if math.Abs(z) <= outlierZScore {
			continue
		}
		severity := SeverityWarning
		if math.Abs(z) > criticalZScore {
			severity = SeverityCritical
		}
		outliers = append(outliers, QuantityOutlier{
			PONumber: rec.PONumber,
			Quantity: rec.Quantity,
			ZScore:   z,
			Severity: severity,
		})
	}
	return outliers
}

// DetectProcessDelays flags orders whose CRD is 0-7 days out while less than
// half the quantity has left the warehouse
func DetectProcessDelays(records []*entities.OrderRecord, now time.Time) []ProcessDelay {
	delays := []ProcessDelay{}
	for _, rec := range records {
		if rec.CRD == nil {
			continue
		}
		days := services.DaysUntil(now, *rec.CRD)
		if days < 0 || days > processDelayWindow {
			continue
		}
		ratio := rec.CompletionRatio(entities.StageWarehouseOut)
		if ratio >= processDelayMaxRatio {
			continue
		}
		severity := SeverityWarning
		if days <= processDelayCritical {
			severity = SeverityCritical
		}
		delays = append(delays, ProcessDelay{
			PONumber:        rec.PONumber,
			DaysToCRD:       days,
			CompletionRatio: ratio,
			Severity:        severity,
		})
	}
	return delays
}

// DetectDateGapAnomalies flags SDD-CRD gaps outside (-30, 180] days
func DetectDateGapAnomalies(records []*entities.OrderRecord) []DateGapAnomaly {
	anomalies := []DateGapAnomaly{}
	for _, rec := range records {
		if rec.CRD == nil || rec.SDD == nil {
			continue
		}
		gap := services.DaysBetween(*rec.CRD, *rec.SDD)
		if gap > dateGapLowerExclusive && gap <= dateGapUpperInclusive {
			continue
		}
		severity := SeverityWarning
		if gap > dateGapCriticalAbs || gap < -dateGapCriticalAbs {
			severity = SeverityCritical
		}
		anomalies = append(anomalies, DateGapAnomaly{
			PONumber: rec.PONumber,
			GapDays:  gap,
			Severity: severity,
		})
	}
	return anomalies
}

// DetectDuplicatePOs reports PO numbers used by more than one record.
// Duplicates are a detectable anomaly, never a precondition violation.
func DetectDuplicatePOs(records []*entities.OrderRecord) []DuplicatePO {
	counts := make(map[string]int)
	for _, rec := range records {
		counts[rec.PONumber]++
	}

	duplicates := []DuplicatePO{}
	for po, count := range counts {
		if count > 1 {
			duplicates = append(duplicates, DuplicatePO{PONumber: po, Count: count})
		}
	}
	sort.Slice(duplicates, func(i, j int) bool { return duplicates[i].PONumber < duplicates[j].PONumber })
	return duplicates
}

// DetectMissingDestinations reports records with blank or placeholder destinations
func DetectMissingDestinations(records []*entities.OrderRecord) []MissingDestination {
	missing := []MissingDestination{}
	for _, rec := range records {
		trimmed := strings.TrimSpace(rec.Destination)
		if trimmed == "" || trimmed == entities.UnknownValue || strings.EqualFold(trimmed, "N/A") {
			missing = append(missing, MissingDestination{
				PONumber:    rec.PONumber,
				Destination: rec.Destination,
			})
		}
	}
	return missing
}

// DetectVendorQualityIssues flags vendors with at least 5 orders whose delay
// rate exceeds 30%, grading anything past 50% critical
func DetectVendorQualityIssues(records []*entities.OrderRecord, now time.Time) []VendorQualityIssue {
	stats := vendorStats(records, now)

	issues := []VendorQualityIssue{}
	for _, vs := range stats {
		if vs.total < vendorMinOrders {
			continue
		}
		rate := float64(vs.delayed) / float64(vs.total)
		if rate <= vendorDelayRateWarn {
			continue
		}
		severity := SeverityWarning
		if rate > vendorDelayRateCrit {
			severity = SeverityCritical
		}
		issues = append(issues, VendorQualityIssue{
			Vendor:       vs.name,
			OrderCount:   vs.total,
			DelayedCount: vs.delayed,
			DelayRate:    percent(int64(vs.delayed), int64(vs.total)),
			Severity:     severity,
		})
	}
	sort.Slice(issues, func(i, j int) bool { return issues[i].Vendor < issues[j].Vendor })
	return issues
}
