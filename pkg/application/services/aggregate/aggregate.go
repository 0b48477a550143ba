package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/factorydesk/ordertrack/pkg/domain/entities"
	"github.com/factorydesk/ordertrack/pkg/domain/services"
)

// Dimension is a grouping axis for the record set
type Dimension int

const (
	DimMonth Dimension = iota
	DimDestination
	DimModel
	DimVendor
	DimFactory
)

// String method for Dimension enum
func (d Dimension) String() string {
	switch d {
	case DimMonth:
		return "Month"
	case DimDestination:
		return "Destination"
	case DimModel:
		return "Model"
	case DimVendor:
		return "Vendor"
	case DimFactory:
		return "Factory"
	default:
		return entities.UnknownValue
	}
}

// Metric selects which warehouse stage counts as "completed"
type Metric int

const (
	MetricWarehouseIn Metric = iota
	MetricWarehouseOut
)

func (m Metric) stage() entities.Stage {
	if m == MetricWarehouseOut {
		return entities.StageWarehouseOut
	}
	return entities.StageWarehouseIn
}

// GroupSummary is the reduced view of one group. Rates are percentages
// rendered as fixed two-decimal strings; a zero denominator yields "0.00"
// rather than dividing. Downstream table and export collaborators depend
// on these exact field names and the rate format.
type GroupSummary struct {
	Key               string `json:"key"`
	OrderCount        int    `json:"orderCount"`
	TotalQuantity     int64  `json:"totalQuantity"`
	CompletedQuantity int64  `json:"completedQuantity"`
	DelayedCount      int    `json:"delayedCount"`
	DelayedQuantity   int64  `json:"delayedQuantity"`
	CompletionRate    string `json:"completionRate"`
	DelayRate         string `json:"delayRate"`
}

// GroupBy reduces the record set along one dimension. Month groups use the
// lexicographically sortable YYYY-MM key of the operative date (records
// without that date land in the Unknown group so totals stay conserved) and
// sort ascending; every other dimension sorts descending by total quantity.
func GroupBy(records []*entities.OrderRecord, dim Dimension, metric Metric, mode entities.DateMode, now time.Time) []GroupSummary {
	groups := make(map[string]*GroupSummary)
	completedStage := metric.stage()

	for _, rec := range records {
		key := groupKey(rec, dim, mode)
		summary, ok := groups[key]
		if !ok {
			summary = &GroupSummary{Key: key}
			groups[key] = summary
		}

		summary.OrderCount++
		summary.TotalQuantity += rec.Quantity

		completed := rec.Completed(completedStage)
		if completed > rec.Quantity {
			completed = rec.Quantity
		}
		summary.CompletedQuantity += completed

		if services.Classify(rec, now).IsDelayed() {
			summary.DelayedCount++
			summary.DelayedQuantity += rec.Quantity
		}
	}

	result := make([]GroupSummary, 0, len(groups))
	for _, summary := range groups {
		summary.CompletionRate = percent(summary.CompletedQuantity, summary.TotalQuantity)
		summary.DelayRate = percent(int64(summary.DelayedCount), int64(summary.OrderCount))
		result = append(result, *summary)
	}

	if dim == DimMonth {
		sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	} else {
		sort.Slice(result, func(i, j int) bool {
			if result[i].TotalQuantity != result[j].TotalQuantity {
				return result[i].TotalQuantity > result[j].TotalQuantity
			}
			return result[i].Key < result[j].Key
		})
	}

	return result
}

func groupKey(rec *entities.OrderRecord, dim Dimension, mode entities.DateMode) string {
	switch dim {
	case DimMonth:
		date := rec.OperativeDate(mode)
		if date == nil {
			return entities.UnknownValue
		}
		return services.MonthKey(*date)
	case DimDestination:
		return orUnknown(rec.Destination)
	case DimModel:
		return orUnknown(rec.Model)
	case DimVendor:
		return orUnknown(rec.Vendor)
	case DimFactory:
		return orUnknown(rec.Factory)
	default:
		return entities.UnknownValue
	}
}

func orUnknown(value string) string {
	if value == "" {
		return entities.UnknownValue
	}
	return value
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
