package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/factorydesk/ordertrack/pkg/domain/entities"
)

// BottleneckReport names the production stage with the lowest aggregate
// completion rate across the record set
type BottleneckReport struct {
	Stage          entities.Stage `json:"-"`
	StageName      string         `json:"stage"`
	CompletionRate string         `json:"completionRate"`
	PendingQty     int64          `json:"pendingQuantity"`
	AffectedOrders int            `json:"affectedOrders"`
}

// PredictBottleneck computes the aggregate completion rate of every stage
// except terminal warehouse-out and reports the lowest. The terminal stage
// is excluded because unshipped work always pools there. Returns nil when
// no stage has any quantity to measure.
func PredictBottleneck(records []*entities.OrderRecord) *BottleneckReport {
	var report *BottleneckReport
	var lowestRate float64

	for _, stage := range entities.AllStages() {
		if stage == entities.StageWarehouseOut {
			continue
		}

		var totalQty, completedQty, pendingQty int64
		affected := 0
		for _, rec := range records {
			if rec.Quantity <= 0 {
				continue
			}
			totalQty += rec.Quantity
			completed := rec.Completed(stage)
			if completed > rec.Quantity {
				completed = rec.Quantity
			}
			completedQty += completed
			if pending := rec.Pending(stage); pending > 0 {
				pendingQty += pending
				affected++
			}
		}
		if totalQty == 0 {
			continue
		}

		rate := float64(completedQty) / float64(totalQty)
		if report == nil || rate < lowestRate {
			lowestRate = rate
			report = &BottleneckReport{
				Stage:          stage,
				StageName:      stage.String(),
				CompletionRate: decimal.NewFromInt(completedQty).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(totalQty)).StringFixed(2),
				PendingQty:     pendingQty,
				AffectedOrders: affected,
			}
		}
	}

	return report
}
