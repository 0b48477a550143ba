package dto

import (
	"time"

	"github.com/factorydesk/ordertrack/pkg/application/services/aggregate"
	"github.com/factorydesk/ordertrack/pkg/application/services/analytics"
)

// SummaryStats are the headline counters for one evaluation pass.
// Rates are fixed two-decimal percentage strings; presentation and export
// collaborators rely on these exact field names staying stable.
type SummaryStats struct {
	TotalOrders   int    `json:"totalOrders"`
	TotalQuantity int64  `json:"totalQuantity"`
	ShippedCount  int    `json:"shippedCount"`
	DelayedCount  int    `json:"delayedCount"`
	WarningCount  int    `json:"warningCount"`
	CriticalCount int    `json:"criticalCount"`
	OnTrackCount  int    `json:"onTrackCount"`
	ShippedRate   string `json:"shippedRate"`
	DelayRate     string `json:"delayRate"`
}

// TrackingReport is the complete output of one tracking evaluation pass
type TrackingReport struct {
	RunID         string                       `json:"runId"`
	GeneratedAt   time.Time                    `json:"generatedAt"`
	DateMode      string                       `json:"dateMode"`
	Summary       SummaryStats                 `json:"summary"`
	ByMonth       []aggregate.GroupSummary     `json:"byMonth"`
	ByDestination []aggregate.GroupSummary     `json:"byDestination"`
	ByModel       []aggregate.GroupSummary     `json:"byModel"`
	ByVendor      []aggregate.GroupSummary     `json:"byVendor"`
	ByFactory     []aggregate.GroupSummary     `json:"byFactory"`
	Anomalies     *analytics.Report            `json:"anomalies"`
	VendorScores  []analytics.VendorScore      `json:"vendorScores"`
	Bottleneck    *analytics.BottleneckReport  `json:"bottleneck,omitempty"`
}
