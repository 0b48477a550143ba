package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/factorydesk/ordertrack/pkg/domain/entities"
	"github.com/factorydesk/ordertrack/pkg/domain/services"
)

// Score weights: completion dominates, on-time delivery seasons it
const (
	completionWeight = 70
	onTimeWeight     = 30
	topVendorCount   = 5
)

// VendorScore ranks one vendor by combined completion and on-time performance
type VendorScore struct {
	Vendor         string `json:"vendor"`
	OrderCount     int    `json:"orderCount"`
	CompletedCount int    `json:"completedCount"`
	DelayedCount   int    `json:"delayedCount"`
	CompletionRate string `json:"completionRate"`
	OnTimeRate     string `json:"onTimeRate"`
	Score          string `json:"score"`

	score float64
}

type vendorAccumulator struct {
	name      string
	total     int
	completed int
	delayed   int
}

func vendorStats(records []*entities.OrderRecord, now time.Time) []*vendorAccumulator {
	byVendor := make(map[string]*vendorAccumulator)
	var order []string

	for _, rec := range records {
		name := rec.Vendor
		if name == "" {
			name = entities.UnknownValue
		}
		vs, ok := byVendor[name]
		if !ok {
			vs = &vendorAccumulator{name: name}
			byVendor[name] = vs
			order = append(order, name)
		}
		vs.total++
		c := services.Classify(rec, now)
		if c.IsShipped() {
			vs.completed++
		}
		if c.IsDelayed() {
			vs.delayed++
		}
	}

	stats := make([]*vendorAccumulator, 0, len(order))
	for _, name := range order {
		stats = append(stats, byVendor[name])
	}
	return stats
}

// VendorScores ranks vendors by score = completionRate*70 + onTimeRate*30,
// where completionRate counts shipped orders and onTimeRate is the share of
// orders that did not slip. Returns at most the top 5, descending.
func VendorScores(records []*entities.OrderRecord, now time.Time) []VendorScore {
	stats := vendorStats(records, now)

	scores := make([]VendorScore, 0, len(stats))
	for _, vs := range stats {
		if vs.total == 0 {
			continue
		}
		completionRate := float64(vs.completed) / float64(vs.total)
		onTimeRate := 1 - float64(vs.delayed)/float64(vs.total)
		score := completionRate*completionWeight + onTimeRate*onTimeWeight

		scores = append(scores, VendorScore{
			Vendor:         vs.name,
			OrderCount:     vs.total,
			CompletedCount: vs.completed,
			DelayedCount:   vs.delayed,
			CompletionRate: percent(int64(vs.completed), int64(vs.total)),
			OnTimeRate:     percent(int64(vs.total-vs.delayed), int64(vs.total)),
			Score:          decimal.NewFromFloat(score).StringFixed(2),
			score:          score,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if len(scores) > topVendorCount {
		scores = scores[:topVendorCount]
	}
	return scores
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
