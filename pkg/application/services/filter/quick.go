package filter

import (
	"time"

	"github.com/factorydesk/ordertrack/pkg/domain/entities"
	"github.com/factorydesk/ordertrack/pkg/domain/services"
)

// compileQuick converts a quick filter into a predicate. The classifier
// filters reuse the classification rules verbatim; the urgency tiers bucket
// by whole days until CRD (ceiling) and always exclude shipped orders.
func compileQuick(quick QuickFilter, now time.Time) predicate {
	switch quick {
	case QuickDelayed:
		return stateIs(entities.StateDelayed, now)
	case QuickWarning:
		return stateIs(entities.StateWarning, now)
	case QuickCritical:
		return stateIs(entities.StateCritical, now)
	case QuickDueNow:
		return dueWithin(now, -1<<31, 0)
	case QuickDue1To3:
		return dueWithin(now, 1, 3)
	case QuickDue4To7:
		return dueWithin(now, 4, 7)
	default:
		return func(*entities.OrderRecord) bool { return true }
	}
}

func stateIs(state entities.OrderState, now time.Time) predicate {
	return func(rec *entities.OrderRecord) bool {
		return services.Classify(rec, now).State == state
	}
}

func dueWithin(now time.Time, minDays, maxDays int) predicate {
	return func(rec *entities.OrderRecord) bool {
		if rec.CRD == nil {
			return false
		}
		if services.Classify(rec, now).IsShipped() {
			return false
		}
		remaining := services.DaysUntil(now, *rec.CRD)
		return remaining >= minDays && remaining <= maxDays
	}
}
