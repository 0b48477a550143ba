package services

import (
	"time"

	"github.com/factorydesk/ordertrack/pkg/domain/entities"
)

// Severity band boundaries for delayed orders, in days of slip
const (
	minorDelayMaxDays    = 3
	moderateDelayMaxDays = 7
)

// Day windows for the warning and critical predicates
const (
	warningGapMaxDays  = 3
	criticalWindowDays = 3
)

// Priority score weights. The score only orders records for display; it is
// deliberately coarse and never feeds back into classification.
const (
	severityBandWeight   = 100
	delayDaysCap         = 30
	quantityBonusDivisor = 500
	quantityBonusCap     = 40
	completionPenalty    = 50
)

// Classify derives the operational state of one order record at the given
// time. It is a total function: missing or unparseable dates make the
// corresponding predicate false rather than failing, so a malformed record
// degrades to OnTrack instead of aborting a batch.
//
// Priority order, top to bottom, first match wins:
//
//	Shipped  - warehouse-out covered the full quantity
//	Delayed  - SDD slipped past CRD without a Code04 approval
//	Warning  - SDD lands within 3 days before (or on) CRD
//	Critical - CRD itself is at most 3 days away
//	OnTrack  - everything else
func Classify(rec *entities.OrderRecord, now time.Time) entities.Classification {
	c := entities.Classification{State: entities.StateOnTrack}

	if isShipped(rec) {
		c.State = entities.StateShipped
		return c
	}

	if delayDays, delayed := delayDays(rec); delayed {
		c.State = entities.StateDelayed
		c.DelayDays = delayDays
		c.Severity = delaySeverity(delayDays)
		c.Priority = priorityScore(rec, c)
		return c
	}

	if isWarning(rec) {
		c.State = entities.StateWarning
		c.Priority = priorityScore(rec, c)
		return c
	}

	if isCritical(rec, now) {
		c.State = entities.StateCritical
		c.Priority = priorityScore(rec, c)
		return c
	}

	return c
}

func isShipped(rec *entities.OrderRecord) bool {
	return rec.Quantity > 0 && rec.Completed(entities.StageWarehouseOut) >= rec.Quantity
}

// delayDays reports whether the order is delayed and by how many days.
// A Code04 approval exempts the order regardless of the date gap.
func delayDays(rec *entities.OrderRecord) (int, bool) {
	if rec.Code04 || rec.CRD == nil || rec.SDD == nil {
		return 0, false
	}
	if !rec.SDD.After(*rec.CRD) {
		return 0, false
	}
	days := DaysBetween(*rec.CRD, *rec.SDD)
	if days < 0 {
		days = 0
	}
	return days, true
}

// isWarning holds when the scheduled date lands on or up to 3 days before the
// required date. The gap is measured as DaysBetween(SDD, CRD), i.e. CRD minus
// SDD; with only one of the two dates present the predicate is false.
func isWarning(rec *entities.OrderRecord) bool {
	if rec.CRD == nil || rec.SDD == nil {
		return false
	}
	gap := DaysBetween(*rec.SDD, *rec.CRD)
	return gap >= 0 && gap <= warningGapMaxDays
}

// isCritical holds when the customer required date is at most 3 days away,
// regardless of what the factory scheduled
func isCritical(rec *entities.OrderRecord, now time.Time) bool {
	if rec.CRD == nil {
		return false
	}
	remaining := DaysUntil(now, *rec.CRD)
	return remaining >= 0 && remaining <= criticalWindowDays
}

func delaySeverity(delayDays int) entities.DelaySeverity {
	switch {
	case delayDays > moderateDelayMaxDays:
		return entities.SeveritySevere
	case delayDays > minorDelayMaxDays:
		return entities.SeverityModerate
	case delayDays >= 1:
		return entities.SeverityMinor
	default:
		return entities.SeverityNone
	}
}

// priorityScore combines the severity band, the raw delay size (capped),
// a bonus for large orders, and a penalty for low warehouse-out completion.
// Higher scores sort first in displays.
func priorityScore(rec *entities.OrderRecord, c entities.Classification) int {
	score := int(c.Severity) * severityBandWeight

	delay := c.DelayDays
	if delay > delayDaysCap {
		delay = delayDaysCap
	}
	score += delay

	bonus := rec.Quantity / quantityBonusDivisor
	if bonus > quantityBonusCap {
		bonus = quantityBonusCap
	}
	score += int(bonus)

	completion := rec.CompletionRatio(entities.StageWarehouseOut)
	score += int((1 - completion) * completionPenalty)

	return score
}
