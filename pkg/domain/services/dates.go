package services

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Spreadsheet serial day numbers count days since 1899-12-30. Values outside
// the sanity window are treated as non-dates rather than wildly wrong dates.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const (
	serialDayMin = 1
	serialDayMax = 100000

	minAcceptedYear = 2020
	maxAcceptedYear = 2100
)

// Textual markers that appear in date columns of real worksheets but are not dates
var dateSentinels = map[string]bool{
	"00:00:00": true,
	"original": true,
	"current":  true,
	"plan":     true,
	"actual":   true,
	"total":    true,
}

var dateLayouts = []string{
	"2006-01-02",
	"2006.01.02",
	"2006/01/02",
	"2006-1-2",
	"2006.1.2",
	"2006/1/2",
}

// ParseFlexibleDate converts the heterogeneous date representations found in
// order worksheets into a time.Time. It accepts ISO-like strings, partial
// MM/DD strings (current year assumed), spreadsheet serial day numbers, and
// native time.Time values. Anything unparseable yields ok=false, never an
// error: callers treat a failed parse as "no date".
func ParseFlexibleDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v, true
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	case string:
		return parseDateString(v, time.Now())
	case int:
		return fromSerialDay(float64(v))
	case int64:
		return fromSerialDay(float64(v))
	case float64:
		return fromSerialDay(v)
	default:
		return time.Time{}, false
	}
}

// ParseFlexibleDateAt is ParseFlexibleDate with an explicit reference time
// for resolving partial MM/DD values, used by tests and replayed ingestions.
func ParseFlexibleDateAt(value any, now time.Time) (time.Time, bool) {
	if s, ok := value.(string); ok {
		return parseDateString(s, now)
	}
	return ParseFlexibleDate(value)
}

func parseDateString(raw string, now time.Time) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || dateSentinels[strings.ToLower(s)] {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return checkYear(t)
		}
	}

	// Partial MM/DD assumes the current year; ambiguity is accepted, not an error
	if t, ok := parsePartialDate(s, now); ok {
		return t, true
	}

	// Numeric strings are spreadsheet serial day numbers
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromSerialDay(f)
	}

	return time.Time{}, false
}

func parsePartialDate(s string, now time.Time) (time.Time, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return time.Time{}, false
	}
	month, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	day, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

func fromSerialDay(serial float64) (time.Time, bool) {
	if serial <= serialDayMin || serial >= serialDayMax {
		return time.Time{}, false
	}
	t := serialEpoch.Add(time.Duration(math.Floor(serial)) * 24 * time.Hour)
	return checkYear(t)
}

func checkYear(t time.Time) (time.Time, bool) {
	if t.Year() < minAcceptedYear || t.Year() > maxAcceptedYear {
		return time.Time{}, false
	}
	return t, true
}

// DaysBetween returns the whole-day delta from a to b using plain rounding.
// Positive when b is after a. Use this for gaps between two calendar dates.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// DaysUntil returns the whole days remaining from now until deadline using
// ceiling rounding, so a deadline later today still counts as 0 days away
// and tomorrow counts as 1. Use this whenever the result feeds an urgency
// threshold; callers must not substitute DaysBetween here.
func DaysUntil(now, deadline time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}

// MonthKey formats a date as a lexicographically sortable YYYY-MM key
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
