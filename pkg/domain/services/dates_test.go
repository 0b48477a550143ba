package services

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseFlexibleDate_Formats(t *testing.T) {
	now := date(2026, time.March, 15)

	tests := []struct {
		name  string
		input any
		want  time.Time
		ok    bool
	}{
		{"iso_dash", "2026-01-05", date(2026, time.January, 5), true},
		{"iso_dot", "2026.01.05", date(2026, time.January, 5), true},
		{"iso_slash", "2026/01/05", date(2026, time.January, 5), true},
		{"iso_single_digit", "2026-1-5", date(2026, time.January, 5), true},
		{"partial_month_day", "1/5", date(2026, time.January, 5), true},
		{"partial_padded", "01/31", date(2026, time.January, 31), true},
		{"whitespace", "  2026-01-05  ", date(2026, time.January, 5), true},
		{"empty", "", time.Time{}, false},
		{"time_sentinel", "00:00:00", time.Time{}, false},
		{"marker_original", "original", time.Time{}, false},
		{"marker_current", "Current", time.Time{}, false},
		{"marker_plan", "plan", time.Time{}, false},
		{"marker_actual", "actual", time.Time{}, false},
		{"marker_total", "TOTAL", time.Time{}, false},
		{"garbage", "not-a-date", time.Time{}, false},
		{"year_too_early", "2019-12-31", time.Time{}, false},
		{"year_too_late", "2101-01-01", time.Time{}, false},
		{"year_lower_bound", "2020-01-01", date(2020, time.January, 1), true},
		{"year_upper_bound", "2100-12-31", date(2100, time.December, 31), true},
		{"partial_bad_month", "13/5", time.Time{}, false},
		{"partial_bad_day", "1/32", time.Time{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseFlexibleDateAt(tc.input, now)
			if ok != tc.ok {
				t.Fatalf("ParseFlexibleDateAt(%v) ok = %v, want %v", tc.input, ok, tc.ok)
			}
			if ok && !got.Equal(tc.want) {
				t.Errorf("ParseFlexibleDateAt(%v) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseFlexibleDate_SerialDays(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  time.Time
		ok    bool
	}{
		// 2026-01-01 is serial day 46023 from the 1899-12-30 epoch
		{"serial_int", 46023, date(2026, time.January, 1), true},
		{"serial_int64", int64(46023), date(2026, time.January, 1), true},
		{"serial_float", float64(46023), date(2026, time.January, 1), true},
		{"serial_string", "46023", date(2026, time.January, 1), true},
		{"serial_fractional", 46023.75, date(2026, time.January, 1), true},
		{"serial_below_window", 1, time.Time{}, false},
		{"serial_above_window", 100000, time.Time{}, false},
		{"serial_zero", 0, time.Time{}, false},
		{"serial_negative", -5, time.Time{}, false},
		// Inside the serial window but maps to a year before 2020
		{"serial_year_too_early", 10000, time.Time{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseFlexibleDate(tc.input)
			if ok != tc.ok {
				t.Fatalf("ParseFlexibleDate(%v) ok = %v, want %v", tc.input, ok, tc.ok)
			}
			if ok && !got.Equal(tc.want) {
				t.Errorf("ParseFlexibleDate(%v) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseFlexibleDate_NativeTime(t *testing.T) {
	want := date(2026, time.June, 1)

	got, ok := ParseFlexibleDate(want)
	if !ok || !got.Equal(want) {
		t.Errorf("time.Time pass-through failed: got %v ok=%v", got, ok)
	}

	got, ok = ParseFlexibleDate(&want)
	if !ok || !got.Equal(want) {
		t.Errorf("*time.Time pass-through failed: got %v ok=%v", got, ok)
	}

	if _, ok := ParseFlexibleDate(time.Time{}); ok {
		t.Error("zero time.Time should not parse")
	}
	var nilTime *time.Time
	if _, ok := ParseFlexibleDate(nilTime); ok {
		t.Error("nil *time.Time should not parse")
	}
	if _, ok := ParseFlexibleDate(struct{}{}); ok {
		t.Error("unsupported type should not parse")
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same_day", date(2026, time.January, 1), date(2026, time.January, 1), 0},
		{"one_day", date(2026, time.January, 1), date(2026, time.January, 2), 1},
		{"one_month", date(2026, time.January, 1), date(2026, time.February, 1), 31},
		{"negative", date(2026, time.January, 10), date(2026, time.January, 7), -3},
		{"across_year", date(2025, time.December, 30), date(2026, time.January, 2), 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysBetween(tc.a, tc.b); got != tc.want {
				t.Errorf("DaysBetween(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestDaysUntil_CeilingPolicy(t *testing.T) {
	deadline := date(2026, time.January, 10)

	// Partway through the 9th the 10th is still a full day away under ceiling
	now := time.Date(2026, time.January, 9, 18, 0, 0, 0, time.UTC)
	if got := DaysUntil(now, deadline); got != 1 {
		t.Errorf("DaysUntil 6h before midnight = %d, want 1", got)
	}

	// Later the same deadline day counts as 0, not -1
	now = time.Date(2026, time.January, 10, 6, 0, 0, 0, time.UTC)
	if got := DaysUntil(now, deadline); got != 0 {
		t.Errorf("DaysUntil on deadline day = %d, want 0", got)
	}

	// Past deadlines go negative
	now = date(2026, time.January, 12)
	if got := DaysUntil(now, deadline); got != -2 {
		t.Errorf("DaysUntil past deadline = %d, want -2", got)
	}
}

func TestMonthKey(t *testing.T) {
	if got := MonthKey(date(2026, time.March, 7)); got != "2026-03" {
		t.Errorf("MonthKey = %q, want 2026-03", got)
	}
	// Lexicographic order must match chronological order
	if MonthKey(date(2026, time.September, 1)) >= MonthKey(date(2026, time.October, 1)) {
		t.Error("month keys must sort chronologically")
	}
}
