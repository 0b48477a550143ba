package entities

// OrderState is the operational classification of one order.
// Exactly one state holds for any record; states are evaluated in
// priority order with Shipped overriding everything below it.
type OrderState int

const (
	StateOnTrack OrderState = iota
	StateShipped
	StateDelayed
	StateWarning
	StateCritical
)

// String method for OrderState enum
func (s OrderState) String() string {
	switch s {
	case StateOnTrack:
		return "OnTrack"
	case StateShipped:
		return "Shipped"
	case StateDelayed:
		return "Delayed"
	case StateWarning:
		return "Warning"
	case StateCritical:
		return "Critical"
	default:
		return UnknownValue
	}
}

// DelaySeverity bands the size of a schedule slip
type DelaySeverity int

const (
	SeverityNone DelaySeverity = iota
	SeverityMinor
	SeverityModerate
	SeveritySevere
)

// String method for DelaySeverity enum
func (s DelaySeverity) String() string {
	switch s {
	case SeverityNone:
		return "None"
	case SeverityMinor:
		return "Minor"
	case SeverityModerate:
		return "Moderate"
	case SeveritySevere:
		return "Severe"
	default:
		return UnknownValue
	}
}

// Classification is the derived operational state of one order.
// It is always recomputed from the record, never stored as mutable state.
type Classification struct {
	State     OrderState
	DelayDays int
	Severity  DelaySeverity
	// Priority orders records for display; it plays no part in classification
	Priority int
}

// IsShipped reports whether the order has fully left the warehouse
func (c Classification) IsShipped() bool { return c.State == StateShipped }

// IsDelayed reports whether the scheduled date slipped past the required date
func (c Classification) IsDelayed() bool { return c.State == StateDelayed }

// IsWarning reports whether the schedule runs within the warning gap of the deadline
func (c Classification) IsWarning() bool { return c.State == StateWarning }

// IsCritical reports whether the deadline is imminent
func (c Classification) IsCritical() bool { return c.State == StateCritical }
