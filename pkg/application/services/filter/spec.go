package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/factorydesk/ordertrack/pkg/domain/entities"
)

// Combinator selects how active predicates are combined
type Combinator int

const (
	// CombineAll requires every active predicate to match (AND)
	CombineAll Combinator = iota
	// CombineAny requires at least one active predicate to match (OR)
	CombineAny
)

// String method for Combinator enum
func (c Combinator) String() string {
	switch c {
	case CombineAll:
		return "AND"
	case CombineAny:
		return "OR"
	default:
		return entities.UnknownValue
	}
}

// QuickFilter is one of the fixed, named one-click filters
type QuickFilter int

const (
	QuickNone QuickFilter = iota
	QuickDelayed
	QuickWarning
	QuickCritical
	// Deadline urgency tiers, bucketed by days until CRD, shipped orders excluded
	QuickDueNow  // <= 0 days (due today or overdue)
	QuickDue1To3 // 1-3 days
	QuickDue4To7 // 4-7 days
)

// String method for QuickFilter enum
func (q QuickFilter) String() string {
	switch q {
	case QuickNone:
		return "None"
	case QuickDelayed:
		return "Delayed"
	case QuickWarning:
		return "Warning"
	case QuickCritical:
		return "Critical"
	case QuickDueNow:
		return "DueNow"
	case QuickDue1To3:
		return "Due1To3"
	case QuickDue4To7:
		return "Due4To7"
	default:
		return entities.UnknownValue
	}
}

// ParseQuickFilter resolves a quick filter by its external name
func ParseQuickFilter(s string) (QuickFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return QuickNone, nil
	case "delayed":
		return QuickDelayed, nil
	case "warning":
		return QuickWarning, nil
	case "critical":
		return QuickCritical, nil
	case "duenow", "due-now":
		return QuickDueNow, nil
	case "due1to3", "due-1-3":
		return QuickDue1To3, nil
	case "due4to7", "due-4-7":
		return QuickDue4To7, nil
	default:
		return QuickNone, fmt.Errorf("unknown quick filter: %s", s)
	}
}

// ParseStatus resolves a named status predicate by its external name
func ParseStatus(s string) (entities.OrderState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ontrack", "on-track", "pending":
		return entities.StateOnTrack, nil
	case "shipped":
		return entities.StateShipped, nil
	case "delayed":
		return entities.StateDelayed, nil
	case "warning":
		return entities.StateWarning, nil
	case "critical":
		return entities.StateCritical, nil
	default:
		return entities.StateOnTrack, fmt.Errorf("unknown status: %s", s)
	}
}

// Spec is a compound filter specification. Zero-valued fields are inactive;
// a Spec with no active fields passes every record through unchanged.
type Spec struct {
	Search      string
	Month       string // lexicographic YYYY-MM key against the operative date
	Destination string
	Vendor      string
	Factory     string
	Status      *entities.OrderState
	Quick       QuickFilter
	DateFrom    *time.Time
	DateTo      *time.Time
	MinQty      *int64
	MaxQty      *int64
	Combine     Combinator
}

// fingerprint serializes the spec into a stable cache-key component
func (s Spec) fingerprint() string {
	var b strings.Builder
	b.WriteString(s.Search)
	b.WriteByte('|')
	b.WriteString(s.Month)
	b.WriteByte('|')
	b.WriteString(s.Destination)
	b.WriteByte('|')
	b.WriteString(s.Vendor)
	b.WriteByte('|')
	b.WriteString(s.Factory)
	b.WriteByte('|')
	if s.Status != nil {
		b.WriteString(s.Status.String())
	}
	b.WriteByte('|')
	b.WriteString(s.Quick.String())
	b.WriteByte('|')
	if s.DateFrom != nil {
		b.WriteString(s.DateFrom.Format("2006-01-02"))
	}
	b.WriteByte('|')
	if s.DateTo != nil {
		b.WriteString(s.DateTo.Format("2006-01-02"))
	}
	b.WriteByte('|')
	if s.MinQty != nil {
		fmt.Fprintf(&b, "%d", *s.MinQty)
	}
	b.WriteByte('|')
	if s.MaxQty != nil {
		fmt.Fprintf(&b, "%d", *s.MaxQty)
	}
	b.WriteByte('|')
	b.WriteString(s.Combine.String())
	return b.String()
}
