package entities

import (
	"fmt"
	"time"
)

// UnknownValue is the sentinel used for absent dimensional attributes
const UnknownValue = "Unknown"

// Stage identifies one step of the production ledger, in process order
type Stage int

const (
	StageCutting Stage = iota
	StagePreSewing
	StageSewingInput
	StageSewingBalance
	StageOutsourcing
	StageAssembly
	StageWarehouseIn
	StageWarehouseOut
)

// StageCount is the number of production stages tracked per order
const StageCount = 8

// String method for Stage enum
func (s Stage) String() string {
	switch s {
	case StageCutting:
		return "Cutting"
	case StagePreSewing:
		return "PreSewing"
	case StageSewingInput:
		return "SewingInput"
	case StageSewingBalance:
		return "SewingBalance"
	case StageOutsourcing:
		return "Outsourcing"
	case StageAssembly:
		return "Assembly"
	case StageWarehouseIn:
		return "WarehouseIn"
	case StageWarehouseOut:
		return "WarehouseOut"
	default:
		return UnknownValue
	}
}

// AllStages returns the production stages in process order
func AllStages() []Stage {
	return []Stage{
		StageCutting,
		StagePreSewing,
		StageSewingInput,
		StageSewingBalance,
		StageOutsourcing,
		StageAssembly,
		StageWarehouseIn,
		StageWarehouseOut,
	}
}

// StageStatus represents the completion status of one stage
type StageStatus int

const (
	StagePending StageStatus = iota
	StagePartial
	StageCompleted
)

// String method for StageStatus enum
func (s StageStatus) String() string {
	switch s {
	case StagePending:
		return "Pending"
	case StagePartial:
		return "Partial"
	case StageCompleted:
		return "Completed"
	default:
		return UnknownValue
	}
}

// StageLedger holds the completed count for one production stage
type StageLedger struct {
	Completed int64
}

// DateMode selects which date field drives month grouping and date-range filtering
type DateMode int

const (
	DateModeCRD DateMode = iota
	DateModeSDD
)

// String method for DateMode enum
func (m DateMode) String() string {
	switch m {
	case DateModeCRD:
		return "CRD"
	case DateModeSDD:
		return "SDD"
	default:
		return UnknownValue
	}
}

// OrderRecord is the canonical, immutable per-order manufacturing record.
// It is produced once at the ingestion boundary; all legacy column spellings
// are resolved there, so the core never branches on alternate field names.
type OrderRecord struct {
	PONumber    string
	Quantity    int64
	CRD         *time.Time
	SDD         *time.Time
	Code04      bool
	Production  [StageCount]StageLedger
	Factory     string
	Destination string
	Model       string
	Vendor      string
	Buyer       string
}

// NewOrderRecord creates a validated OrderRecord with sentinel defaults
// applied to the dimensional attributes
func NewOrderRecord(poNumber string, quantity int64) (*OrderRecord, error) {
	if poNumber == "" {
		return nil, fmt.Errorf("po number cannot be empty")
	}
	if quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative, got %d", quantity)
	}
	return &OrderRecord{
		PONumber:    poNumber,
		Quantity:    quantity,
		Factory:     UnknownValue,
		Destination: UnknownValue,
		Model:       UnknownValue,
		Vendor:      UnknownValue,
		Buyer:       UnknownValue,
	}, nil
}

// Completed returns the completed count for a stage
func (r *OrderRecord) Completed(stage Stage) int64 {
	if stage < 0 || int(stage) >= StageCount {
		return 0
	}
	return r.Production[stage].Completed
}

// Pending returns the outstanding quantity for a stage, never negative
func (r *OrderRecord) Pending(stage Stage) int64 {
	pending := r.Quantity - r.Completed(stage)
	if pending < 0 {
		return 0
	}
	return pending
}

// StageStatus derives the status of one stage from its completed count
func (r *OrderRecord) StageStatus(stage Stage) StageStatus {
	completed := r.Completed(stage)
	switch {
	case r.Quantity > 0 && completed >= r.Quantity:
		return StageCompleted
	case completed > 0:
		return StagePartial
	default:
		return StagePending
	}
}

// CompletionRatio returns completed/quantity for a stage in [0, 1].
// Orders with zero quantity report 0 rather than dividing by zero.
func (r *OrderRecord) CompletionRatio(stage Stage) float64 {
	if r.Quantity <= 0 {
		return 0
	}
	ratio := float64(r.Completed(stage)) / float64(r.Quantity)
	if ratio > 1 {
		return 1
	}
	return ratio
}

// OperativeDate returns the date selected by the given mode, or nil
func (r *OrderRecord) OperativeDate(mode DateMode) *time.Time {
	if mode == DateModeSDD {
		return r.SDD
	}
	return r.CRD
}
