package entities

import (
	"testing"
	"time"
)

func TestNewOrderRecord_Validation(t *testing.T) {
	rec, err := NewOrderRecord("PO-1001", 500)
	if err != nil {
		t.Fatalf("expected valid record, got error: %v", err)
	}
	if rec.Destination != UnknownValue || rec.Vendor != UnknownValue {
		t.Errorf("dimensional attributes should default to %q", UnknownValue)
	}

	testCases := []struct {
		name        string
		poNumber    string
		quantity    int64
		expectError string
	}{
		{"empty po number", "", 10, "po number cannot be empty"},
		{"negative quantity", "PO-1", -5, "quantity cannot be negative, got -5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOrderRecord(tc.poNumber, tc.quantity)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error %q, got %q", tc.expectError, err.Error())
			}
		})
	}
}

func TestOrderRecord_PendingNeverNegative(t *testing.T) {
	rec, _ := NewOrderRecord("PO-1", 100)
	rec.Production[StageCutting].Completed = 150

	if got := rec.Pending(StageCutting); got != 0 {
		t.Errorf("over-completed stage pending = %d, want 0", got)
	}
	if got := rec.Pending(StageAssembly); got != 100 {
		t.Errorf("untouched stage pending = %d, want 100", got)
	}
}

func TestOrderRecord_StageStatus(t *testing.T) {
	rec, _ := NewOrderRecord("PO-1", 100)

	if got := rec.StageStatus(StageCutting); got != StagePending {
		t.Errorf("untouched stage = %v, want Pending", got)
	}

	rec.Production[StageCutting].Completed = 40
	if got := rec.StageStatus(StageCutting); got != StagePartial {
		t.Errorf("partially complete stage = %v, want Partial", got)
	}

	rec.Production[StageCutting].Completed = 100
	if got := rec.StageStatus(StageCutting); got != StageCompleted {
		t.Errorf("complete stage = %v, want Completed", got)
	}

	zero, _ := NewOrderRecord("PO-2", 0)
	if got := zero.StageStatus(StageCutting); got != StagePending {
		t.Errorf("zero-quantity stage = %v, want Pending", got)
	}
}

func TestOrderRecord_CompletionRatio(t *testing.T) {
	rec, _ := NewOrderRecord("PO-1", 200)
	rec.Production[StageWarehouseOut].Completed = 50

	if got := rec.CompletionRatio(StageWarehouseOut); got != 0.25 {
		t.Errorf("ratio = %v, want 0.25", got)
	}

	rec.Production[StageWarehouseOut].Completed = 400
	if got := rec.CompletionRatio(StageWarehouseOut); got != 1 {
		t.Errorf("over-complete ratio = %v, want capped at 1", got)
	}

	zero, _ := NewOrderRecord("PO-2", 0)
	if got := zero.CompletionRatio(StageWarehouseOut); got != 0 {
		t.Errorf("zero-quantity ratio = %v, want 0", got)
	}
}

func TestOrderRecord_OperativeDate(t *testing.T) {
	crd := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	sdd := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	rec, _ := NewOrderRecord("PO-1", 10)
	rec.CRD = &crd
	rec.SDD = &sdd

	if got := rec.OperativeDate(DateModeCRD); got == nil || !got.Equal(crd) {
		t.Errorf("DateModeCRD = %v, want %v", got, crd)
	}
	if got := rec.OperativeDate(DateModeSDD); got == nil || !got.Equal(sdd) {
		t.Errorf("DateModeSDD = %v, want %v", got, sdd)
	}
}

func TestAllStages_OrderAndCount(t *testing.T) {
	stages := AllStages()
	if len(stages) != StageCount {
		t.Fatalf("AllStages returned %d stages, want %d", len(stages), StageCount)
	}
	if stages[0] != StageCutting || stages[StageCount-1] != StageWarehouseOut {
		t.Error("stages must run from Cutting to WarehouseOut")
	}
}
