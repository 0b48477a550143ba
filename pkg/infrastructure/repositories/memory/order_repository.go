package memory

import (
	"github.com/factorydesk/ordertrack/pkg/domain/entities"
	"github.com/factorydesk/ordertrack/pkg/domain/repositories"
)

// OrderRepository provides in-memory snapshot storage for order records.
// The whole set is superseded on each ingestion; there is no incremental
// mutation of individual records between passes.
type OrderRepository struct {
	records []*entities.OrderRecord
	// onReplace lets the host invalidate derived caches (e.g. the filter
	// result cache) whenever the snapshot changes out from under them
	onReplace []func()
}

// NewOrderRepository creates a new in-memory order repository
func NewOrderRepository(expectedRecords int) *OrderRepository {
	return &OrderRepository{
		records: make([]*entities.OrderRecord, 0, expectedRecords),
	}
}

// Verify interface compliance
var _ repositories.OrderRepository = (*OrderRepository)(nil)

// OnReplace registers a hook invoked after every snapshot replacement
func (r *OrderRepository) OnReplace(hook func()) {
	r.onReplace = append(r.onReplace, hook)
}

// Replace supersedes the stored record set wholesale
func (r *OrderRepository) Replace(records []*entities.OrderRecord) error {
	r.records = records
	for _, hook := range r.onReplace {
		hook()
	}
	return nil
}

// Snapshot returns the current record set. Callers must treat it as
// immutable for the duration of one evaluation pass.
func (r *OrderRepository) Snapshot() ([]*entities.OrderRecord, error) {
	return r.records, nil
}

// Count returns the number of stored records
func (r *OrderRepository) Count() int {
	return len(r.records)
}
