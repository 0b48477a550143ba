package repositories

import "github.com/factorydesk/ordertrack/pkg/domain/entities"

// OrderRepository provides access to the order record snapshot.
// Records are superseded wholesale by Replace; Snapshot hands out the set
// the engines evaluate, which must be treated as immutable for the pass.
type OrderRepository interface {
	Replace(records []*entities.OrderRecord) error
	Snapshot() ([]*entities.OrderRecord, error)
	Count() int
}
