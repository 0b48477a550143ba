package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/factorydesk/ordertrack/pkg/domain/entities"
	"github.com/factorydesk/ordertrack/pkg/domain/services"
)

const defaultCacheCapacity = 20

// predicate evaluates one compiled filter against one record
type predicate func(rec *entities.OrderRecord) bool

// Config holds configuration for the filter engine
type Config struct {
	// CacheCapacity bounds the result cache (0 = default)
	CacheCapacity int
	// Now supplies the evaluation time for urgency predicates (nil = time.Now)
	Now func() time.Time
}

// Engine compiles filter specs into predicate chains and evaluates record
// sets against them. Each active filter field is compiled exactly once per
// Apply call, not re-parsed per record.
type Engine struct {
	cache *ResultCache
	now   func() time.Time
}

// NewEngine creates a filter engine with default configuration
func NewEngine() *Engine {
	return NewEngineWithConfig(Config{})
}

// NewEngineWithConfig creates a filter engine with custom configuration
func NewEngineWithConfig(config Config) *Engine {
	capacity := config.CacheCapacity
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		cache: NewResultCache(capacity),
		now:   now,
	}
}

// Apply filters the record set through the spec, preserving input order.
// With zero active predicates the input slice is returned unchanged.
// Results are cached by a fingerprint of the record set and the spec;
// the caller owns invalidation via InvalidateCache.
func (e *Engine) Apply(records []*entities.OrderRecord, spec Spec, mode entities.DateMode) []*entities.OrderRecord {
	now := e.now()

	predicates := e.compile(spec, mode, now)
	if len(predicates) == 0 {
		return records
	}

	key := cacheKey(records, spec, mode)
	if cached, ok := e.cache.Get(key); ok {
		return cached
	}

	result := make([]*entities.OrderRecord, 0, len(records))
	for _, rec := range records {
		if matches(rec, predicates, spec.Combine) {
			result = append(result, rec)
		}
	}

	e.cache.Put(key, result)
	return result
}

// InvalidateCache drops all cached results. Must be called whenever the
// record set backing previous Apply calls changes.
func (e *Engine) InvalidateCache() {
	e.cache.Clear()
}

// CacheLen returns the number of cached filter results
func (e *Engine) CacheLen() int {
	return e.cache.Len()
}

// matches combines the predicate chain with short-circuit semantics
func matches(rec *entities.OrderRecord, predicates []predicate, combine Combinator) bool {
	if combine == CombineAny {
		for _, p := range predicates {
			if p(rec) {
				return true
			}
		}
		return false
	}
	for _, p := range predicates {
		if !p(rec) {
			return false
		}
	}
	return true
}

// compile converts each active spec field into a closure over one record
func (e *Engine) compile(spec Spec, mode entities.DateMode, now time.Time) []predicate {
	var predicates []predicate

	if search := strings.ToLower(strings.TrimSpace(spec.Search)); search != "" {
		predicates = append(predicates, func(rec *entities.OrderRecord) bool {
			for _, field := range []string{rec.PONumber, rec.Model, rec.Destination, rec.Vendor, rec.Factory, rec.Buyer} {
				if strings.Contains(strings.ToLower(field), search) {
					return true
				}
			}
			return false
		})
	}

	if month := strings.TrimSpace(spec.Month); month != "" {
		predicates = append(predicates, func(rec *entities.OrderRecord) bool {
			date := rec.OperativeDate(mode)
			return date != nil && services.MonthKey(*date) == month
		})
	}

	if destination := spec.Destination; destination != "" {
		predicates = append(predicates, func(rec *entities.OrderRecord) bool {
			return strings.EqualFold(rec.Destination, destination)
		})
	}

	if vendor := spec.Vendor; vendor != "" {
		predicates = append(predicates, func(rec *entities.OrderRecord) bool {
			return strings.EqualFold(rec.Vendor, vendor)
		})
	}

	if factory := spec.Factory; factory != "" {
		predicates = append(predicates, func(rec *entities.OrderRecord) bool {
			return strings.EqualFold(rec.Factory, factory)
		})
	}

	if spec.Status != nil {
		want := *spec.Status
		predicates = append(predicates, func(rec *entities.OrderRecord) bool {
			return services.Classify(rec, now).State == want
		})
	}

	if spec.Quick != QuickNone {
		predicates = append(predicates, compileQuick(spec.Quick, now))
	}

	if spec.DateFrom != nil || spec.DateTo != nil {
		from, to := spec.DateFrom, spec.DateTo
		predicates = append(predicates, func(rec *entities.OrderRecord) bool {
			date := rec.OperativeDate(mode)
			if date == nil {
				return false
			}
			if from != nil && date.Before(*from) {
				return false
			}
			if to != nil && date.After(*to) {
				return false
			}
			return true
		})
	}

	if spec.MinQty != nil || spec.MaxQty != nil {
		min, max := spec.MinQty, spec.MaxQty
		predicates = append(predicates, func(rec *entities.OrderRecord) bool {
			if min != nil && rec.Quantity < *min {
				return false
			}
			if max != nil && rec.Quantity > *max {
				return false
			}
			return true
		})
	}

	return predicates
}

// cacheKey fingerprints the record set identity and the filter request.
// Set size plus first and last record identifiers is a cheap proxy for the
// snapshot; in-place mutation is invisible to it, hence InvalidateCache.
func cacheKey(records []*entities.OrderRecord, spec Spec, mode entities.DateMode) string {
	first, last := "", ""
	if len(records) > 0 {
		first = records[0].PONumber
		last = records[len(records)-1].PONumber
	}
	return fmt.Sprintf("%d|%s|%s|%s|%s", len(records), first, last, spec.fingerprint(), mode)
}
