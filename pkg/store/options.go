package store

import (
	"fmt"
	"sort"

	"github.com/feedmesh/blogroll/pkg/domain"
)

// Direction of an order clause
type Direction string

// order directions
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Order is a single (field, direction) pair, orders are applied field by field
type Order struct {
	Field     string
	Direction Direction
}

// Options select entities for a read operation. Filter and Order apply to all
// reads, Page and Limit only to GetPage, Include requests derived fields.
type Options struct {
	Filter  string
	Order   []Order
	Page    int
	Limit   int
	Include []string
}

// GroupCount is one bucket of a grouped count
type GroupCount struct {
	Group string `db:"group_value"`
	Count int    `db:"cnt"`
}

// validatePage rejects page or limit below 1, shared by every backend
func (o Options) validatePage() error {
	if o.Page < 1 {
		return &domain.ValidationError{Message: fmt.Sprintf("page must be at least 1, got %d", o.Page)}
	}
	if o.Limit < 1 {
		return &domain.ValidationError{Message: fmt.Sprintf("limit must be at least 1, got %d", o.Limit)}
	}
	return nil
}

// compileFilter parses the options filter once for in-memory evaluation
func (o Options) compileFilter() (Filter, error) {
	return ParseFilter(o.Filter)
}

// sortPrimitives sorts entity primitives in place by the order clauses, the
// sort is stable so entities equal under all clauses keep their relative order
func sortPrimitives[T any](entities []T, primitives []map[string]any, order []Order) {
	idx := make([]int, len(entities))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		for _, o := range order {
			cmp := comparePrimitiveValues(primitives[idx[a]][o.Field], primitives[idx[b]][o.Field])
			if cmp == 0 {
				continue
			}
			if o.Direction == Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})

	sortedEntities := make([]T, len(entities))
	sortedPrimitives := make([]map[string]any, len(primitives))
	for i, j := range idx {
		sortedEntities[i] = entities[j]
		sortedPrimitives[i] = primitives[j]
	}
	copy(entities, sortedEntities)
	copy(primitives, sortedPrimitives)
}

// comparePrimitiveValues orders two primitive field values, nil sorts first
func comparePrimitiveValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	cmp, ok := compareToTarget(a, stringValue(b))
	if !ok {
		return 0
	}
	return cmp
}
