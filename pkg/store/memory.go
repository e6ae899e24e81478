package store

import (
	"context"
	"sort"
	"sync"
)

// Memory is the in-memory twin of the persistent stores. It satisfies the same
// filter, order and pagination contract and is primarily used as the test
// double, walking every candidate with the compiled filter predicate.
//
// Primitive converts an entity to the flat field map the filter and order
// machinery operates on. ID and Deleted expose identity and soft-delete state.
type Memory[T any] struct {
	id        func(T) string
	deleted   func(T) bool
	primitive func(T) map[string]any

	mu       sync.RWMutex
	entities map[string]T
	inserted []string // backend-defined stable order is insertion order
}

// NewMemory creates an in-memory repository for an entity type
func NewMemory[T any](id func(T) string, deleted func(T) bool, primitive func(T) map[string]any) *Memory[T] {
	return &Memory[T]{
		id:        id,
		deleted:   deleted,
		primitive: primitive,
		entities:  make(map[string]T),
	}
}

// Save upserts an entity by id. Saving an entity flagged as deleted removes it
// from the visible surface, subsequent reads will not return it.
func (m *Memory[T]) Save(_ context.Context, entity T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.id(entity)
	if _, ok := m.entities[id]; !ok {
		m.inserted = append(m.inserted, id)
	}
	m.entities[id] = entity
	return nil
}

// GetByID returns an entity by id, excluding soft-deleted ones. The second
// return value reports whether the entity was found.
func (m *Memory[T]) GetByID(_ context.Context, id string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entity, ok := m.entities[id]
	if !ok || m.deleted(entity) {
		var zero T
		return zero, false
	}
	return entity, true
}

// GetAll returns all visible entities after applying filter and order
func (m *Memory[T]) GetAll(_ context.Context, opts Options) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.query(opts)
}

// GetPage returns one page of visible entities, it fails when page or limit
// is below 1
func (m *Memory[T]) GetPage(_ context.Context, opts Options) ([]T, error) {
	if err := opts.validatePage(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	all, err := m.query(opts)
	if err != nil {
		return nil, err
	}

	start := (opts.Page - 1) * opts.Limit
	if start >= len(all) {
		return nil, nil
	}
	end := start + opts.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

// GetCount counts visible entities matching the filter, pagination is ignored
func (m *Memory[T]) GetCount(_ context.Context, opts Options) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	opts.Order = nil
	all, err := m.query(opts)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

// GetGroupedCount counts visible entities matching the filter, bucketed by the
// given field. Buckets are sorted by group value for deterministic output.
func (m *Memory[T]) GetGroupedCount(_ context.Context, groupBy string, opts Options) ([]GroupCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	opts.Order = nil
	all, err := m.query(opts)
	if err != nil {
		return nil, err
	}

	buckets := map[string]int{}
	for _, entity := range all {
		value := m.primitive(entity)[groupBy]
		key := ""
		if value != nil {
			key = stringValue(value)
		}
		buckets[key]++
	}

	groups := make([]GroupCount, 0, len(buckets))
	for key, count := range buckets {
		groups = append(groups, GroupCount{Group: key, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Group < groups[j].Group })
	return groups, nil
}

// query applies filter and order over the visible surface, caller holds the lock
func (m *Memory[T]) query(opts Options) ([]T, error) {
	filter, err := opts.compileFilter()
	if err != nil {
		return nil, err
	}

	var entities []T
	var primitives []map[string]any
	for _, id := range m.inserted {
		entity := m.entities[id]
		if m.deleted(entity) {
			continue
		}
		primitive := m.primitive(entity)
		if !filter.Match(primitive) {
			continue
		}
		entities = append(entities, entity)
		primitives = append(primitives, primitive)
	}

	if len(opts.Order) > 0 {
		sortPrimitives(entities, primitives, opts.Order)
	}
	return entities, nil
}
