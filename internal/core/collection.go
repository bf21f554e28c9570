// Package core implements the catalog state engine: in-memory entity
// collections, optimistic mutation controllers reconciling against a remote
// store, the filter engine, and the variant price matrix.
package core

import (
	"fmt"
	"sync"

	"catalogcore/pkg/domain"
)

// Collection holds the authoritative local copy of one entity collection.
// It is seeded once from server-provided data and afterwards mutated only by
// the owning controller. Operations never perform I/O.
type Collection[T domain.Record] struct {
	mu    sync.RWMutex
	items []T
}

// NewCollection returns an empty collection.
func NewCollection[T domain.Record]() *Collection[T] {
	return &Collection[T]{}
}

// ReplaceAll overwrites the collection with the supplied entities, preserving
// their order. Duplicate ids indicate a programming error and panic.
func (c *Collection[T]) ReplaceAll(items []T) {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		id := it.RecordID()
		if _, dup := seen[id]; dup {
			panic(fmt.Sprintf("collection: duplicate id %q in ReplaceAll", id))
		}
		seen[id] = struct{}{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T(nil), items...)
}

// Upsert replaces the entity with the same id in place, or inserts the
// entity at the front when no entity with that id exists.
func (c *Collection[T]) Upsert(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := item.RecordID()
	for i, existing := range c.items {
		if existing.RecordID() == id {
			c.items[i] = item
			return
		}
	}
	c.items = append([]T{item}, c.items...)
}

// Remove deletes the entity with the given id, reporting whether it existed.
func (c *Collection[T]) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.items {
		if existing.RecordID() == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the entity with the given id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, existing := range c.items {
		if existing.RecordID() == id {
			return existing, true
		}
	}
	var zero T
	return zero, false
}

// Items returns a copy of the collection in its current order.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.items...)
}

// Len returns the number of entities held.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
