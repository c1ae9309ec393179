// Package memory implements the in-memory item registry: a hash map from
// item ID to item, with insertion order kept in a linked list so that
// Add, Update, Delete, and Get stay O(1).
//
// A Registry is not safe for concurrent use. Wrap it with
// inventory.Synchronized when several goroutines share one.
package memory

import (
	"container/list"
	"fmt"
	"iter"
	"maps"

	"github.com/mesh-intelligence/keeper/pkg/types"
)

// Registry owns a set of items keyed by ID. Stored items are never shared
// with callers: Add and Update copy their argument and every read returns a
// copy.
type Registry[P any] struct {
	items    map[string]*list.Element
	order    *list.List
	capacity int
}

// NewRegistry creates an empty registry. A capacity of zero or less means
// the registry is unbounded; a positive capacity caps the number of items.
func NewRegistry[P any](capacity int) *Registry[P] {
	if capacity < 0 {
		capacity = 0
	}
	return &Registry[P]{
		items:    make(map[string]*list.Element),
		order:    list.New(),
		capacity: capacity,
	}
}

// Add inserts item, taking a private copy of it.
// Returns ErrInvalidID or ErrInvalidQuantity for invalid input,
// ErrItemAlreadyExists if the ID is taken, and ErrInventoryFull when the
// registry is bounded and at capacity.
func (r *Registry[P]) Add(item types.Item[P]) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("add item %q: %w", item.ID, err)
	}
	if _, ok := r.items[item.ID]; ok {
		return fmt.Errorf("add item %q: %w", item.ID, types.ErrItemAlreadyExists)
	}
	if r.capacity > 0 && len(r.items) >= r.capacity {
		return fmt.Errorf("add item %q: %w (capacity %d)", item.ID, types.ErrInventoryFull, r.capacity)
	}

	stored := item.Clone()
	r.items[item.ID] = r.order.PushBack(&stored)
	return nil
}

// Update replaces the name, quantity, and properties of the item stored
// under id with those of item. The stored ID and insertion position do not
// change; item.ID is ignored.
// Returns ErrItemNotFound if id is absent and ErrInvalidQuantity if the new
// quantity is out of range. On error the registry is unchanged.
func (r *Registry[P]) Update(id string, item types.Item[P]) error {
	e, ok := r.items[id]
	if !ok {
		return fmt.Errorf("update item %q: %w", id, types.ErrItemNotFound)
	}
	if err := types.ValidateQuantity(item.Quantity); err != nil {
		return fmt.Errorf("update item %q: %w", id, err)
	}

	stored := e.Value.(*types.Item[P])
	stored.Name = item.Name
	stored.Quantity = item.Quantity
	stored.Properties = maps.Clone(item.Properties)
	return nil
}

// Delete removes the item with the given ID.
// Returns ErrItemNotFound if id is absent.
func (r *Registry[P]) Delete(id string) error {
	e, ok := r.items[id]
	if !ok {
		return fmt.Errorf("delete item %q: %w", id, types.ErrItemNotFound)
	}
	r.order.Remove(e)
	delete(r.items, id)
	return nil
}

// Get returns a copy of the item with the given ID, or false if absent.
func (r *Registry[P]) Get(id string) (types.Item[P], bool) {
	e, ok := r.items[id]
	if !ok {
		return types.Item[P]{}, false
	}
	return e.Value.(*types.Item[P]).Clone(), true
}

// All returns a lazy sequence over copies of the stored items in insertion
// order. Each pass walks the IDs present when it starts: items deleted
// during the pass are skipped and items added during it are not visited.
func (r *Registry[P]) All() iter.Seq[types.Item[P]] {
	return func(yield func(types.Item[P]) bool) {
		ids := make([]string, 0, r.order.Len())
		for e := r.order.Front(); e != nil; e = e.Next() {
			ids = append(ids, e.Value.(*types.Item[P]).ID)
		}
		for _, id := range ids {
			e, ok := r.items[id]
			if !ok {
				continue
			}
			if !yield(e.Value.(*types.Item[P]).Clone()) {
				return
			}
		}
	}
}

// List returns copies of all items in insertion order. Returns an empty
// slice (not nil) when the registry is empty.
func (r *Registry[P]) List() []types.Item[P] {
	out := make([]types.Item[P], 0, len(r.items))
	for it := range r.All() {
		out = append(out, it)
	}
	return out
}

// FindByName returns copies of the items whose Name equals name. The match
// is exact and case-sensitive. Returns an empty slice when none match.
func (r *Registry[P]) FindByName(name string) []types.Item[P] {
	out := []types.Item[P]{}
	for e := r.order.Front(); e != nil; e = e.Next() {
		if it := e.Value.(*types.Item[P]); it.Name == name {
			out = append(out, it.Clone())
		}
	}
	return out
}

// TotalQuantity returns the sum of quantities over all items. Quantities
// are capped at types.MaxQuantity, so the uint64 sum cannot wrap for any
// registry that fits in memory.
func (r *Registry[P]) TotalQuantity() uint64 {
	var total uint64
	for e := r.order.Front(); e != nil; e = e.Next() {
		total += uint64(e.Value.(*types.Item[P]).Quantity)
	}
	return total
}

// Len returns the number of stored items.
func (r *Registry[P]) Len() int {
	return len(r.items)
}

// Capacity returns the item limit, or zero for an unbounded registry.
func (r *Registry[P]) Capacity() int {
	return r.capacity
}
