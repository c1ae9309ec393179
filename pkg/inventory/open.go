// Package inventory opens item registries behind the types.Inventory
// contract. Callers pick a backend through types.Config; the in-memory
// registry is the default and the SQLite store is an alternative that keeps
// its database in memory.
//
// Example:
//
//	inv, err := inventory.Open[string](types.Config{Backend: types.BackendMemory})
//	if err != nil {
//	    return err
//	}
//	defer inv.Close()
package inventory

import (
	"fmt"

	"github.com/mesh-intelligence/keeper/internal/memory"
	"github.com/mesh-intelligence/keeper/internal/sqlite"
	"github.com/mesh-intelligence/keeper/pkg/types"
)

// Open validates cfg and returns an empty Inventory on the selected backend.
func Open[P any](cfg types.Config) (types.Inventory[P], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case types.BackendSQLite:
		s, err := sqlite.Open[P](cfg.Capacity)
		if err != nil {
			return nil, fmt.Errorf("open sqlite inventory: %w", err)
		}
		return s, nil
	default:
		return FromRegistry(memory.NewRegistry[P](cfg.Capacity)), nil
	}
}

// registryInventory adapts a memory.Registry to the types.Inventory
// contract. Reads never fail; Get reports absence as ErrItemNotFound.
type registryInventory[P any] struct {
	r      *memory.Registry[P]
	closed bool
}

// FromRegistry exposes r through the types.Inventory contract.
func FromRegistry[P any](r *memory.Registry[P]) types.Inventory[P] {
	return &registryInventory[P]{r: r}
}

func (ri *registryInventory[P]) Add(item types.Item[P]) error {
	if ri.closed {
		return types.ErrInventoryClosed
	}
	return ri.r.Add(item)
}

func (ri *registryInventory[P]) Update(id string, item types.Item[P]) error {
	if ri.closed {
		return types.ErrInventoryClosed
	}
	return ri.r.Update(id, item)
}

func (ri *registryInventory[P]) Delete(id string) error {
	if ri.closed {
		return types.ErrInventoryClosed
	}
	return ri.r.Delete(id)
}

func (ri *registryInventory[P]) Get(id string) (types.Item[P], error) {
	if ri.closed {
		return types.Item[P]{}, types.ErrInventoryClosed
	}
	it, ok := ri.r.Get(id)
	if !ok {
		return types.Item[P]{}, fmt.Errorf("get item %q: %w", id, types.ErrItemNotFound)
	}
	return it, nil
}

func (ri *registryInventory[P]) List() ([]types.Item[P], error) {
	if ri.closed {
		return nil, types.ErrInventoryClosed
	}
	return ri.r.List(), nil
}

func (ri *registryInventory[P]) FindByName(name string) ([]types.Item[P], error) {
	if ri.closed {
		return nil, types.ErrInventoryClosed
	}
	return ri.r.FindByName(name), nil
}

func (ri *registryInventory[P]) TotalQuantity() (uint64, error) {
	if ri.closed {
		return 0, types.ErrInventoryClosed
	}
	return ri.r.TotalQuantity(), nil
}

func (ri *registryInventory[P]) Len() (int, error) {
	if ri.closed {
		return 0, types.ErrInventoryClosed
	}
	return ri.r.Len(), nil
}

// Close marks the adapter closed. The registry itself holds no resources.
func (ri *registryInventory[P]) Close() error {
	ri.closed = true
	return nil
}
