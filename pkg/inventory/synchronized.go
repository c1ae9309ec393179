package inventory

import (
	"sync"

	"github.com/mesh-intelligence/keeper/pkg/types"
)

// syncInventory guards an Inventory with a reader-writer lock: mutations
// take the exclusive lock, reads share it.
type syncInventory[P any] struct {
	mu  sync.RWMutex
	inv types.Inventory[P]
}

// Synchronized returns an Inventory safe for concurrent use that delegates
// to inv. inv must not be used directly afterwards.
func Synchronized[P any](inv types.Inventory[P]) types.Inventory[P] {
	return &syncInventory[P]{inv: inv}
}

func (s *syncInventory[P]) Add(item types.Item[P]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv.Add(item)
}

func (s *syncInventory[P]) Update(id string, item types.Item[P]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv.Update(id, item)
}

func (s *syncInventory[P]) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv.Delete(id)
}

func (s *syncInventory[P]) Get(id string) (types.Item[P], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inv.Get(id)
}

func (s *syncInventory[P]) List() ([]types.Item[P], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inv.List()
}

func (s *syncInventory[P]) FindByName(name string) ([]types.Item[P], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inv.FindByName(name)
}

func (s *syncInventory[P]) TotalQuantity() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inv.TotalQuantity()
}

func (s *syncInventory[P]) Len() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inv.Len()
}

func (s *syncInventory[P]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv.Close()
}
