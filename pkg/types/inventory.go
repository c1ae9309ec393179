package types

import "errors"

// Inventory is the backend-agnostic contract for an item registry.
// Every read returns copies; callers never hold references into the
// backend's state.
type Inventory[P any] interface {
	// Add inserts a new item. Returns ErrItemAlreadyExists if the ID is
	// taken, ErrInventoryFull when a bounded inventory is at capacity, and
	// ErrInvalidID or ErrInvalidQuantity for invalid input.
	Add(item Item[P]) error

	// Update replaces the name, quantity, and properties of the item stored
	// under id. The id argument is authoritative; item.ID is ignored.
	// Returns ErrItemNotFound if no item has that ID.
	Update(id string, item Item[P]) error

	// Delete removes the item with the given ID.
	// Returns ErrItemNotFound if no item has that ID.
	Delete(id string) error

	// Get returns the item with the given ID.
	// Returns ErrItemNotFound if no item has that ID.
	Get(id string) (Item[P], error)

	// List returns every item in insertion order. Returns an empty slice
	// (not nil) when the inventory is empty.
	List() ([]Item[P], error)

	// FindByName returns the items whose Name equals name exactly, in
	// insertion order. Returns an empty slice (not nil) when none match.
	FindByName(name string) ([]Item[P], error)

	// TotalQuantity returns the sum of quantities over all items.
	TotalQuantity() (uint64, error)

	// Len returns the number of stored items.
	Len() (int, error)

	// Close releases backend resources. Idempotent.
	Close() error
}

// Inventory operation errors.
var (
	ErrItemAlreadyExists = errors.New("item already exists")
	ErrItemNotFound      = errors.New("item not found")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInventoryFull     = errors.New("inventory is full")
	ErrInvalidID         = errors.New("invalid item ID")
	ErrInventoryClosed   = errors.New("inventory is closed")
)
