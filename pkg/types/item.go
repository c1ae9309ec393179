package types

import (
	"fmt"
	"maps"
)

// MaxQuantity is the largest quantity a single item may carry.
const MaxQuantity int64 = 1<<32 - 1

// Item is a stock entry: a unique identifier, a display name, a quantity,
// and caller-defined properties of value type P.
type Item[P any] struct {
	ID         string       `json:"id" yaml:"id" toml:"id"`
	Name       string       `json:"name" yaml:"name" toml:"name"`
	Quantity   int64        `json:"quantity" yaml:"quantity" toml:"quantity"`
	Properties map[string]P `json:"properties,omitempty" yaml:"properties,omitempty" toml:"properties,omitempty"`
}

// Validate checks the ID and quantity of the item.
// Returns ErrInvalidID for an empty ID and ErrInvalidQuantity when the
// quantity is negative or above MaxQuantity.
func (it Item[P]) Validate() error {
	if it.ID == "" {
		return ErrInvalidID
	}
	return ValidateQuantity(it.Quantity)
}

// Clone returns a copy of the item with its own Properties map. Property
// values are copied shallowly. A nil map stays nil.
func (it Item[P]) Clone() Item[P] {
	it.Properties = maps.Clone(it.Properties)
	return it
}

// Property returns the named property value and whether it is set.
func (it Item[P]) Property(key string) (P, bool) {
	v, ok := it.Properties[key]
	return v, ok
}

// ValidateQuantity reports ErrInvalidQuantity for a quantity outside
// [0, MaxQuantity].
func ValidateQuantity(q int64) error {
	if q < 0 || q > MaxQuantity {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, q)
	}
	return nil
}
