package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/keeper/internal/memory"
	"github.com/mesh-intelligence/keeper/internal/sqlite"
	"github.com/mesh-intelligence/keeper/pkg/types"
)

var backends = []string{types.BackendMemory, types.BackendSQLite}

// openInventory opens an Inventory on backend and closes it when the test ends.
func openInventory(t *testing.T, backend string, capacity int) types.Inventory[string] {
	t.Helper()
	inv, err := Open[string](types.Config{Backend: backend, Capacity: capacity})
	require.NoError(t, err)
	t.Cleanup(func() { inv.Close() })
	return inv
}

func TestOpenSelectsBackend(t *testing.T) {
	mem, err := Open[string](types.Config{Backend: types.BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &registryInventory[string]{}, mem)

	sq, err := Open[string](types.Config{Backend: types.BackendSQLite})
	require.NoError(t, err)
	defer sq.Close()
	assert.IsType(t, &sqlite.Store[string]{}, sq)
}

func TestOpenInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  types.Config
		wantErr error
	}{
		{"empty backend", types.Config{}, types.ErrBackendEmpty},
		{"unknown backend", types.Config{Backend: "redis"}, types.ErrBackendUnknown},
		{"negative capacity", types.Config{Backend: types.BackendMemory, Capacity: -2}, types.ErrCapacityInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := Open[string](tt.config)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, inv)
		})
	}
}

func TestInventoryContract(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			inv := openInventory(t, backend, 0)

			require.NoError(t, inv.Add(types.Item[string]{ID: "1", Name: "Widget", Quantity: 5}))
			require.NoError(t, inv.Add(types.Item[string]{ID: "2", Name: "Widget", Quantity: 3}))
			assert.ErrorIs(t, inv.Add(types.Item[string]{ID: "1", Name: "Dup"}), types.ErrItemAlreadyExists)

			got, err := inv.Get("1")
			require.NoError(t, err)
			assert.Equal(t, "Widget", got.Name)

			_, err = inv.Get("nope")
			assert.ErrorIs(t, err, types.ErrItemNotFound)

			found, err := inv.FindByName("Widget")
			require.NoError(t, err)
			assert.Len(t, found, 2)

			require.NoError(t, inv.Update("1", types.Item[string]{Name: "Widget", Quantity: 10}))
			total, err := inv.TotalQuantity()
			require.NoError(t, err)
			assert.Equal(t, uint64(13), total)

			require.NoError(t, inv.Delete("2"))
			assert.ErrorIs(t, inv.Delete("2"), types.ErrItemNotFound)
			n, err := inv.Len()
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			list, err := inv.List()
			require.NoError(t, err)
			assert.Equal(t, []types.Item[string]{{ID: "1", Name: "Widget", Quantity: 10}}, list)
		})
	}
}

func TestInventoryAnyPropertiesRoundTrip(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			inv, err := Open[any](types.Config{Backend: backend})
			require.NoError(t, err)
			t.Cleanup(func() { inv.Close() })

			item := types.Item[any]{
				ID:         "1",
				Name:       "Widget",
				Quantity:   2,
				Properties: map[string]any{"serial": int64(12345678901234567), "shelf": 4, "color": "red"},
			}
			require.NoError(t, inv.Add(item))

			got, err := inv.Get("1")
			require.NoError(t, err)
			assert.Equal(t, item, got)
		})
	}
}

func TestInventoryCapacity(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			inv := openInventory(t, backend, 2)
			require.NoError(t, inv.Add(types.Item[string]{ID: "1"}))
			require.NoError(t, inv.Add(types.Item[string]{ID: "2"}))
			assert.ErrorIs(t, inv.Add(types.Item[string]{ID: "3"}), types.ErrInventoryFull)
		})
	}
}

func TestInventoryClose(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			inv, err := Open[string](types.Config{Backend: backend})
			require.NoError(t, err)
			require.NoError(t, inv.Close())
			require.NoError(t, inv.Close())

			assert.ErrorIs(t, inv.Add(types.Item[string]{ID: "1"}), types.ErrInventoryClosed)
			_, err = inv.Len()
			assert.ErrorIs(t, err, types.ErrInventoryClosed)
		})
	}
}

func TestFromRegistrySharesState(t *testing.T) {
	r := memory.NewRegistry[string](0)
	inv := FromRegistry(r)
	require.NoError(t, inv.Add(types.Item[string]{ID: "1", Quantity: 4}))

	assert.Equal(t, 1, r.Len())
	assert.Equal(t, uint64(4), r.TotalQuantity())
}
