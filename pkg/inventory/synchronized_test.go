package inventory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/keeper/pkg/types"
)

func TestSynchronizedConcurrentUse(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			inv := Synchronized(openInventory(t, backend, 0))

			const workers, perWorker = 8, 25
			var wg sync.WaitGroup
			for w := range workers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := range perWorker {
						id := fmt.Sprintf("w%d-%d", w, i)
						assert.NoError(t, inv.Add(types.Item[string]{ID: id, Name: "Widget", Quantity: 2}))
						_, err := inv.TotalQuantity()
						assert.NoError(t, err)
						_, err = inv.FindByName("Widget")
						assert.NoError(t, err)
						assert.NoError(t, inv.Update(id, types.Item[string]{Name: "Widget", Quantity: 1}))
					}
				}()
			}
			wg.Wait()

			n, err := inv.Len()
			require.NoError(t, err)
			assert.Equal(t, workers*perWorker, n)

			total, err := inv.TotalQuantity()
			require.NoError(t, err)
			assert.Equal(t, uint64(workers*perWorker), total)
		})
	}
}

func TestSynchronizedDelegates(t *testing.T) {
	inv := Synchronized(openInventory(t, types.BackendMemory, 0))

	require.NoError(t, inv.Add(types.Item[string]{ID: "1", Name: "Widget", Quantity: 3}))
	assert.ErrorIs(t, inv.Add(types.Item[string]{ID: "1"}), types.ErrItemAlreadyExists)

	got, err := inv.Get("1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Quantity)

	list, err := inv.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, inv.Delete("1"))
	assert.ErrorIs(t, inv.Update("1", types.Item[string]{}), types.ErrItemNotFound)
	require.NoError(t, inv.Close())
}
