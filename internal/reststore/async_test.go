package reststore

import (
	"testing"
	"time"

	"github.com/abdoElHodaky/matchcore/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncStoreDelegatesToBackend(t *testing.T) {
	backend := NewInMemoryStore()
	async, err := NewAsyncStore(backend, 16, 2, common.NewDefaultLogger())
	require.NoError(t, err)
	t.Cleanup(async.Close)

	async.Add(Record{OrderID: 1, Quantity: 10})
	require.Eventually(t, func() bool { return backend.Len() == 1 }, time.Second, time.Millisecond)

	async.UpdateQuantity(1, 3)
	require.Eventually(t, func() bool {
		rec, ok := backend.Remove(1)
		if !ok {
			return false
		}
		return rec.Quantity == 3
	}, time.Second, time.Millisecond)
}

func TestAsyncStoreRemoveReturnsImmediatelyFalse(t *testing.T) {
	backend := NewInMemoryStore()
	async, err := NewAsyncStore(backend, 16, 2, common.NewDefaultLogger())
	require.NoError(t, err)
	t.Cleanup(async.Close)

	rec, ok := async.Remove(1)
	assert.False(t, ok)
	assert.Zero(t, rec)
}

func TestAsyncStoreDropsWhenQueueFull(t *testing.T) {
	backend := NewInMemoryStore()
	async, err := NewAsyncStore(backend, 1, 1, common.NewDefaultLogger())
	require.NoError(t, err)
	t.Cleanup(async.Close)

	for i := 0; i < 1000; i++ {
		async.Add(Record{OrderID: uint64(i + 1), Quantity: 1})
	}
	assert.Greater(t, async.Dropped(), uint64(0))
}
