package orderbook

import (
	"testing"

	"github.com/abdoElHodaky/matchcore/internal/reststore"
	"github.com/abdoElHodaky/matchcore/internal/ring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBook() (*Book, *reststore.InMemoryStore) {
	store := reststore.NewInMemoryStore()
	return New(1, store, false), store
}

func sellLimit(id uint64, price, qty int64, ts int64) ring.Order {
	return ring.Order{OrderID: id, SymbolFP: 1, Side: SideSell, Type: TypeLimit, Price: price, Quantity: qty, Timestamp: ts}
}

func buyLimit(id uint64, price, qty int64, ts int64) ring.Order {
	return ring.Order{OrderID: id, SymbolFP: 1, Side: SideBuy, Type: TypeLimit, Price: price, Quantity: qty, Timestamp: ts}
}

// S1 — Single level partial fill.
func TestS1SingleLevelPartialFill(t *testing.T) {
	b, _ := newTestBook()

	b.ProcessOrder(sellLimit(1, 5000, 10, 1))
	b.ProcessOrder(sellLimit(2, 5100, 10, 2))
	res := b.ProcessOrder(buyLimit(3, 5100, 1, 3))

	require.Len(t, res.Fills, 1)
	assert.Equal(t, Fill{BuyOrderID: 3, SellOrderID: 1, Price: 5000, Quantity: 1}, res.Fills[0])

	asks := b.TopAsks(10)
	require.Len(t, asks, 2)
	assert.Equal(t, PriceLevel{Price: 5000, TotalQuantity: 9, OrderCount: 1}, asks[0])
	assert.Equal(t, PriceLevel{Price: 5100, TotalQuantity: 10, OrderCount: 1}, asks[1])
	assert.Empty(t, b.TopBids(10))
}

// S2 — Sweep two levels.
func TestS2SweepTwoLevels(t *testing.T) {
	b, _ := newTestBook()
	b.ProcessOrder(sellLimit(1, 5000, 10, 1))
	b.ProcessOrder(sellLimit(2, 5100, 10, 2))
	b.ProcessOrder(buyLimit(3, 5100, 1, 3))

	res := b.ProcessOrder(buyLimit(4, 5100, 11, 4))
	require.Len(t, res.Fills, 2)
	assert.Equal(t, Fill{BuyOrderID: 4, SellOrderID: 1, Price: 5000, Quantity: 9}, res.Fills[0])
	assert.Equal(t, Fill{BuyOrderID: 4, SellOrderID: 2, Price: 5100, Quantity: 2}, res.Fills[1])

	asks := b.TopAsks(10)
	require.Len(t, asks, 1)
	assert.Equal(t, PriceLevel{Price: 5100, TotalQuantity: 8, OrderCount: 1}, asks[0])
	assert.Empty(t, b.TopBids(10))
}

// S3 — Time priority within a level.
func TestS3TimePriorityWithinLevel(t *testing.T) {
	b, _ := newTestBook()
	b.ProcessOrder(sellLimit(1, 5000, 5, 100))
	b.ProcessOrder(sellLimit(2, 5000, 3, 200))

	res := b.ProcessOrder(buyLimit(3, 5000, 6, 300))
	require.Len(t, res.Fills, 2)
	assert.Equal(t, Fill{BuyOrderID: 3, SellOrderID: 1, Price: 5000, Quantity: 5}, res.Fills[0])
	assert.Equal(t, Fill{BuyOrderID: 3, SellOrderID: 2, Price: 5000, Quantity: 1}, res.Fills[1])

	asks := b.TopAsks(10)
	require.Len(t, asks, 1)
	assert.Equal(t, PriceLevel{Price: 5000, TotalQuantity: 2, OrderCount: 1}, asks[0])
}

// S4 — Best-price selection on the opposite side.
func TestS4BestPriceSelection(t *testing.T) {
	b, _ := newTestBook()
	b.ProcessOrder(buyLimit(1, 4900, 10, 1))
	b.ProcessOrder(buyLimit(2, 5000, 10, 2))
	assert.Equal(t, int64(5000), b.BestBid())

	res := b.ProcessOrder(sellLimit(3, 4900, 1, 3))
	require.Len(t, res.Fills, 1)
	assert.Equal(t, Fill{BuyOrderID: 2, SellOrderID: 3, Price: 5000, Quantity: 1}, res.Fills[0])

	bids := b.TopBids(10)
	require.Len(t, bids, 2)
	assert.Equal(t, PriceLevel{Price: 5000, TotalQuantity: 9, OrderCount: 1}, bids[0])
	assert.Equal(t, PriceLevel{Price: 4900, TotalQuantity: 10, OrderCount: 1}, bids[1])
}

// S5 — Market order multi-level sweep with remainder dropped.
func TestS5MarketSweepRemainderDropped(t *testing.T) {
	b, _ := newTestBook()
	b.ProcessOrder(sellLimit(1, 50000, 5, 1))
	b.ProcessOrder(sellLimit(2, 50050, 3, 2))
	b.ProcessOrder(sellLimit(3, 50100, 5, 3))

	res := b.ProcessOrder(ring.Order{OrderID: 4, SymbolFP: 1, Side: SideBuy, Type: TypeMarket, Quantity: 25, Timestamp: 4})
	require.Len(t, res.Fills, 3)
	assert.Equal(t, int64(5), res.Fills[0].Quantity)
	assert.Equal(t, int64(50000), res.Fills[0].Price)
	assert.Equal(t, int64(3), res.Fills[1].Quantity)
	assert.Equal(t, int64(50050), res.Fills[1].Price)
	assert.Equal(t, int64(5), res.Fills[2].Quantity)
	assert.Equal(t, int64(50100), res.Fills[2].Price)
	assert.Equal(t, int64(12), res.DroppedRemainder)

	assert.Empty(t, b.TopAsks(10))
	assert.Empty(t, b.TopBids(10))
}

// S6 semantics are exercised at the engine level (unknown-symbol
// fingerprint handling is the engine's responsibility, not the
// book's — "Normalization"); Book-level behavior for an
// order that never reaches a book is simply: nothing happens.

func TestInvariantB3BestBidBelowBestAsk(t *testing.T) {
	b, _ := newTestBook()
	b.ProcessOrder(buyLimit(1, 100, 5, 1))
	b.ProcessOrder(sellLimit(2, 200, 5, 2))
	require.NotZero(t, b.BestBid())
	require.NotZero(t, b.BestAsk())
	assert.Less(t, b.BestBid(), b.BestAsk())
}

func TestPriceLevelTotalsMatchRestingOrders(t *testing.T) {
	b, store := newTestBook()
	b.ProcessOrder(buyLimit(1, 100, 5, 1))
	b.ProcessOrder(buyLimit(2, 100, 7, 2))

	bids := b.TopBids(10)
	require.Len(t, bids, 1)
	assert.Equal(t, int64(12), bids[0].TotalQuantity)
	assert.Equal(t, 2, bids[0].OrderCount)
	assert.Equal(t, 2, store.Len())
}

func TestFullyCrossingLimitLeavesNoResidue(t *testing.T) {
	b, store := newTestBook()
	b.ProcessOrder(sellLimit(1, 100, 10, 1))
	res := b.ProcessOrder(buyLimit(2, 100, 10, 2))

	assert.False(t, res.Rested)
	assert.Zero(t, res.RemainingQty)
	assert.Empty(t, b.TopAsks(10))
	assert.Empty(t, b.TopBids(10))
	assert.Equal(t, 0, store.Len())
}
