// Package orderbook implements the per-symbol price–time priority
// order book and matching algorithm. The price index is a map of
// price level keyed by integer price, with levels linked best-first
// and a FIFO of resting orders within each level.
package orderbook

import "github.com/abdoElHodaky/matchcore/internal/ring"

// Side/Type re-exports so callers don't need to import internal/ring
// just to spell SideBuy/TypeLimit.
const (
	SideBuy  = ring.SideBuy
	SideSell = ring.SideSell

	TypeLimit  = ring.TypeLimit
	TypeMarket = ring.TypeMarket
)

// RestingOrder is the unfilled remainder of a LIMIT order resting in
// a price level's FIFO.
type RestingOrder struct {
	OrderID   uint64
	Side      uint32
	Timestamp int64
	Price     int64
	Quantity  int64 // remaining quantity, decremented on each fill
}

// PriceLevel is the aggregate snapshot at one price on one side
//: always equal to the sum/count of its FIFO.
type PriceLevel struct {
	Price         int64
	TotalQuantity int64
	OrderCount    int
}

// Fill is one matched quantity between the incoming order and one
// resting order, emitted in match order (best price first, FIFO
// within a price level) per §5.
type Fill struct {
	BuyOrderID  uint64
	SellOrderID uint64
	Price       int64
	Quantity    int64
}

// Result is the outcome of one ProcessOrder call.
type Result struct {
	Fills            []Fill
	RemainingQty     int64 // 0 if fully filled or dropped
	RestedOrderID    uint64
	Rested           bool
	DroppedRemainder int64 // > 0 only for a MARKET order with leftover
}
