package orderbook

import (
	"math"

	"github.com/abdoElHodaky/matchcore/internal/reststore"
	"github.com/abdoElHodaky/matchcore/internal/ring"
)

// bestAskSentinel stands in for "no asks resting" when comparing
// prices, giving the "+∞ sentinel" behavior describes
// for the cached best-ask without needing a nullable/Option type on
// every comparison site.
const bestAskSentinel = math.MaxInt64

// Book is one symbol's order book: two sorted price sides plus the
// matching algorithm that mutates them. A Book
// is not safe for concurrent ProcessOrder calls — it is owned
// exclusively by the single matching-engine thread.
type Book struct {
	SymbolFP uint32

	bids *priceSide // descending: best bid first
	asks *priceSide // ascending: best ask first

	bestBid int64
	bestAsk int64 // bestAskSentinel when asks is empty

	store                 reststore.Store
	carryMarketRemainder  bool
	lastExecPrice         int64
}

// New creates an empty book for symbolFP. store may be nil, in which
// case resting-order notifications are skipped (production wiring and
// the tests always supply a store, even if it is just
// reststore.NewInMemoryStore()). carryMarketRemainder controls the
// behavior for unfilled market orders when the opposing side runs
// dry; the default (false) drops the remainder.
func New(symbolFP uint32, store reststore.Store, carryMarketRemainder bool) *Book {
	return &Book{
		SymbolFP:             symbolFP,
		bids:                 newPriceSide(true),
		asks:                 newPriceSide(false),
		bestAsk:              bestAskSentinel,
		store:                store,
		carryMarketRemainder: carryMarketRemainder,
	}
}

// BestBid returns the best resting bid price, or 0 if bids is empty.
func (b *Book) BestBid() int64 { return b.bestBid }

// BestAsk returns the best resting ask price, or 0 if asks is empty
// (the +∞ internal sentinel is never leaked to callers).
func (b *Book) BestAsk() int64 {
	if b.bestAsk == bestAskSentinel {
		return 0
	}
	return b.bestAsk
}

// TopBids / TopAsks expose the authoritative (non-lossy) book depth,
// for callers that cannot rely on the mapped price-level snapshot's
// price-mod-MaxLevels projection.
func (b *Book) TopBids(n int) []PriceLevel { return b.bids.topN(n) }
func (b *Book) TopAsks(n int) []PriceLevel { return b.asks.topN(n) }

// ProcessOrder matches an incoming order against the book and returns
// every fill it produced, in emission order, plus the terminal state
// of the incoming order. Not
// re-entrant on the same Book.
func (b *Book) ProcessOrder(o ring.Order) Result {
	var res Result
	switch o.Type {
	case TypeMarket:
		res = b.matchMarket(o)
	default: // LIMIT, including any out-of-range type normalized to 0
		res = b.matchLimit(o)
	}
	b.refreshBest()
	return res
}

func (b *Book) matchLimit(o ring.Order) Result {
	remaining := o.Quantity
	var fills []Fill

	if o.Side == SideBuy {
		for remaining > 0 && !b.asks.isEmpty() && b.asks.bestPrice() <= o.Price {
			remaining, fills = b.consumeLevel(b.asks, b.asks.best, o, remaining, fills)
		}
	} else {
		for remaining > 0 && !b.bids.isEmpty() && b.bids.bestPrice() >= o.Price {
			remaining, fills = b.consumeLevel(b.bids, b.bids.best, o, remaining, fills)
		}
	}

	res := Result{Fills: fills}
	if remaining > 0 {
		ro := &RestingOrder{OrderID: o.OrderID, Side: o.Side, Timestamp: o.Timestamp, Price: o.Price, Quantity: remaining}
		b.sideFor(o.Side).insert(ro)
		if b.store != nil {
			b.store.Add(reststore.Record{
				OrderID: ro.OrderID, SymbolFP: b.SymbolFP, Side: ro.Side,
				Price: ro.Price, Quantity: ro.Quantity, Timestamp: ro.Timestamp,
			})
		}
		res.RemainingQty = remaining
		res.Rested = true
		res.RestedOrderID = o.OrderID
	}
	return res
}

func (b *Book) matchMarket(o ring.Order) Result {
	remaining := o.Quantity
	var fills []Fill

	opposite := b.oppositeSide(o.Side)
	for remaining > 0 && !opposite.isEmpty() {
		remaining, fills = b.consumeLevel(opposite, opposite.best, o, remaining, fills)
	}

	res := Result{Fills: fills}
	if remaining > 0 {
		res.DroppedRemainder = remaining
		if b.carryMarketRemainder && b.store != nil && b.lastExecPrice > 0 {
			// Operationally-visible only: registered with the side
			// store keyed to the last execution price, never with the
			// book itself.
			b.store.Add(reststore.Record{
				OrderID: o.OrderID, SymbolFP: b.SymbolFP, Side: o.Side,
				Price: b.lastExecPrice, Quantity: remaining, Timestamp: o.Timestamp,
			})
		}
	}
	return res
}

// sideFor returns the side a resting order of the given incoming
// order side belongs on: buys rest as bids, sells rest as asks.
func (b *Book) sideFor(side uint32) *priceSide {
	if side == SideBuy {
		return b.bids
	}
	return b.asks
}

// oppositeSide returns the side an incoming order of the given side
// matches against: buys match asks, sells match bids.
func (b *Book) oppositeSide(side uint32) *priceSide {
	if side == SideBuy {
		return b.asks
	}
	return b.bids
}

// consumeLevel matches the incoming order against lv's FIFO in time
// priority until either the incoming remainder or the level is
// exhausted, updating the side store and level aggregates exactly per
// steps. Returns the updated remaining quantity and the
// fills slice with this level's fills appended.
func (b *Book) consumeLevel(side *priceSide, lv *level, o ring.Order, remaining int64, fills []Fill) (int64, []Fill) {
	for e := lv.orders.Front(); e != nil && remaining > 0; {
		r := e.Value.(*RestingOrder)
		q := remaining
		if r.Quantity < q {
			q = r.Quantity
		}

		var fill Fill
		if o.Side == SideBuy {
			fill = Fill{BuyOrderID: o.OrderID, SellOrderID: r.OrderID, Price: lv.price, Quantity: q}
		} else {
			fill = Fill{BuyOrderID: r.OrderID, SellOrderID: o.OrderID, Price: lv.price, Quantity: q}
		}
		fills = append(fills, fill)

		remaining -= q
		r.Quantity -= q
		lv.totalQty -= q
		b.lastExecPrice = lv.price

		next := e.Next()
		if r.Quantity == 0 {
			lv.orders.Remove(e)
			if b.store != nil {
				b.store.Remove(r.OrderID)
			}
		} else if b.store != nil {
			b.store.UpdateQuantity(r.OrderID, r.Quantity)
		}
		e = next
	}
	side.removeIfEmpty(lv)
	return remaining, fills
}

// refreshBest recomputes the cached best bid/ask after a match,
// per "after every process_order" rule.
func (b *Book) refreshBest() {
	b.bestBid = b.bids.bestPrice()
	if b.asks.isEmpty() {
		b.bestAsk = bestAskSentinel
	} else {
		b.bestAsk = b.asks.bestPrice()
	}
}
