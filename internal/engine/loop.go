// Package engine implements the single matching-engine loop: the lone consumer of the order ring, lone producer of the
// trade ring, and owner of every per-symbol order book and the
// market-data/price-level snapshots.
package engine

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/abdoElHodaky/matchcore/internal/common"
	"github.com/abdoElHodaky/matchcore/internal/metrics"
	"github.com/abdoElHodaky/matchcore/internal/orderbook"
	"github.com/abdoElHodaky/matchcore/internal/region"
	"github.com/abdoElHodaky/matchcore/internal/reststore"
	"github.com/abdoElHodaky/matchcore/internal/ring"
)

// Loop is the matching engine: one goroutine, locked to its own OS
// thread, draining the order ring, matching against the right book,
// and publishing trades and snapshots. Not safe to Start twice.
type Loop struct {
	cfg    Config
	reg    *region.Region
	orders *ring.OrderRing
	trades *ring.TradeRing
	store  reststore.Store
	books  []*orderbook.Book // indexed by registry symbol index
	names  *registry
	logger *common.EngineLogger
	mtr    *metrics.Engine

	stopCh chan struct{}
	doneCh chan struct{}
	once   sync.Once

	// Per-symbol market-data accumulators, indexed by registry symbol
	// index. Updated from matched fills and carried forward across
	// process_order calls that produce no fill, since last_price and
	// volume_24h are cumulative, not per-call.
	lastPrice []int64
	lastQty   []int64
	volume24h []int64
}

// New builds a Loop over reg, registering cfg.Symbols up front. store
// may be nil (resting orders are then untracked, matching never
// nil-checks it — orderbook.Book already tolerates a nil store for
// exactly this reason).
func New(cfg Config, reg *region.Region, store reststore.Store, logger *common.EngineLogger, mtr *metrics.Engine) (*Loop, error) {
	l := &Loop{
		cfg:    cfg,
		reg:    reg,
		orders: ring.NewOrderRing(reg),
		trades: ring.NewTradeRing(reg),
		store:  store,
		names:  newRegistry(),
		logger: logger,
		mtr:    mtr,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	for _, sym := range cfg.Symbols {
		if _, err := l.RegisterSymbol(sym); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// RegisterSymbol adds a new symbol's book at the next free index. Safe
// to call only before Start, or from within the loop goroutine itself.
func (l *Loop) RegisterSymbol(symbol string) (uint32, error) {
	idx, fp, err := l.names.register(symbol)
	if err != nil {
		return 0, err
	}
	if idx != len(l.books) {
		// registry and books must stay in lockstep; this would only
		// happen if RegisterSymbol were called concurrently with Start.
		panic("engine: symbol registry/book index mismatch")
	}
	l.books = append(l.books, orderbook.New(fp, l.store, l.cfg.CarryMarketRemainder))
	l.lastPrice = append(l.lastPrice, 0)
	l.lastQty = append(l.lastQty, 0)
	l.volume24h = append(l.volume24h, 0)
	return fp, nil
}

// Start launches the loop goroutine and returns immediately.
func (l *Loop) Start() {
	go l.run()
}

// Shutdown signals the loop to stop after finishing any in-flight
// process_order call, flushes the region, and waits up to
// cfg.ShutdownJoinTimeout (or ctx's deadline, whichever is sooner) for
// the loop goroutine to exit.
func (l *Loop) Shutdown(ctx context.Context) error {
	l.once.Do(func() { close(l.stopCh) })

	deadline := time.NewTimer(l.cfg.ShutdownJoinTimeout)
	defer deadline.Stop()

	select {
	case <-l.doneCh:
	case <-ctx.Done():
		return ctx.Err()
	case <-deadline.C:
	}
	return l.reg.Flush()
}

func (l *Loop) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(l.doneCh)

	l.reg.SetStatus(region.StatusActive)
	discards := 0

	for {
		select {
		case <-l.stopCh:
			l.reg.SetStatus(region.StatusIdle)
			return
		default:
		}

		o, ok := l.orders.Poll()
		if !ok {
			time.Sleep(l.cfg.IdleBackoff)
			continue
		}

		start := time.Now()
		if !o.Valid() {
			discards++
			if l.logger != nil {
				l.logger.LogRingCondition("order", "discarded_invalid", map[string]interface{}{"order_id": o.OrderID})
			}
			if l.mtr != nil {
				l.mtr.SlotsDiscarded.Inc()
			}
			if discards > l.cfg.MaxConsecutiveDiscards {
				// Soft cap: surfaced as a repeated error log, not a
				// halt. The loop keeps draining the ring either way,
				// since a run of corrupt/invalid slots is an upstream
				// producer bug, not something the consumer can fix by
				// stopping.
				if l.logger != nil {
					l.logger.LogError(common.ErrCorruptSlot, "poll", map[string]interface{}{"consecutive_discards": discards})
				}
			}
			continue
		}
		discards = 0

		l.processOne(o)

		if l.mtr != nil {
			l.mtr.OrdersProcessed.Inc()
			l.mtr.OrderRingDepth.Set(float64(l.orders.Size()))
			l.mtr.IterationLatency.Observe(time.Since(start).Seconds())
		}
		l.reg.SetLastUpdateTS(uint64(time.Now().UnixNano()))
	}
}

// processOne dispatches o to its book, emits resulting trades to the
// trade ring, and refreshes that symbol's market-data and price-level
// snapshots.
func (l *Loop) processOne(o ring.Order) {
	idx, ok := l.names.indexFor(o.SymbolFP)
	if !ok {
		if l.logger != nil {
			l.logger.LogRingCondition("order", "unknown_symbol", map[string]interface{}{"order_id": o.OrderID, "symbol_fp": o.SymbolFP})
		}
		if l.mtr != nil {
			l.mtr.UnknownSymbol.Inc()
		}
		return
	}

	book := l.books[idx]
	res := book.ProcessOrder(o)

	for _, f := range res.Fills {
		// Market data reflects the match itself, not the trade ring's
		// delivery of it, so last_price/last_quantity/volume_24h are
		// updated whether or not the ring had room for the record.
		l.lastPrice[idx] = f.Price
		l.lastQty[idx] = f.Quantity
		l.volume24h[idx] += f.Quantity

		// A full trade ring is retried with a bounded, doubling backoff
		// before the trade record is given up on.
		const tradeRingRetries = 5
		_, ok := l.trades.OfferTrade(f.BuyOrderID, f.SellOrderID, f.Price, f.Quantity, o.SymbolFP)
		for attempt, backoff := 0, l.cfg.IdleBackoff; !ok && attempt < tradeRingRetries; attempt++ {
			time.Sleep(backoff)
			backoff *= 2
			_, ok = l.trades.OfferTrade(f.BuyOrderID, f.SellOrderID, f.Price, f.Quantity, o.SymbolFP)
		}
		if !ok {
			if l.mtr != nil {
				l.mtr.TradeRingFull.Inc()
			}
			if l.logger != nil {
				l.logger.LogRingCondition("trade", "offer_failed", map[string]interface{}{"symbol_fp": o.SymbolFP})
			}
			continue
		}
		if l.mtr != nil {
			l.mtr.TradesEmitted.Inc()
		}
	}

	l.writeSnapshots(idx, book)
}

func (l *Loop) writeSnapshots(symbolIndex int, book *orderbook.Book) {
	md := region.MarketData{
		SymbolFP:     book.SymbolFP,
		LastPrice:    l.lastPrice[symbolIndex],
		LastQuantity: l.lastQty[symbolIndex],
		Volume24h:    l.volume24h[symbolIndex],
		BestBid:      book.BestBid(),
		BestAsk:      book.BestAsk(),
		Timestamp:    time.Now().UnixNano(),
	}
	l.reg.WriteMarketData(symbolIndex, md)

	for _, lvl := range book.TopBids(region.MaxLevels) {
		l.reg.WritePriceLevel(symbolIndex, 0, region.PriceLevelSnapshot{
			Price: lvl.Price, TotalQuantity: lvl.TotalQuantity, OrderCount: int64(lvl.OrderCount),
		})
	}
	for _, lvl := range book.TopAsks(region.MaxLevels) {
		l.reg.WritePriceLevel(symbolIndex, 1, region.PriceLevelSnapshot{
			Price: lvl.Price, TotalQuantity: lvl.TotalQuantity, OrderCount: int64(lvl.OrderCount),
		})
	}
}

// Book returns the order book for a registered symbol fingerprint, or
// nil if unregistered. Exposed for tests and read-only introspection.
func (l *Loop) Book(symbolFP uint32) *orderbook.Book {
	idx, ok := l.names.indexFor(symbolFP)
	if !ok {
		return nil
	}
	return l.books[idx]
}
