package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/abdoElHodaky/matchcore/internal/common"
	"github.com/abdoElHodaky/matchcore/internal/metrics"
	"github.com/abdoElHodaky/matchcore/internal/region"
	"github.com/abdoElHodaky/matchcore/internal/reststore"
	"github.com/abdoElHodaky/matchcore/internal/ring"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoop(t *testing.T) (*Loop, *region.Region, uint32) {
	t.Helper()
	dir := t.TempDir()
	reg, err := region.Open(filepath.Join(dir, "region.bin"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Close() })

	cfg := DefaultConfig()
	cfg.Symbols = []string{"BTC-USD"}
	cfg.IdleBackoff = time.Millisecond

	store := reststore.NewInMemoryStore()
	logger := common.NewEngineLogger("engine-test")
	mtr := metrics.NewEngine(prometheus.NewRegistry())

	l, err := New(cfg, reg, store, logger, mtr)
	require.NoError(t, err)
	return l, reg, Fingerprint("BTC-USD")
}

func TestRegisterSymbolRejectsDuplicateFingerprint(t *testing.T) {
	l, _, _ := newTestLoop(t)
	_, err := l.RegisterSymbol("BTC-USD")
	require.ErrorIs(t, err, common.ErrDuplicateFingerprint)
}

func TestLoopMatchesRestingOrderAndEmitsTrade(t *testing.T) {
	l, reg, fp := newTestLoop(t)
	orders := ring.NewOrderRing(reg)
	trades := ring.NewTradeRing(reg)

	require.True(t, orders.Offer(ring.Order{OrderID: 1, SymbolFP: fp, Side: ring.SideSell, Type: ring.TypeLimit, Price: 100, Quantity: 10, Timestamp: 1}))
	require.True(t, orders.Offer(ring.Order{OrderID: 2, SymbolFP: fp, Side: ring.SideBuy, Type: ring.TypeLimit, Price: 100, Quantity: 4, Timestamp: 2}))

	l.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = l.Shutdown(ctx)
	})

	require.Eventually(t, func() bool {
		_, ok := trades.Poll()
		return ok
	}, time.Second, time.Millisecond)

	book := l.Book(fp)
	require.NotNil(t, book)
	assert.Eventually(t, func() bool {
		return book.BestAsk() == 100
	}, time.Second, time.Millisecond)

	assert.Eventually(t, func() bool {
		md := reg.ReadMarketData(0)
		return md.LastPrice == 100 && md.LastQuantity == 4 && md.Volume24h == 4
	}, time.Second, time.Millisecond)
}

func TestLoopDiscardsOrderForUnknownSymbol(t *testing.T) {
	l, reg, _ := newTestLoop(t)
	orders := ring.NewOrderRing(reg)

	unknownFP := Fingerprint("DOGE-USD")
	require.True(t, orders.Offer(ring.Order{OrderID: 1, SymbolFP: unknownFP, Side: ring.SideBuy, Type: ring.TypeLimit, Price: 1, Quantity: 1, Timestamp: 1}))

	l.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.Eventually(t, func() bool {
		return orders.IsEmpty()
	}, time.Second, time.Millisecond)

	require.NoError(t, l.Shutdown(ctx))
}

func TestShutdownFlushesRegionAndStopsLoop(t *testing.T) {
	l, reg, _ := newTestLoop(t)
	l.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, l.Shutdown(ctx))

	assert.Equal(t, uint64(region.StatusIdle), reg.Status())
}
