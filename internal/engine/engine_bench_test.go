package engine

import (
	"testing"
	"time"

	"github.com/abdoElHodaky/matchcore/internal/orderbook"
	"github.com/abdoElHodaky/matchcore/internal/reststore"
	"github.com/abdoElHodaky/matchcore/internal/ring"
)

// BenchmarkBook_RestingOrders measures insertion-only throughput (no
// crossing), the book's steady-state admission path.
func BenchmarkBook_RestingOrders(b *testing.B) {
	book := orderbook.New(1, reststore.NewInMemoryStore(), false)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		book.ProcessOrder(ring.Order{
			OrderID: uint64(i + 1), SymbolFP: 1, Side: ring.SideBuy, Type: ring.TypeLimit,
			Price: int64(100 + i%1000), Quantity: 10, Timestamp: int64(i + 1),
		})
	}
}

// BenchmarkBook_WithMatching measures throughput of sell orders sent
// against a pre-populated bid ladder. The ladder is consumed from the
// top, so the first 500 sells cross and later ones cross only while
// bids at or above their price remain; the others rest as asks.
func BenchmarkBook_WithMatching(b *testing.B) {
	book := orderbook.New(1, reststore.NewInMemoryStore(), false)
	for i := 0; i < 1000; i++ {
		book.ProcessOrder(ring.Order{
			OrderID: uint64(i + 1), SymbolFP: 1, Side: ring.SideBuy, Type: ring.TypeLimit,
			Price: int64(150 + i), Quantity: 100, Timestamp: int64(i + 1),
		})
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		book.ProcessOrder(ring.Order{
			OrderID: uint64(1000 + i + 1), SymbolFP: 1, Side: ring.SideSell, Type: ring.TypeLimit,
			Price: int64(150 + i%1000), Quantity: 100, Timestamp: int64(1000 + i + 1),
		})
	}
}

// BenchmarkBook_MarketOrders measures market-sweep throughput against
// a pre-populated ask ladder.
func BenchmarkBook_MarketOrders(b *testing.B) {
	book := orderbook.New(1, reststore.NewInMemoryStore(), false)
	for i := 0; i < 1000; i++ {
		book.ProcessOrder(ring.Order{
			OrderID: uint64(i + 1), SymbolFP: 1, Side: ring.SideSell, Type: ring.TypeLimit,
			Price: int64(150 + i), Quantity: 100, Timestamp: int64(i + 1),
		})
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		book.ProcessOrder(ring.Order{
			OrderID: uint64(1000 + i + 1), SymbolFP: 1, Side: ring.SideBuy, Type: ring.TypeMarket,
			Quantity: 100, Timestamp: int64(1000 + i + 1),
		})
	}
}

// BenchmarkBook_Latency reports per-call average/min/max latency
// against a 100μs soft target.
func BenchmarkBook_Latency(b *testing.B) {
	book := orderbook.New(1, reststore.NewInMemoryStore(), false)
	latencies := make([]time.Duration, b.N)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		start := time.Now()
		book.ProcessOrder(ring.Order{
			OrderID: uint64(i + 1), SymbolFP: 1, Side: ring.SideBuy, Type: ring.TypeLimit,
			Price: int64(100 + i%1000), Quantity: 10, Timestamp: int64(i + 1),
		})
		latencies[i] = time.Since(start)
	}
	b.StopTimer()

	var total, max time.Duration
	min := time.Hour
	for _, l := range latencies {
		total += l
		if l > max {
			max = l
		}
		if l < min {
			min = l
		}
	}
	avg := total / time.Duration(b.N)

	b.Logf("Latency: avg=%v min=%v max=%v target=100µs", avg, min, max)
}
