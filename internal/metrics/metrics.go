// Package metrics exposes the engine's operational counters and
// histograms via github.com/prometheus/client_golang.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Engine bundles the collectors the matching-engine loop updates on
// every iteration. A nil-safe zero value is not supported; always
// construct via NewEngine.
type Engine struct {
	OrdersProcessed prometheus.Counter
	TradesEmitted   prometheus.Counter
	SlotsDiscarded  prometheus.Counter
	UnknownSymbol   prometheus.Counter
	OrderRingFull   prometheus.Counter
	TradeRingFull   prometheus.Counter

	OrderRingDepth prometheus.Gauge
	TradeRingDepth prometheus.Gauge

	IterationLatency prometheus.Histogram
}

// NewEngine registers and returns the engine metric set on reg. Pass
// prometheus.NewRegistry() in tests to avoid colliding with the global
// default registry across parallel test binaries.
func NewEngine(reg prometheus.Registerer) *Engine {
	e := &Engine{
		OrdersProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchcore_orders_processed_total",
			Help: "Total number of orders popped off the order ring and processed.",
		}),
		TradesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchcore_trades_emitted_total",
			Help: "Total number of trades written to the trade ring.",
		}),
		SlotsDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchcore_order_slots_discarded_total",
			Help: "Total number of polled order-ring slots discarded as invalid.",
		}),
		UnknownSymbol: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchcore_unknown_symbol_total",
			Help: "Total number of orders discarded for an unregistered symbol fingerprint.",
		}),
		OrderRingFull: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchcore_order_ring_full_total",
			Help: "Total number of admission rejections due to a full order ring.",
		}),
		TradeRingFull: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchcore_trade_ring_full_total",
			Help: "Total number of trade-ring offer failures.",
		}),
		OrderRingDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "matchcore_order_ring_depth",
			Help: "Current number of occupied order-ring slots.",
		}),
		TradeRingDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "matchcore_trade_ring_depth",
			Help: "Current number of occupied trade-ring slots.",
		}),
		IterationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "matchcore_engine_iteration_latency_seconds",
			Help:    "Wall-clock latency of one engine-loop iteration (poll through snapshot writes).",
			Buckets: prometheus.ExponentialBuckets(0.000001, 2, 20), // 1us .. ~524ms
		}),
	}

	reg.MustRegister(
		e.OrdersProcessed, e.TradesEmitted, e.SlotsDiscarded, e.UnknownSymbol,
		e.OrderRingFull, e.TradeRingFull, e.OrderRingDepth, e.TradeRingDepth,
		e.IterationLatency,
	)
	return e
}
