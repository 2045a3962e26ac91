package engine

import "time"

// Config controls the matching-engine loop.
type Config struct {
	// Symbols is the set of symbols registered at startup, in
	// registration order. Fingerprints are assigned by Hash(symbol).
	Symbols []string

	// IdleBackoff is how long the loop sleeps after an empty poll
	// before retrying. It is also the first delay of the doubling
	// backoff used while the trade ring is full.
	IdleBackoff time.Duration

	// MaxConsecutiveDiscards is how many corrupt/invalid polled slots
	// in a row the loop discards with only a warning; every further
	// consecutive discard is also logged as ErrCorruptSlot. The loop
	// keeps draining the order ring either way.
	MaxConsecutiveDiscards int

	// CarryMarketRemainder controls behavior when an incoming MARKET
	// order isn't fully filled: when true, the remainder is registered
	// with the resting-order store (not the book) at the last
	// execution price, purely for side-store visibility. Default false
	// drops the remainder instead.
	CarryMarketRemainder bool

	// ShutdownJoinTimeout bounds how long Shutdown waits for the loop
	// goroutine to observe the stop signal and return.
	ShutdownJoinTimeout time.Duration
}

// DefaultConfig returns the engine configuration used when none is
// supplied.
func DefaultConfig() Config {
	return Config{
		Symbols:                []string{"BTC-USD", "ETH-USD", "BNB-USD", "ADA-USD", "SOL-USD"},
		IdleBackoff:            200 * time.Microsecond,
		MaxConsecutiveDiscards: 100,
		CarryMarketRemainder:   false,
		ShutdownJoinTimeout:    5 * time.Second,
	}
}
