package common

import "errors"

// Sentinel errors for the matching core. Callers use errors.Is against
// these.
var (
	// ErrInvalidSubmission covers a submission that fails
	// ring.Order.Valid: non-positive quantity, or a LIMIT with
	// non-positive price. The admission broker does not check whether
	// the symbol fingerprint is registered; unknown symbols are only
	// caught by the engine loop.
	ErrInvalidSubmission = errors.New("invalid order submission")
	// ErrOrderRingFull means the order ring had no free slot for offer.
	ErrOrderRingFull = errors.New("order ring full")
	// ErrTradeRingFull means the trade ring had no free slot; this is
	// a surfaced, retried condition on the engine side.
	ErrTradeRingFull = errors.New("trade ring full")
	// ErrCorruptSlot means a polled order record failed validation.
	ErrCorruptSlot = errors.New("corrupt order slot")
	// ErrUnknownSymbol means a symbol fingerprint has no registered book.
	ErrUnknownSymbol = errors.New("unknown symbol fingerprint")
	// ErrRegionInit covers any failure to open or map the shared region.
	ErrRegionInit = errors.New("shared region initialization failed")
	// ErrDuplicateFingerprint is fatal at symbol-registration time.
	ErrDuplicateFingerprint = errors.New("symbol fingerprint collision")
)
