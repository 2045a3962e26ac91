// Package admission implements the thin serializing broker in front of
// the order ring's single-producer side: it validates an
// incoming submission, assigns the order id and timestamp, and is the
// only goroutine allowed to call OrderRing.Offer.
package admission

import (
	"fmt"
	"sync"
	"time"

	"github.com/abdoElHodaky/matchcore/internal/common"
	"github.com/abdoElHodaky/matchcore/internal/metrics"
	"github.com/abdoElHodaky/matchcore/internal/ring"
	"github.com/google/uuid"
)

// Submission is what an external caller hands to the broker. Unlike
// ring.Order, it carries no order id or timestamp — the broker stamps
// both, the way a sequencer owns a monotonic clock.
type Submission struct {
	SymbolFP uint32
	Side     uint32
	Type     uint32
	Price    int64
	Quantity int64
}

// Rejection carries a correlation id so a caller can find this
// specific rejection in logs without the order ever having existed in
// the ring.
type Rejection struct {
	CorrelationID string
	Err           error
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("submission rejected [%s]: %v", r.CorrelationID, r.Err)
}

// Broker serializes Submit calls with a single mutex: it never matches orders itself, only stamps and
// offers them.
type Broker struct {
	mu       sync.Mutex
	ring     *ring.OrderRing
	nextID   uint64
	logger   *common.EngineLogger
	metrics  *metrics.Engine
	validate func(ring.Order) bool
}

// NewBroker creates a broker over orderRing, starting order ids at 1.
func NewBroker(orderRing *ring.OrderRing, logger *common.EngineLogger, m *metrics.Engine) *Broker {
	return &Broker{
		ring:     orderRing,
		nextID:   1,
		logger:   logger,
		metrics:  m,
		validate: ring.Order.Valid,
	}
}

// Submit validates, stamps, and offers sub to the order ring. On
// success it returns the assigned order id. On failure (invalid
// submission or a full ring) it returns a *Rejection carrying a fresh
// correlation id for the caller to log and relay back.
func (b *Broker) Submit(sub Submission) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	o := ring.Order{
		OrderID:   id,
		SymbolFP:  sub.SymbolFP,
		Side:      sub.Side,
		Type:      sub.Type,
		Price:     sub.Price,
		Quantity:  sub.Quantity,
		Timestamp: time.Now().UnixNano(),
	}

	if !b.validate(o) {
		return 0, b.reject(common.ErrInvalidSubmission, sub)
	}

	if !b.ring.Offer(o) {
		if b.metrics != nil {
			b.metrics.OrderRingFull.Inc()
		}
		return 0, b.reject(common.ErrOrderRingFull, sub)
	}

	b.nextID++
	return id, nil
}

func (b *Broker) reject(cause error, sub Submission) error {
	cid := uuid.NewString()
	if b.logger != nil {
		b.logger.LogRingCondition("order", "rejected", map[string]interface{}{
			"correlation_id": cid,
			"symbol_fp":      sub.SymbolFP,
			"cause":          cause.Error(),
		})
	}
	return &Rejection{CorrelationID: cid, Err: cause}
}

// NextID returns the order id that will be assigned to the next
// Submit call.
func (b *Broker) NextID() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nextID
}
