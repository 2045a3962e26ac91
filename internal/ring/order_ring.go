// Package ring implements the two lock-free ring-buffer queues that
// sit in the shared mapped region: the order ring and the trade ring. Both are fixed-size circular buffers of
// bit-exact records addressed directly in the mapped byte slice.
package ring

import (
	"encoding/binary"

	"github.com/abdoElHodaky/matchcore/internal/region"
)

// Side and Type enum values. Zero values are BUY/LIMIT per // so a zero-initialized slot reads as the lowest-risk variant.
const (
	SideBuy  uint32 = 0
	SideSell uint32 = 1

	TypeLimit  uint32 = 0
	TypeMarket uint32 = 1
)

// Order is the in-process representation of one order-ring slot.
type Order struct {
	OrderID   uint64
	SymbolFP  uint32
	Side      uint32
	Type      uint32
	Price     int64
	Quantity  int64
	Timestamp int64
}

// Valid reports whether o satisfies the Order validity predicate from
// : positive id, positive quantity, positive timestamp, and
// (MARKET or positive price).
func (o Order) Valid() bool {
	if o.OrderID == 0 || o.Quantity <= 0 || o.Timestamp <= 0 {
		return false
	}
	if o.Type != TypeMarket && o.Price <= 0 {
		return false
	}
	return true
}

// OrderRing is the single-producer/single-consumer ring buffer of
// order records living at region.OrderRingOffset.
type OrderRing struct {
	reg *region.Region
}

// NewOrderRing wraps reg's order-ring section.
func NewOrderRing(reg *region.Region) *OrderRing {
	return &OrderRing{reg: reg}
}

func (r *OrderRing) slotOffset(index uint64) int64 {
	return int64(region.OrderRingOffset) + int64(index)*region.OrderSlotSize
}

// Offer serializes o into the slot at tail and publishes the advanced
// tail with a release store. Returns false if the ring is full
// ((tail+1) mod N == head), leaving the ring unmodified. Head and tail
// are kept within [0, N) at all times,
// so the advance itself wraps modulo N.
func (r *OrderRing) Offer(o Order) bool {
	head := r.reg.OrderRingHead()
	tail := r.reg.OrderRingTail()
	next := (tail + 1) % region.NOrder
	if next == head {
		return false
	}

	off := r.slotOffset(tail)
	buf := r.reg.Bytes()[off : off+region.OrderSlotSize]
	encodeOrder(buf, o)

	r.reg.SetOrderRingTail(next)
	return true
}

// Poll deserializes and removes the slot at head, advancing head with
// a release store after an acquire load of tail. Returns ok=false if
// the ring is empty.
func (r *OrderRing) Poll() (o Order, ok bool) {
	head := r.reg.OrderRingHead()
	tail := r.reg.OrderRingTail()
	if head == tail {
		return Order{}, false
	}

	off := r.slotOffset(head)
	buf := r.reg.Bytes()[off : off+region.OrderSlotSize]
	o = decodeOrder(buf)

	r.reg.SetOrderRingHead((head + 1) % region.NOrder)
	return o, true
}

// Size, IsEmpty, IsFull are derived from (head, tail, N).
func (r *OrderRing) Size() uint64 {
	head := r.reg.OrderRingHead()
	tail := r.reg.OrderRingTail()
	return (tail + region.NOrder - head) % region.NOrder
}

func (r *OrderRing) IsEmpty() bool {
	return r.reg.OrderRingHead() == r.reg.OrderRingTail()
}

func (r *OrderRing) IsFull() bool {
	head := r.reg.OrderRingHead()
	tail := r.reg.OrderRingTail()
	return (tail+1)%region.NOrder == head%region.NOrder
}

func encodeOrder(buf []byte, o Order) {
	binary.LittleEndian.PutUint64(buf[0:8], o.OrderID)
	binary.LittleEndian.PutUint32(buf[8:12], o.SymbolFP)
	binary.LittleEndian.PutUint32(buf[12:16], o.Side)
	binary.LittleEndian.PutUint32(buf[16:20], o.Type)
	binary.LittleEndian.PutUint64(buf[20:28], uint64(o.Price))
	binary.LittleEndian.PutUint64(buf[28:36], uint64(o.Quantity))
	binary.LittleEndian.PutUint64(buf[36:44], uint64(o.Timestamp))
}

func decodeOrder(buf []byte) Order {
	return Order{
		OrderID:   binary.LittleEndian.Uint64(buf[0:8]),
		SymbolFP:  binary.LittleEndian.Uint32(buf[8:12]),
		Side:      normalizeEnum(binary.LittleEndian.Uint32(buf[12:16]), SideSell),
		Type:      normalizeEnum(binary.LittleEndian.Uint32(buf[16:20]), TypeMarket),
		Price:     int64(binary.LittleEndian.Uint64(buf[20:28])),
		Quantity:  int64(binary.LittleEndian.Uint64(buf[28:36])),
		Timestamp: int64(binary.LittleEndian.Uint64(buf[36:44])),
	}
}

// normalizeEnum maps any value outside {0, max} to the zero (default)
// variant, so an out-of-range enum never fails the program. The record
// is not otherwise marked invalid: Valid judges it on its remaining
// fields only.
func normalizeEnum(v uint32, max uint32) uint32 {
	if v == max {
		return v
	}
	return 0
}
