package ring

import (
	"encoding/binary"
	"time"

	"github.com/abdoElHodaky/matchcore/internal/region"
)

// Trade is the in-process representation of one trade-ring slot.
type Trade struct {
	TradeID   uint64
	BuyID     uint64
	SellID    uint64
	Price     int64
	Quantity  int64
	Timestamp int64
	SymbolFP  uint32
}

// TradeRing is the single-producer ring buffer of trade records living
// at region.TradeRingOffset. Only the matching engine writes to it.
type TradeRing struct {
	reg *region.Region
}

// NewTradeRing wraps reg's trade-ring section.
func NewTradeRing(reg *region.Region) *TradeRing {
	return &TradeRing{reg: reg}
}

func (r *TradeRing) slotOffset(index uint64) int64 {
	return int64(region.TradeRingOffset) + int64(index)*region.TradeSlotSize
}

// OfferTrade atomically assigns the next trade id, timestamps the
// record with monotonic nanoseconds, writes it at tail, and publishes
// the advanced tail. Returns (id, true), or (0, false) without
// advancing anything if the ring is full — a fatal drop condition the
// caller must surface as an error counter. Head and
// tail are kept within [0, N) at all times.
func (r *TradeRing) OfferTrade(buyID, sellID uint64, price, qty int64, symbolFP uint32) (uint64, bool) {
	head := r.reg.TradeRingHead()
	tail := r.reg.TradeRingTail()
	next := (tail + 1) % region.NTrade
	if next == head {
		return 0, false
	}

	id := r.reg.NextTradeID()
	t := Trade{
		TradeID:   id,
		BuyID:     buyID,
		SellID:    sellID,
		Price:     price,
		Quantity:  qty,
		Timestamp: time.Now().UnixNano(),
		SymbolFP:  symbolFP,
	}

	off := r.slotOffset(tail)
	buf := r.reg.Bytes()[off : off+region.TradeSlotSize]
	encodeTrade(buf, t)

	r.reg.SetTradeRingTail(next)
	return id, true
}

// Poll deserializes and removes the slot at head. Present for readers
// (e.g. a downstream trade consumer) even though the matching loop is
// the only producer; consumption is symmetric with the order ring.
func (r *TradeRing) Poll() (t Trade, ok bool) {
	head := r.reg.TradeRingHead()
	tail := r.reg.TradeRingTail()
	if head == tail {
		return Trade{}, false
	}

	off := r.slotOffset(head)
	buf := r.reg.Bytes()[off : off+region.TradeSlotSize]
	t = decodeTrade(buf)

	r.reg.SetTradeRingHead((head + 1) % region.NTrade)
	return t, true
}

func (r *TradeRing) IsFull() bool {
	head := r.reg.TradeRingHead()
	tail := r.reg.TradeRingTail()
	return (tail+1)%region.NTrade == head%region.NTrade
}

func encodeTrade(buf []byte, t Trade) {
	binary.LittleEndian.PutUint64(buf[0:8], t.TradeID)
	binary.LittleEndian.PutUint64(buf[8:16], t.BuyID)
	binary.LittleEndian.PutUint64(buf[16:24], t.SellID)
	binary.LittleEndian.PutUint64(buf[24:32], uint64(t.Price))
	binary.LittleEndian.PutUint64(buf[32:40], uint64(t.Quantity))
	binary.LittleEndian.PutUint64(buf[40:48], uint64(t.Timestamp))
	binary.LittleEndian.PutUint32(buf[48:52], t.SymbolFP)
}

func decodeTrade(buf []byte) Trade {
	return Trade{
		TradeID:   binary.LittleEndian.Uint64(buf[0:8]),
		BuyID:     binary.LittleEndian.Uint64(buf[8:16]),
		SellID:    binary.LittleEndian.Uint64(buf[16:24]),
		Price:     int64(binary.LittleEndian.Uint64(buf[24:32])),
		Quantity:  int64(binary.LittleEndian.Uint64(buf[32:40])),
		Timestamp: int64(binary.LittleEndian.Uint64(buf[40:48])),
		SymbolFP:  binary.LittleEndian.Uint32(buf[48:52]),
	}
}
