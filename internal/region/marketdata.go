package region

import "encoding/binary"

// MarketData is one per-symbol market-data snapshot record.
type MarketData struct {
	SymbolFP     uint32
	LastPrice    int64
	LastQuantity int64
	Volume24h    int64
	BestBid      int64
	BestAsk      int64
	Timestamp    int64
}

// WriteMarketData writes md into the dense market-data array at symbolIndex.
func (r *Region) WriteMarketData(symbolIndex int, md MarketData) {
	off := MarketDataOffsetFor(symbolIndex)
	buf := r.data[off : off+MarketDataRecordSize]
	binary.LittleEndian.PutUint32(buf[0:4], md.SymbolFP)
	binary.LittleEndian.PutUint64(buf[4:12], uint64(md.LastPrice))
	binary.LittleEndian.PutUint64(buf[12:20], uint64(md.LastQuantity))
	binary.LittleEndian.PutUint64(buf[20:28], uint64(md.Volume24h))
	binary.LittleEndian.PutUint64(buf[28:36], uint64(md.BestBid))
	binary.LittleEndian.PutUint64(buf[36:44], uint64(md.BestAsk))
	binary.LittleEndian.PutUint64(buf[44:52], uint64(md.Timestamp))
}

// ReadMarketData reads the market-data snapshot for symbolIndex.
// Callers (readers) may race a concurrent writer and see stale
// values. The record is packed (a 4-byte fingerprint first), so its
// 8-byte fields are not naturally aligned and are copied byte-wise;
// a read that overlaps a write can observe a torn field.
func (r *Region) ReadMarketData(symbolIndex int) MarketData {
	off := MarketDataOffsetFor(symbolIndex)
	buf := r.data[off : off+MarketDataRecordSize]
	return MarketData{
		SymbolFP:     binary.LittleEndian.Uint32(buf[0:4]),
		LastPrice:    int64(binary.LittleEndian.Uint64(buf[4:12])),
		LastQuantity: int64(binary.LittleEndian.Uint64(buf[12:20])),
		Volume24h:    int64(binary.LittleEndian.Uint64(buf[20:28])),
		BestBid:      int64(binary.LittleEndian.Uint64(buf[28:36])),
		BestAsk:      int64(binary.LittleEndian.Uint64(buf[36:44])),
		Timestamp:    int64(binary.LittleEndian.Uint64(buf[44:52])),
	}
}

// PriceLevelSnapshot is one price-level snapshot record.
type PriceLevelSnapshot struct {
	Price         int64
	TotalQuantity int64
	OrderCount    int64
}

// WritePriceLevel writes a snapshot for symbolIndex/side (0=bid,
// 1=ask) at the price mod MaxLevels slot. Collisions are an accepted
// lossy projection: the authoritative depth lives
// in the in-process orderbook, not in this snapshot.
func (r *Region) WritePriceLevel(symbolIndex, side int, pl PriceLevelSnapshot) {
	off := PriceLevelOffset(symbolIndex, side, pl.Price)
	buf := r.data[off : off+PriceLevelRecordSize]
	binary.LittleEndian.PutUint64(buf[0:8], uint64(pl.Price))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(pl.TotalQuantity))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(pl.OrderCount))
}

// ReadPriceLevel reads the snapshot slot for symbolIndex/side/price.
func (r *Region) ReadPriceLevel(symbolIndex, side int, price int64) PriceLevelSnapshot {
	off := PriceLevelOffset(symbolIndex, side, price)
	buf := r.data[off : off+PriceLevelRecordSize]
	return PriceLevelSnapshot{
		Price:         int64(binary.LittleEndian.Uint64(buf[0:8])),
		TotalQuantity: int64(binary.LittleEndian.Uint64(buf[8:16])),
		OrderCount:    int64(binary.LittleEndian.Uint64(buf[16:24])),
	}
}
