package region

// Layout constants for the shared mapped region. All multi-byte
// integers are little-endian; the header words are 8-byte aligned,
// while fields inside the packed ring slots and market-data records
// are not all naturally aligned. Offsets below are
// byte-exact per the wire format this package and internal/ring depend
// on. Changing any of these values changes the on-disk/on-mmap format.
const (
	// HeaderSize is the fixed header region at offset 0.
	HeaderSize = 64

	// Header field offsets, each an 8-byte naturally aligned word.
	OffOrderRingHead = 0
	OffOrderRingTail = 8
	OffTradeRingHead = 16
	OffTradeRingTail = 24
	OffNextTradeID   = 32
	OffLastUpdateTS  = 40
	OffVersion       = 48
	OffStatus        = 56

	// NOrder is the number of slots in the order ring.
	NOrder = 1 << 20 // 1,048,576
	// OrderSlotSize is the fixed size of one order ring slot, in bytes:
	// order_id(8)+symbol_fp(4)+side(4)+type(4)+price(8)+quantity(8)+timestamp(8) = 44.
	// This field-by-field sum is what the serializer in internal/ring
	// actually round-trips against; some design notes describe the
	// order/trade slot sizes the other way around (52/44), but 44 here
	// and 52 below are the values that are internally consistent.
	OrderSlotSize = 44

	// NTrade is the number of slots in the trade ring.
	NTrade = 1 << 20 // 1,048,576
	// TradeSlotSize is the fixed size of one trade ring slot, in bytes:
	// trade_id(8)+buy_id(8)+sell_id(8)+price(8)+quantity(8)+timestamp(8)+symbol_fp(4) = 52.
	TradeSlotSize = 52

	// MaxSymbols bounds the dense market-data and price-level arrays.
	MaxSymbols = 1000
	// MarketDataRecordSize is the fixed size of one market-data record.
	MarketDataRecordSize = 52

	// MaxLevels bounds the per-side price-level snapshot slots. Index
	// within a side is price mod MaxLevels; collisions are an accepted,
	// documented lossy projection.
	MaxLevels = 10000
	// PriceLevelRecordSize is the fixed size of one price-level record.
	PriceLevelRecordSize = 24

	// StatusIdle and StatusActive are the header's status field values.
	StatusIdle   = 0
	StatusActive = 1
)

// Derived section offsets within the mapped region.
const (
	OrderRingOffset      = HeaderSize
	TradeRingOffset      = OrderRingOffset + NOrder*OrderSlotSize
	MarketDataOffset     = TradeRingOffset + NTrade*TradeSlotSize
	PriceLevelsOffset    = MarketDataOffset + MaxSymbols*MarketDataRecordSize
	pricLevelsPerSymbol  = 2 * MaxLevels * PriceLevelRecordSize
	// TotalSize is the fixed file size the region must have, with the
	// defaults above (~554MiB).
	TotalSize = PriceLevelsOffset + MaxSymbols*pricLevelsPerSymbol
)

// PriceLevelOffset returns the byte offset of the price-level record
// for symbol index s, side (0=bid, 1=ask), and price, applying the
// price mod MaxLevels snapshot-slot policy.
func PriceLevelOffset(symbolIndex int, side int, price int64) int64 {
	idx := price % MaxLevels
	if idx < 0 {
		idx = -idx
	}
	base := int64(symbolIndex)*2*MaxLevels*PriceLevelRecordSize + int64(side)*MaxLevels*PriceLevelRecordSize
	return PriceLevelsOffset + base + idx*PriceLevelRecordSize
}

// MarketDataOffsetFor returns the byte offset of the market-data record
// for symbol index s.
func MarketDataOffsetFor(symbolIndex int) int64 {
	return MarketDataOffset + int64(symbolIndex)*MarketDataRecordSize
}
