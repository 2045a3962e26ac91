package orderbook

import "container/list"

// level is one price's node: a FIFO of resting orders plus pointers
// that thread it into the side's best-price-first linked list. This
// mirrors the NASDAQ-ITCH-style HashMap+doubly-linked-list design used
// by the lightning-exchange sibling repo's price tree, narrowed to
// exactly what asks for (O(1) append/pop-front FIFO,
// O(1) aggregate maintenance, no back-link from order to level).
type level struct {
	price    int64
	orders   *list.List // of *RestingOrder
	totalQty int64
	next     *level
	prev     *level
}

func (lv *level) snapshot() PriceLevel {
	return PriceLevel{Price: lv.price, TotalQuantity: lv.totalQty, OrderCount: lv.orders.Len()}
}

// priceSide is one side (bids or asks) of a single symbol's book: a
// map for O(1) price lookup plus a doubly linked list ordered from
// best price to worst, with a direct pointer to the best level.
type priceSide struct {
	levels     map[int64]*level
	best       *level
	descending bool // true for bids (best = highest), false for asks (best = lowest)
}

func newPriceSide(descending bool) *priceSide {
	return &priceSide{levels: make(map[int64]*level), descending: descending}
}

func (s *priceSide) isEmpty() bool { return s.best == nil }

// bestPrice returns the best resting price, or 0 if the side is empty.
func (s *priceSide) bestPrice() int64 {
	if s.best == nil {
		return 0
	}
	return s.best.price
}

func (s *priceSide) get(price int64) (*level, bool) {
	lv, ok := s.levels[price]
	return lv, ok
}

// isBetter reports whether candidate is a better (higher priority)
// price than current for this side.
func (s *priceSide) isBetter(candidate, current int64) bool {
	if s.descending {
		return candidate > current
	}
	return candidate < current
}

// insert appends a resting order to the FIFO at its price, creating
// the level (and threading it into the linked list) if necessary.
func (s *priceSide) insert(ro *RestingOrder) {
	lv, ok := s.levels[ro.Price]
	if !ok {
		lv = &level{price: ro.Price, orders: list.New()}
		s.levels[ro.Price] = lv
		s.linkLevel(lv)
	}
	lv.orders.PushBack(ro)
	lv.totalQty += ro.Quantity
}

func (s *priceSide) linkLevel(lv *level) {
	if s.best == nil {
		s.best = lv
		return
	}
	if s.isBetter(lv.price, s.best.price) {
		lv.next = s.best
		s.best.prev = lv
		s.best = lv
		return
	}
	cur := s.best
	for cur.next != nil && !s.isBetter(lv.price, cur.next.price) {
		cur = cur.next
	}
	lv.next = cur.next
	lv.prev = cur
	if cur.next != nil {
		cur.next.prev = lv
	}
	cur.next = lv
}

func (s *priceSide) unlinkLevel(lv *level) {
	delete(s.levels, lv.price)
	if lv.prev != nil {
		lv.prev.next = lv.next
	} else {
		s.best = lv.next
	}
	if lv.next != nil {
		lv.next.prev = lv.prev
	}
	lv.next = nil
	lv.prev = nil
}

// removeIfEmpty unlinks lv from the side once its FIFO is drained.
func (s *priceSide) removeIfEmpty(lv *level) {
	if lv.orders.Len() == 0 {
		s.unlinkLevel(lv)
	}
}

// topN returns up to n price levels starting from best, for callers
// that need the authoritative (non-lossy) depth instead of the mapped
// price-level snapshot.
func (s *priceSide) topN(n int) []PriceLevel {
	out := make([]PriceLevel, 0, n)
	for cur := s.best; cur != nil && len(out) < n; cur = cur.next {
		out = append(out, cur.snapshot())
	}
	return out
}
