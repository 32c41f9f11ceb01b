package orderbook

import (
	"container/heap"

	"github.com/shopspring/decimal"
)

// priceHeap is a binary heap over decimal prices ordered by a
// side-specific comparator (bids: highest first, asks: lowest first).
// Adapted from the teacher's PriceHeap: same lazy-membership idea, now
// keyed by decimal.Decimal via its canonical string form instead of
// float64, and used purely as an ordering index alongside SideBook's
// level map rather than owning order storage itself.
type priceHeap struct {
	prices []decimal.Decimal
	less   func(a, b decimal.Decimal) bool
	member map[string]bool
}

func newPriceHeap(less func(a, b decimal.Decimal) bool) *priceHeap {
	return &priceHeap{less: less, member: make(map[string]bool)}
}

func (h priceHeap) Len() int { return len(h.prices) }
func (h priceHeap) Less(i, j int) bool {
	return h.less(h.prices[i], h.prices[j])
}
func (h priceHeap) Swap(i, j int) { h.prices[i], h.prices[j] = h.prices[j], h.prices[i] }

func (h *priceHeap) Push(x any) {
	p := x.(decimal.Decimal)
	key := p.String()
	if h.member[key] {
		return
	}
	h.member[key] = true
	h.prices = append(h.prices, p)
}

func (h *priceHeap) Pop() any {
	n := len(h.prices)
	p := h.prices[n-1]
	h.prices = h.prices[:n-1]
	delete(h.member, p.String())
	return p
}

func (h *priceHeap) peek() (decimal.Decimal, bool) {
	if len(h.prices) == 0 {
		return decimal.Zero, false
	}
	return h.prices[0], true
}

// LevelView is the snapshot-facing projection of a PriceLevel.
type LevelView struct {
	Price      decimal.Decimal `json:"price"`
	Quantity   decimal.Decimal `json:"quantity"`
	OrderCount int             `json:"order_count"`
}

// SideBook is a sorted price -> PriceLevel map for one side of a book,
// with the best price reachable in O(1) amortised and insert/remove in
// O(log N) via the backing heap. Best() is bids-descending /
// asks-ascending per §4.1.
type SideBook struct {
	side   Side
	heap   *priceHeap
	levels map[string]*PriceLevel
}

func newSideBook(side Side) *SideBook {
	var less func(a, b decimal.Decimal) bool
	if side == Buy {
		less = func(a, b decimal.Decimal) bool { return a.GreaterThan(b) } // bids: best = highest
	} else {
		less = func(a, b decimal.Decimal) bool { return a.LessThan(b) } // asks: best = lowest
	}
	return &SideBook{
		side:   side,
		heap:   newPriceHeap(less),
		levels: make(map[string]*PriceLevel),
	}
}

func priceKey(p decimal.Decimal) string { return p.String() }

// Insert appends order to the tail of its price level, creating the
// level if absent. Returns true if a new level was created.
func (s *SideBook) Insert(o *Order) bool {
	key := priceKey(o.Price)
	level, ok := s.levels[key]
	created := false
	if !ok {
		level = newPriceLevel(o.Price, s.side)
		s.levels[key] = level
		heap.Push(s.heap, o.Price)
		created = true
	}
	level.push(o)
	return created
}

// Remove cancels order_id out of its price level. Returns the removed
// order and whether the level became empty as a result (and was
// therefore dropped from the book).
func (s *SideBook) Remove(price decimal.Decimal, orderID string) (*Order, bool, bool) {
	key := priceKey(price)
	level, ok := s.levels[key]
	if !ok {
		return nil, false, false
	}
	o, ok := level.cancel(orderID)
	if !ok {
		return nil, false, false
	}
	emptied := level.IsEmpty()
	if emptied {
		delete(s.levels, key)
	}
	return o, true, emptied
}

// Best peeks the best-price level, lazily discarding heap entries whose
// level has since emptied.
func (s *SideBook) Best() (*PriceLevel, bool) {
	for {
		p, ok := s.heap.peek()
		if !ok {
			return nil, false
		}
		level, ok := s.levels[priceKey(p)]
		if !ok || level.IsEmpty() {
			heap.Pop(s.heap)
			continue
		}
		return level, true
	}
}

// dropEmptyLevel evicts a level the matcher just drained to zero.
func (s *SideBook) dropEmptyLevel(price decimal.Decimal) {
	delete(s.levels, priceKey(price))
}

// levelAt returns the live level at price, if any.
func (s *SideBook) levelAt(price decimal.Decimal) (*PriceLevel, bool) {
	l, ok := s.levels[priceKey(price)]
	if !ok || l.IsEmpty() {
		return nil, false
	}
	return l, ok
}

// IsEmpty reports whether the side has no resting orders at all.
func (s *SideBook) IsEmpty() bool {
	_, ok := s.Best()
	return !ok
}

// IterFromBest returns live, non-empty levels ordered best-price-first.
// Used by snapshot/statistics/FOK-probe; not on the matching hot path.
func (s *SideBook) IterFromBest() []*PriceLevel {
	prices := make([]decimal.Decimal, 0, len(s.levels))
	for _, l := range s.levels {
		if !l.IsEmpty() {
			prices = append(prices, l.Price)
		}
	}
	sortDecimals(prices, s.heap.less)
	out := make([]*PriceLevel, 0, len(prices))
	for _, p := range prices {
		out = append(out, s.levels[priceKey(p)])
	}
	return out
}

// Depth produces the top `limit` levels (0 = all) in matching order.
func (s *SideBook) Depth(limit int) []LevelView {
	levels := s.IterFromBest()
	if limit > 0 && limit < len(levels) {
		levels = levels[:limit]
	}
	out := make([]LevelView, len(levels))
	for i, l := range levels {
		out[i] = LevelView{Price: l.Price, Quantity: l.DisplayedQuantity(), OrderCount: l.OrderCount()}
	}
	return out
}

// DepthFull is Depth but reporting the full (non-displayed) quantity.
func (s *SideBook) DepthFull(limit int) []LevelView {
	levels := s.IterFromBest()
	if limit > 0 && limit < len(levels) {
		levels = levels[:limit]
	}
	out := make([]LevelView, len(levels))
	for i, l := range levels {
		out[i] = LevelView{Price: l.Price, Quantity: l.AggregateQuantity(), OrderCount: l.OrderCount()}
	}
	return out
}

// sortDecimals is an insertion sort: book depth is always small (tens of
// levels), so this avoids pulling in sort.Slice's reflection overhead
// for a hot-ish path.
func sortDecimals(xs []decimal.Decimal, less func(a, b decimal.Decimal) bool) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && less(xs[j], xs[j-1]); j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
}
