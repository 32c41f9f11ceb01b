package orderbook

import (
	"github.com/gammazero/deque"
	"github.com/shopspring/decimal"
)

// PriceLevel is the ordered queue of resting orders at one price on one
// side. The head of the queue is the oldest order (highest time
// priority). Cancelled/filled orders are deleted from the live map
// immediately but their id is left in the arrival queue as a tombstone
// that is discarded lazily the next time the queue is walked from the
// front — this mirrors the lazy-deletion the book this was ported from
// uses for its per-price FIFO queues.
type PriceLevel struct {
	Price decimal.Decimal
	Side  Side

	queue  deque.Deque[string]
	orders map[string]*Order

	aggQty     decimal.Decimal // sum of live Quantity (full depth)
	aggDisplay decimal.Decimal // sum of live displayed contribution
}

func newPriceLevel(price decimal.Decimal, side Side) *PriceLevel {
	return &PriceLevel{
		Price:  price,
		Side:   side,
		orders: make(map[string]*Order),
	}
}

// displayContribution is the quantity an order contributes to the
// displayed (iceberg-aware) aggregate.
func displayContribution(o *Order) decimal.Decimal {
	if !o.IsIceberg() {
		return o.Quantity
	}
	if o.Quantity.LessThan(o.DisplayQuantity) {
		return o.Quantity
	}
	return o.DisplayQuantity
}

// push appends order to the tail of the queue, establishing it as the
// most recently arrived order at this price.
func (l *PriceLevel) push(o *Order) {
	l.orders[o.ID] = o
	l.queue.PushBack(o.ID)
	l.aggQty = l.aggQty.Add(o.Quantity)
	l.aggDisplay = l.aggDisplay.Add(displayContribution(o))
	o.resting = true
}

// frontLive returns the oldest still-live order without removing it,
// discarding any stale tombstones encountered at the head along the way.
func (l *PriceLevel) frontLive() (*Order, bool) {
	for l.queue.Len() > 0 {
		id := l.queue.Front()
		if o, ok := l.orders[id]; ok {
			return o, true
		}
		l.queue.PopFront()
	}
	return nil, false
}

// fill applies a partial or full fill of qty against a live maker order,
// keeping the level's aggregates consistent. If the maker is fully
// filled it is removed from the live set (its queue slot becomes a
// tombstone, reclaimed lazily).
func (l *PriceLevel) fill(maker *Order, qty decimal.Decimal) {
	before := displayContribution(maker)
	maker.Quantity = maker.Quantity.Sub(qty)
	l.aggQty = l.aggQty.Sub(qty)
	after := displayContribution(maker)
	l.aggDisplay = l.aggDisplay.Add(after.Sub(before))

	if maker.Quantity.LessThanOrEqual(decimal.Zero) {
		delete(l.orders, maker.ID)
		maker.resting = false
	}
}

// cancel removes order_id from the live set unconditionally (used for
// explicit cancel and for the price/quantity-increase branch of
// modify). Returns the removed order, or ok=false if it was not live at
// this level.
func (l *PriceLevel) cancel(orderID string) (*Order, bool) {
	o, ok := l.orders[orderID]
	if !ok {
		return nil, false
	}
	l.aggQty = l.aggQty.Sub(o.Quantity)
	l.aggDisplay = l.aggDisplay.Sub(displayContribution(o))
	delete(l.orders, orderID)
	o.resting = false
	return o, true
}

// decreaseQuantity applies an in-place quantity reduction that retains
// time priority (§4.3 modify semantics).
func (l *PriceLevel) decreaseQuantity(o *Order, newQty decimal.Decimal) {
	before := displayContribution(o)
	delta := o.Quantity.Sub(newQty)
	o.Quantity = newQty
	l.aggQty = l.aggQty.Sub(delta)
	after := displayContribution(o)
	l.aggDisplay = l.aggDisplay.Add(after.Sub(before))
}

// IsEmpty reports whether the level has no live orders and must be
// removed from its SideBook in the same critical section (§3 invariant).
func (l *PriceLevel) IsEmpty() bool {
	return len(l.orders) == 0
}

// OrderCount is the number of live orders resting at this price.
func (l *PriceLevel) OrderCount() int {
	return len(l.orders)
}

// AggregateQuantity is the full (non-displayed) depth at this level.
func (l *PriceLevel) AggregateQuantity() decimal.Decimal {
	return l.aggQty
}

// DisplayedQuantity is the iceberg-aware depth at this level.
func (l *PriceLevel) DisplayedQuantity() decimal.Decimal {
	return l.aggDisplay
}

// Orders returns the live resting orders in arrival order. Intended for
// snapshots/debugging, not the matching hot path.
func (l *PriceLevel) Orders() []*Order {
	out := make([]*Order, 0, len(l.orders))
	for i := 0; i < l.queue.Len(); i++ {
		id := l.queue.At(i)
		if o, ok := l.orders[id]; ok {
			out = append(out, o)
		}
	}
	return out
}
