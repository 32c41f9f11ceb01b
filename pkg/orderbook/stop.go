package orderbook

import (
	"sort"

	"github.com/shopspring/decimal"
)

// stopTable parks StopLimit/StopMarket/TrailingStop orders until their
// trigger condition is reached (§4.3 "Stop-order arming"). It is a plain
// map keyed by order id; triggered entries are discovered by a linear
// scan on evaluate(), which is adequate at the scale a single-symbol
// stop table reaches and keeps the structure simple, matching the rest
// of this package's "plain data, dispatched by the match driver" design
// (§9).
type stopTable struct {
	orders map[string]*Order
	trail  map[string]decimal.Decimal // order id -> trailing extreme price seen so far
}

func newStopTable() *stopTable {
	return &stopTable{
		orders: make(map[string]*Order),
		trail:  make(map[string]decimal.Decimal),
	}
}

func (t *stopTable) park(o *Order) {
	t.orders[o.ID] = o
	if o.Type == TrailingStop {
		t.trail[o.ID] = o.StopPrice
	}
}

func (t *stopTable) remove(orderID string) (*Order, bool) {
	o, ok := t.orders[orderID]
	if ok {
		delete(t.orders, orderID)
		delete(t.trail, orderID)
	}
	return o, ok
}

func (t *stopTable) get(orderID string) (*Order, bool) {
	o, ok := t.orders[orderID]
	return o, ok
}

// updateTrailing recomputes a trailing stop's effective StopPrice given
// the latest reference price, moving it only in the protective
// direction. A Buy trailing stop protects a short and trails downward
// as price falls, arming to buy once price recovers by TrailValue (or
// TrailValue% of the low). A Sell trailing stop protects a long and
// trails upward as price rises, arming to sell once price gives back
// TrailValue from the high.
func (t *stopTable) updateTrailing(o *Order, ref decimal.Decimal) {
	if o.Type != TrailingStop {
		return
	}
	extreme, ok := t.trail[o.ID]
	if !ok {
		extreme = ref
	}

	if o.Side == Buy {
		if ref.LessThan(extreme) {
			extreme = ref
		}
		t.trail[o.ID] = extreme
		if o.TrailIsPercent {
			o.StopPrice = extreme.Mul(decimal.NewFromInt(1).Add(o.TrailValue.Div(decimal.NewFromInt(100))))
		} else {
			o.StopPrice = extreme.Add(o.TrailValue)
		}
		return
	}

	if ref.GreaterThan(extreme) {
		extreme = ref
	}
	t.trail[o.ID] = extreme
	if o.TrailIsPercent {
		o.StopPrice = extreme.Mul(decimal.NewFromInt(1).Sub(o.TrailValue.Div(decimal.NewFromInt(100))))
	} else {
		o.StopPrice = extreme.Sub(o.TrailValue)
	}
}

// triggered reports whether the stop's condition is met against ref: a
// buy stop arms once the reference price rises to or through StopPrice,
// a sell stop arms once it falls to or through it.
func triggered(o *Order, ref decimal.Decimal) bool {
	if o.Side == Buy {
		return ref.GreaterThanOrEqual(o.StopPrice)
	}
	return ref.LessThanOrEqual(o.StopPrice)
}

// evaluate updates trailing stops against ref, then removes and returns
// every order whose trigger condition is now met, ordered ascending by
// trigger price for buys and descending for sells, tie-broken by submit
// timestamp (§4.3).
func (t *stopTable) evaluate(ref decimal.Decimal) []*Order {
	var buys, sells []*Order
	for _, o := range t.orders {
		t.updateTrailing(o, ref)
		if !triggered(o, ref) {
			continue
		}
		if o.Side == Buy {
			buys = append(buys, o)
		} else {
			sells = append(sells, o)
		}
	}

	sort.Slice(buys, func(i, j int) bool {
		if !buys[i].StopPrice.Equal(buys[j].StopPrice) {
			return buys[i].StopPrice.LessThan(buys[j].StopPrice)
		}
		return buys[i].SubmitSeq < buys[j].SubmitSeq
	})
	sort.Slice(sells, func(i, j int) bool {
		if !sells[i].StopPrice.Equal(sells[j].StopPrice) {
			return sells[i].StopPrice.GreaterThan(sells[j].StopPrice)
		}
		return sells[i].SubmitSeq < sells[j].SubmitSeq
	})

	out := make([]*Order, 0, len(buys)+len(sells))
	for _, o := range buys {
		delete(t.orders, o.ID)
		delete(t.trail, o.ID)
		out = append(out, o)
	}
	for _, o := range sells {
		delete(t.orders, o.ID)
		delete(t.trail, o.ID)
		out = append(out, o)
	}
	return out
}
