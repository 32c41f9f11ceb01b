package orderbook

import (
	"time"

	"github.com/shopspring/decimal"
)

// FillEvent is emitted once per fill, in the order it occurred, so the
// caller can publish TradeExecuted/OrderFilled/PriceLevelChanged events
// without having to re-derive ordering from a batched trade list.
type FillEvent struct {
	Trade        *Trade
	Maker        *Order
	MakerFilled  bool
	LevelEmptied bool
}

// MatchParams carries the fee configuration and id/time sources the
// matcher needs; it has no reference to the book itself, keeping Match a
// pure function over (taker, opposing book) as §4.2 requires.
type MatchParams struct {
	MakerFeeRate decimal.Decimal
	TakerFeeRate decimal.Decimal
	Now          func() time.Time
	NextTradeID  func() string
}

// crosses reports whether a resting level at levelPrice is marketable
// against taker. Market takers cross unconditionally (§4.2 step 2).
func crosses(taker *Order, levelPrice decimal.Decimal) bool {
	if taker.Type == Market {
		return true
	}
	if taker.Side == Buy {
		return levelPrice.LessThanOrEqual(taker.Price)
	}
	return levelPrice.GreaterThanOrEqual(taker.Price)
}

// Match drains opposing price levels against taker head-first within
// each level, at the maker's resting price (price improvement is
// therefore implicit, not conditional on any flag — see SPEC_FULL §1).
// It mutates taker.Quantity and the resting maker orders/levels in
// place, invoking onFill synchronously for every partial or full fill.
//
// Returns once taker is fully filled or the opposing book no longer
// crosses taker's limit; the caller inspects taker.Quantity afterwards
// to decide TIF/resting/iceberg-or-market-residual handling.
func Match(taker *Order, opposing *SideBook, p MatchParams, onFill func(FillEvent)) {
	for taker.Quantity.GreaterThan(decimal.Zero) {
		level, ok := opposing.Best()
		if !ok {
			return
		}
		if !crosses(taker, level.Price) {
			return
		}
		maker, ok := level.frontLive()
		if !ok {
			// Level drained of live orders between Best() and here; it
			// will have been evicted by dropEmptyLevel already, but
			// guard against an inconsistent caller.
			continue
		}

		fillQty := taker.Quantity
		if maker.Quantity.LessThan(fillQty) {
			fillQty = maker.Quantity
		}

		trade := newTrade(p.NextTradeID(), maker.ID, taker.ID, level.Price, fillQty,
			p.MakerFeeRate, p.TakerFeeRate, maker.UserID, taker.UserID, p.Now())

		level.fill(maker, fillQty)
		taker.Quantity = taker.Quantity.Sub(fillQty)

		makerFilled := maker.Quantity.LessThanOrEqual(decimal.Zero)
		levelEmptied := level.IsEmpty()
		if levelEmptied {
			opposing.dropEmptyLevel(level.Price)
		}

		onFill(FillEvent{Trade: trade, Maker: maker, MakerFilled: makerFilled, LevelEmptied: levelEmptied})
	}
}

// ProbeFillable computes the maximum quantity fillable against opposing
// at currently crossing prices, without mutating any state. Used for the
// FOK two-phase check (§4.2): reject before any mutation if the result
// is less than the taker's original quantity.
func ProbeFillable(taker *Order, opposing *SideBook) decimal.Decimal {
	fillable := decimal.Zero
	remaining := taker.Quantity
	for _, level := range opposing.IterFromBest() {
		if !crosses(taker, level.Price) {
			break
		}
		avail := level.AggregateQuantity()
		take := remaining
		if avail.LessThan(take) {
			take = avail
		}
		fillable = fillable.Add(take)
		remaining = remaining.Sub(take)
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
	}
	return fillable
}
