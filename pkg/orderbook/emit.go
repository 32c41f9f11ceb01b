package orderbook

import (
	"github.com/joripage/obcore/pkg/eventbus"
	"github.com/shopspring/decimal"
)

// This file is the single place OrderBook translates its internal
// mutations into eventbus.Event publishes, keeping Submit/Cancel/Modify
// focused on matching logic rather than payload construction.

func (ob *OrderBook) publish(t eventbus.EventType, payload any) {
	ob.bus.Publish(eventbus.Event{
		Type:      t,
		Symbol:    ob.cfg.Symbol,
		Timestamp: ob.cfg.now(),
		Payload:   payload,
	})
}

func (ob *OrderBook) lifecyclePayload(o *Order, reason string) eventbus.OrderLifecyclePayload {
	return eventbus.OrderLifecyclePayload{
		OrderID:           o.ID,
		UserID:            o.UserID,
		Side:              string(o.Side),
		Price:             o.Price.String(),
		Quantity:          o.OriginalQuantity.String(),
		RemainingQuantity: o.Quantity.String(),
		Reason:            reason,
	}
}

func (ob *OrderBook) emitOrderAdded(o *Order, newLevel bool) {
	ob.publish(eventbus.OrderAdded, ob.lifecyclePayload(o, ""))
	if newLevel {
		ob.emitPriceLevelAdded(o.Side, o.Price)
	}
}

func (ob *OrderBook) emitModified(o *Order) {
	ob.publish(eventbus.OrderModified, ob.lifecyclePayload(o, ""))
}

func (ob *OrderBook) emitCancelled(o *Order, reason string) {
	ob.publish(eventbus.OrderCancelled, ob.lifecyclePayload(o, reason))
}

func (ob *OrderBook) emitExpired(o *Order) {
	ob.publish(eventbus.OrderExpired, ob.lifecyclePayload(o, ReasonExpired))
}

func (ob *OrderBook) emitRejected(o *Order, reason string) {
	ob.counters.OrdersRejected++
	ob.publish(eventbus.OrderRejected, ob.lifecyclePayload(o, reason))
}

// emitFilledFlagged reports a residual-discard event (market
// insufficient liquidity) as an OrderFilled with the remaining
// quantity still visible in the payload, rather than a separate type.
func (ob *OrderBook) emitFilledFlagged(o *Order, reason string) {
	ob.publish(eventbus.OrderFilled, ob.lifecyclePayload(o, reason))
}

func (ob *OrderBook) emitTrade(t *Trade) {
	ob.publish(eventbus.TradeExecuted, eventbus.TradeExecutedPayload{
		TradeID:      t.TradeID,
		MakerOrderID: t.MakerOrderID,
		TakerOrderID: t.TakerOrderID,
		Price:        t.Price.String(),
		Quantity:     t.Quantity.String(),
		MakerFee:     t.MakerFee.String(),
		TakerFee:     t.TakerFee.String(),
		MakerUserID:  t.MakerUserID,
		TakerUserID:  t.TakerUserID,
	})
}

func (ob *OrderBook) emitFillEvent(taker *Order, fe FillEvent) {
	ob.publish(eventbus.OrderFilled, ob.lifecyclePayload(fe.Maker, ""))
	ob.publish(eventbus.OrderFilled, ob.lifecyclePayload(taker, ""))
	if fe.LevelEmptied {
		ob.emitPriceLevelRemoved(fe.Maker.Side, fe.Trade.Price)
	} else {
		sideBook, _ := ob.books(fe.Maker.Side)
		ob.emitPriceLevelChanged(sideBook, fe.Trade.Price)
	}
}

func (ob *OrderBook) emitPriceLevelAdded(side Side, price decimal.Decimal) {
	ob.publish(eventbus.PriceLevelAdded, eventbus.PriceLevelPayload{
		Side:  string(side),
		Price: price.String(),
	})
}

func (ob *OrderBook) emitPriceLevelRemoved(side Side, price decimal.Decimal) {
	ob.publish(eventbus.PriceLevelRemoved, eventbus.PriceLevelPayload{
		Side:  string(side),
		Price: price.String(),
	})
}

func (ob *OrderBook) emitPriceLevelChanged(sideBook *SideBook, price decimal.Decimal) {
	level, ok := sideBook.levelAt(price)
	payload := eventbus.PriceLevelPayload{
		Side:  string(sideBook.side),
		Price: price.String(),
	}
	if ok {
		payload.Quantity = level.DisplayedQuantity().String()
		payload.OrderCount = level.OrderCount()
	}
	ob.publish(eventbus.PriceLevelChanged, payload)
}

func (ob *OrderBook) emitBookUpdated() {
	ob.publish(eventbus.BookUpdated, eventbus.DepthChangedPayload{
		Bids: toLevelPayloads(ob.bids.Depth(0)),
		Asks: toLevelPayloads(ob.asks.Depth(0)),
	})
}

func toLevelPayloads(views []LevelView) []eventbus.LevelPayload {
	out := make([]eventbus.LevelPayload, len(views))
	for i, v := range views {
		out[i] = eventbus.LevelPayload{
			Price:      v.Price.String(),
			Quantity:   v.Quantity.String(),
			OrderCount: v.OrderCount,
		}
	}
	return out
}
