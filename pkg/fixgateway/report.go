package fixgateway

import (
	"context"

	"github.com/joripage/obcore/pkg/orderbook"
	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"
)

var orderTypeToFIX = map[orderbook.OrderType]enum.OrdType{
	orderbook.Limit:      enum.OrdType_LIMIT,
	orderbook.Market:     enum.OrdType_MARKET,
	orderbook.StopLimit:  enum.OrdType_STOP_LIMIT,
	orderbook.StopMarket: enum.OrdType_STOP,
	orderbook.Iceberg:    enum.OrdType_LIMIT,
}

var sideToFIX = map[orderbook.Side]enum.Side{
	orderbook.Buy:  enum.Side_BUY,
	orderbook.Sell: enum.Side_SELL,
}

// sendExecutionReport publishes one ExecutionReport for the immediate
// outcome of a just-accepted order: NEW if it rests untouched, a
// cumulative PARTIALLY_FILLED/FILLED if Submit matched trades inline.
// Later fills against a resting order are not reported by this
// gateway; they are published only on the book's EventBus.
func (g *Gateway) sendExecutionReport(ctx context.Context, sessionID quickfix.SessionID, clOrdID, symbol string, spec orderbook.OrderSpec, result orderbook.SubmitResult) {
	cumQty := decimal.Zero
	for _, t := range result.Trades {
		cumQty = cumQty.Add(t.Quantity)
	}
	leavesQty := spec.Quantity.Sub(cumQty)

	execType := enum.ExecType_NEW
	ordStatus := enum.OrdStatus_NEW
	switch {
	case cumQty.GreaterThan(decimal.Zero) && leavesQty.LessThanOrEqual(decimal.Zero):
		execType = enum.ExecType_TRADE
		ordStatus = enum.OrdStatus_FILLED
	case cumQty.GreaterThan(decimal.Zero):
		execType = enum.ExecType_TRADE
		ordStatus = enum.OrdStatus_PARTIALLY_FILLED
	case !result.Resting:
		execType = enum.ExecType_CANCELED
		ordStatus = enum.OrdStatus_CANCELED
	}

	msg := executionreport.New(
		field.NewOrderID(result.OrderID),
		field.NewExecID(result.OrderID+"-0"),
		field.NewExecType(execType),
		field.NewOrdStatus(ordStatus),
		field.NewSide(sideToFIX[spec.Side]),
		field.NewLeavesQty(leavesQty, 8),
		field.NewCumQty(cumQty, 8),
		field.NewAvgPx(avgPrice(result.Trades), 8),
	)
	msg.SetSymbol(symbol)
	msg.SetClOrdID(clOrdID)
	msg.SetOrderQty(spec.Quantity, 8)
	msg.SetOrdType(orderTypeToFIX[spec.Type])
	if !spec.Price.IsZero() {
		msg.SetPrice(spec.Price, 8)
	}
	msg.SetAccount(spec.UserID)

	quickfix.SendToTarget(msg, sessionID)
}

func avgPrice(trades []*orderbook.Trade) decimal.Decimal {
	if len(trades) == 0 {
		return decimal.Zero
	}
	totalValue := decimal.Zero
	totalQty := decimal.Zero
	for _, t := range trades {
		totalValue = totalValue.Add(t.Price.Mul(t.Quantity))
		totalQty = totalQty.Add(t.Quantity)
	}
	if totalQty.IsZero() {
		return decimal.Zero
	}
	return totalValue.Div(totalQty)
}

func (g *Gateway) sendReject(sessionID quickfix.SessionID, clOrdID, reason string) {
	msg := executionreport.New(
		field.NewOrderID(clOrdID),
		field.NewExecID(clOrdID+"-reject"),
		field.NewExecType(enum.ExecType_REJECTED),
		field.NewOrdStatus(enum.OrdStatus_REJECTED),
		field.NewSide(enum.Side_BUY),
		field.NewLeavesQty(decimal.Zero, 0),
		field.NewCumQty(decimal.Zero, 0),
		field.NewAvgPx(decimal.Zero, 0),
	)
	msg.SetSymbol("")
	msg.SetClOrdID(clOrdID)
	msg.SetText(reason)
	quickfix.SendToTarget(msg, sessionID)
}

func (g *Gateway) sendCancelAck(sessionID quickfix.SessionID, clOrdID, origClOrdID, symbol string) {
	msg := executionreport.New(
		field.NewOrderID(origClOrdID),
		field.NewExecID(clOrdID+"-cancel"),
		field.NewExecType(enum.ExecType_CANCELED),
		field.NewOrdStatus(enum.OrdStatus_CANCELED),
		field.NewSide(enum.Side_BUY),
		field.NewLeavesQty(decimal.Zero, 0),
		field.NewCumQty(decimal.Zero, 0),
		field.NewAvgPx(decimal.Zero, 0),
	)
	msg.SetSymbol(symbol)
	msg.SetClOrdID(clOrdID)
	msg.SetOrigClOrdID(origClOrdID)
	quickfix.SendToTarget(msg, sessionID)
}

func (g *Gateway) sendReplaceAck(sessionID quickfix.SessionID, clOrdID, origClOrdID, symbol string, result orderbook.SubmitResult) {
	msg := executionreport.New(
		field.NewOrderID(result.OrderID),
		field.NewExecID(clOrdID+"-replace"),
		field.NewExecType(enum.ExecType_REPLACED),
		field.NewOrdStatus(enum.OrdStatus_REPLACED),
		field.NewSide(enum.Side_BUY),
		field.NewLeavesQty(decimal.Zero, 0),
		field.NewCumQty(decimal.Zero, 0),
		field.NewAvgPx(decimal.Zero, 0),
	)
	msg.SetSymbol(symbol)
	msg.SetClOrdID(clOrdID)
	msg.SetOrigClOrdID(origClOrdID)
	quickfix.SendToTarget(msg, sessionID)
}
