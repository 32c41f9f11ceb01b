package fixgateway

import (
	"fmt"

	"github.com/joripage/obcore/pkg/orderbook"
	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/fix44/newordersingle"
	"github.com/quickfixgo/fix44/ordercancelreplacerequest"
	"github.com/quickfixgo/fix44/ordercancelrequest"
)

var ordTypeMapping = map[enum.OrdType]orderbook.OrderType{
	enum.OrdType_LIMIT:      orderbook.Limit,
	enum.OrdType_MARKET:     orderbook.Market,
	enum.OrdType_STOP:       orderbook.StopMarket,
	enum.OrdType_STOP_LIMIT: orderbook.StopLimit,
}

var timeInForceMapping = map[enum.TimeInForce]orderbook.TimeInForce{
	enum.TimeInForce_DAY:                 orderbook.Day,
	enum.TimeInForce_GOOD_TILL_CANCEL:    orderbook.GTC,
	enum.TimeInForce_IMMEDIATE_OR_CANCEL: orderbook.IOC,
	enum.TimeInForce_FILL_OR_KILL:        orderbook.FOK,
	enum.TimeInForce_GOOD_TILL_DATE:      orderbook.GTD,
}

var sideMapping = map[enum.Side]orderbook.Side{
	enum.Side_BUY:  orderbook.Buy,
	enum.Side_SELL: orderbook.Sell,
}

// newOrderSingleToSpec translates a NewOrderSingle into the registry's
// OrderSpec, resolving iceberg (MaxFloor present) and stop (StopPx
// present) variants the way the teacher's AddOrder handler inferred
// OrderType from the same fields, now against this module's richer
// OrderType set instead of the teacher's Limit/Market/Iceberg trio.
func newOrderSingleToSpec(msg newordersingle.NewOrderSingle) (clOrdID string, spec orderbook.OrderSpec, symbol string, err error) {
	clOrdID, err = msg.GetClOrdID()
	if err != nil {
		return "", orderbook.OrderSpec{}, "", fmt.Errorf("missing ClOrdID: %w", err)
	}
	symbol, err = msg.GetSymbol()
	if err != nil {
		return clOrdID, orderbook.OrderSpec{}, "", fmt.Errorf("missing Symbol: %w", err)
	}
	fixSide, err := msg.GetSide()
	if err != nil {
		return clOrdID, orderbook.OrderSpec{}, symbol, fmt.Errorf("missing Side: %w", err)
	}
	side, ok := sideMapping[fixSide]
	if !ok {
		return clOrdID, orderbook.OrderSpec{}, symbol, fmt.Errorf("unsupported Side %v", fixSide)
	}
	fixOrdType, err := msg.GetOrdType()
	if err != nil {
		return clOrdID, orderbook.OrderSpec{}, symbol, fmt.Errorf("missing OrdType: %w", err)
	}
	orderType, ok := ordTypeMapping[fixOrdType]
	if !ok {
		return clOrdID, orderbook.OrderSpec{}, symbol, fmt.Errorf("unsupported OrdType %v", fixOrdType)
	}
	price, _ := msg.GetPrice()
	orderQty, err := msg.GetOrderQty()
	if err != nil {
		return clOrdID, orderbook.OrderSpec{}, symbol, fmt.Errorf("missing OrderQty: %w", err)
	}
	account, _ := msg.GetAccount()
	fixTIF, _ := msg.GetTimeInForce()
	tif := timeInForceMapping[fixTIF]

	maxFloor, _ := msg.GetMaxFloor()
	if orderType == orderbook.Limit && !maxFloor.IsZero() && maxFloor.LessThan(orderQty) {
		orderType = orderbook.Iceberg
	}

	if stopPx, err := msg.GetStopPx(); err == nil && !stopPx.IsZero() {
		if orderType == orderbook.Limit {
			orderType = orderbook.StopLimit
		} else if orderType == orderbook.Market {
			orderType = orderbook.StopMarket
		}
		spec.StopPrice = stopPx
	}

	spec.OrderID = clOrdID
	spec.Side = side
	spec.Type = orderType
	spec.TimeInForce = tif
	spec.Price = price
	spec.Quantity = orderQty
	spec.DisplayQuantity = maxFloor
	spec.UserID = account
	return clOrdID, spec, symbol, nil
}

func orderCancelRequestFields(msg ordercancelrequest.OrderCancelRequest) (clOrdID, origClOrdID, symbol string, err error) {
	clOrdID, err = msg.GetClOrdID()
	if err != nil {
		return "", "", "", fmt.Errorf("missing ClOrdID: %w", err)
	}
	origClOrdID, err = msg.GetOrigClOrdID()
	if err != nil {
		return clOrdID, "", "", fmt.Errorf("missing OrigClOrdID: %w", err)
	}
	symbol, err = msg.GetSymbol()
	if err != nil {
		return clOrdID, origClOrdID, "", fmt.Errorf("missing Symbol: %w", err)
	}
	return clOrdID, origClOrdID, symbol, nil
}

func orderCancelReplaceRequestFields(msg ordercancelreplacerequest.OrderCancelReplaceRequest) (clOrdID, origClOrdID, symbol string, patch orderbook.ModifyPatch, err error) {
	clOrdID, err = msg.GetClOrdID()
	if err != nil {
		return "", "", "", orderbook.ModifyPatch{}, fmt.Errorf("missing ClOrdID: %w", err)
	}
	origClOrdID, err = msg.GetOrigClOrdID()
	if err != nil {
		return clOrdID, "", "", orderbook.ModifyPatch{}, fmt.Errorf("missing OrigClOrdID: %w", err)
	}
	symbol, err = msg.GetSymbol()
	if err != nil {
		return clOrdID, origClOrdID, "", orderbook.ModifyPatch{}, fmt.Errorf("missing Symbol: %w", err)
	}

	if price, perr := msg.GetPrice(); perr == nil {
		patch.NewPrice = &price
	}
	if qty, qerr := msg.GetOrderQty(); qerr == nil {
		patch.NewQuantity = &qty
	}
	return clOrdID, origClOrdID, symbol, patch, nil
}
