package orderbook

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of an order.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// OrderType selects the matching strategy applied to an order.
type OrderType string

const (
	Limit        OrderType = "LIMIT"
	Market       OrderType = "MARKET"
	StopLimit    OrderType = "STOP_LIMIT"
	StopMarket   OrderType = "STOP_MARKET"
	Iceberg      OrderType = "ICEBERG"
	TrailingStop OrderType = "TRAILING_STOP"
)

// TimeInForce controls how long an unfilled remainder persists.
type TimeInForce string

const (
	GTC TimeInForce = "GTC"
	IOC TimeInForce = "IOC"
	FOK TimeInForce = "FOK"
	GTD TimeInForce = "GTD"
	Day TimeInForce = "DAY"
)

// StopTriggerMode selects the reference price stop orders arm against.
type StopTriggerMode string

const (
	TriggerLastTrade StopTriggerMode = "LAST_TRADE"
	TriggerBestBid   StopTriggerMode = "BEST_BID"
	TriggerBestAsk   StopTriggerMode = "BEST_ASK"
)

// Order is the client-submitted descriptor of a resting or incoming
// order. Side never changes; Type is rewritten when a stop order arms;
// Price, Quantity, OriginalQuantity, ExpiryTime, DisplayQuantity's
// *contribution* and SubmitSeq may change across the order's lifetime
// via modify.
type Order struct {
	ID          string
	Symbol      string
	Side        Side
	Type        OrderType
	TimeInForce TimeInForce
	PostOnly    bool

	Price     decimal.Decimal // absent (zero) for pure Market; limit price for StopLimit
	StopPrice decimal.Decimal // present iff stop variant

	Quantity         decimal.Decimal // remaining
	OriginalQuantity decimal.Decimal // quantity at acceptance, reset by a quantity modify
	DisplayQuantity  decimal.Decimal // <= quantity; Iceberg only, zero means "not an iceberg"

	TrailValue     decimal.Decimal
	TrailIsPercent bool

	UserID          string
	ExpiryTime      time.Time // GTD deadline; zero value means none
	SubmitTimestamp time.Time
	SubmitSeq       uint64 // monotonic tie-break assigned by the owning book

	resting bool // true once inserted into a SideBook
}

// IsStop reports whether the order must be parked in the stop table
// until its trigger condition is reached.
func (o *Order) IsStop() bool {
	return o.Type == StopLimit || o.Type == StopMarket || o.Type == TrailingStop
}

// IsIceberg reports whether the order caps its visible quantity.
func (o *Order) IsIceberg() bool {
	return !o.DisplayQuantity.IsZero() && o.DisplayQuantity.LessThan(o.OriginalQuantity)
}

// triggerOrderType returns the concrete order type a stop order becomes
// once armed and resubmitted.
func (o *Order) triggerOrderType() OrderType {
	switch o.Type {
	case StopLimit:
		return Limit
	case StopMarket, TrailingStop:
		return Market
	default:
		return o.Type
	}
}

// clone returns a deep-enough copy safe to hand to a caller outside the
// book's lock; Order has no reference fields that need deep copying
// beyond decimal.Decimal, which is itself immutable value data.
func (o *Order) clone() *Order {
	c := *o
	return &c
}
