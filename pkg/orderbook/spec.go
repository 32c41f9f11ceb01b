package orderbook

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderSpec is the caller-facing input to Submit (§6 `submit(order_spec)`).
// It is translated into an internal *Order after validation.
type OrderSpec struct {
	OrderID         string // generated if blank
	Side            Side
	Type            OrderType
	TimeInForce     TimeInForce // defaults to GTC
	PostOnly        bool
	Price           decimal.Decimal
	StopPrice       decimal.Decimal
	Quantity        decimal.Decimal
	DisplayQuantity decimal.Decimal // Iceberg only
	TrailValue      decimal.Decimal
	TrailIsPercent  bool
	UserID          string
	ExpiryTime      time.Time // required for GTD
}

// ModifyPatch carries the optional changes to apply atomically (§4.3
// modify semantics). A nil pointer field means "leave unchanged".
type ModifyPatch struct {
	NewPrice      *decimal.Decimal
	NewQuantity   *decimal.Decimal
	NewExpiryTime *time.Time
}

// SubmitResult is returned by Submit on success (§6).
type SubmitResult struct {
	OrderID string
	Trades  []*Trade
	Resting bool // true if a remainder was added to the book
}

// MarketBuySentinelPrice and MarketSellSentinelPrice implement the §6
// backward-compatible convention: a market buy may arrive as a Limit
// with this sentinel price, a market sell as a Limit with price 0.
// Submit normalizes either into a true Market order.
var (
	MarketBuySentinelPrice  = decimal.New(1, 18) // stands in for +∞
	MarketSellSentinelPrice = decimal.Zero
)

// RejectReason values carried on ORDER_REJECTED / ORDER_CANCELLED
// payloads, and on ORDER_FILLED (market insufficient liquidity) and
// ORDER_EXPIRED (expired) payloads (§4.2, §4.3, §7).
const (
	ReasonIOCRemainder                = "IOC_REMAINDER"
	ReasonFOKUnfillable               = "FOK_UNFILLABLE"
	ReasonPostOnlyWouldCross          = "POST_ONLY_WOULD_CROSS"
	ReasonMarketInsufficientLiquidity = "MARKET_INSUFFICIENT_LIQUIDITY"
	ReasonExpired                     = "EXPIRED"
)
