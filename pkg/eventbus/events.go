package eventbus

import "time"

// EventType names one of the lifecycle/book events published by an
// OrderBook. Handlers subscribe per-type or via SubscribeAll.
type EventType string

const (
	OrderAdded        EventType = "ORDER_ADDED"
	OrderModified     EventType = "ORDER_MODIFIED"
	OrderCancelled    EventType = "ORDER_CANCELLED"
	OrderFilled       EventType = "ORDER_FILLED"
	OrderExpired      EventType = "ORDER_EXPIRED"
	OrderRejected     EventType = "ORDER_REJECTED"
	TradeExecuted     EventType = "TRADE_EXECUTED"
	PriceLevelAdded   EventType = "PRICE_LEVEL_ADDED"
	PriceLevelRemoved EventType = "PRICE_LEVEL_REMOVED"
	PriceLevelChanged EventType = "PRICE_LEVEL_CHANGED"
	BookUpdated       EventType = "BOOK_UPDATED"
	DepthChanged      EventType = "DEPTH_CHANGED"
	SnapshotCreated   EventType = "SNAPSHOT_CREATED"
	GeneratorStatus   EventType = "GENERATOR_STATUS"
)

// Event is the envelope every publish carries: the type/symbol/time
// common to all payloads per §6, plus the type-specific Payload.
type Event struct {
	Type      EventType
	Symbol    string
	Timestamp time.Time
	Payload   any
}

// TradeExecutedPayload mirrors §6's ExternalInterfaces table for
// TradeExecuted.
type TradeExecutedPayload struct {
	TradeID      string
	MakerOrderID string
	TakerOrderID string
	Price        string
	Quantity     string
	MakerFee     string
	TakerFee     string
	MakerUserID  string
	TakerUserID  string
}

// OrderLifecyclePayload covers Added/Modified/Cancelled/Filled/Expired/
// Rejected — they share the same shape and differ only by Type/Reason.
type OrderLifecyclePayload struct {
	OrderID           string
	UserID            string
	Side              string
	Price             string
	Quantity          string
	RemainingQuantity string
	Reason            string // e.g. IOC_REMAINDER, EXPIRED, FOK_UNFILLABLE, POST_ONLY_WOULD_CROSS
}

// PriceLevelPayload covers Added/Removed/Changed.
type PriceLevelPayload struct {
	Side       string
	Price      string
	Quantity   string
	OrderCount int
}

// DepthChangedPayload carries the top-N snapshot that changed.
type DepthChangedPayload struct {
	Bids []LevelPayload
	Asks []LevelPayload
}

// LevelPayload is one row of a depth snapshot.
type LevelPayload struct {
	Price      string `json:"price"`
	Quantity   string `json:"quantity"`
	OrderCount int    `json:"order_count"`
}
