// Package eventlog persists trade and lifecycle events durably via
// GORM/Postgres and replays them off a NATS JetStream subject, adapted
// from the teacher's pkg/oms/repo (gorm.DB-backed SQL repos) and
// pkg/oms/worker (JetStream pull-consumer), retargeted from the
// teacher's FIX ClOrdID-chain bookkeeping onto this module's
// orderbook.Trade / eventbus.Event records.
package eventlog

import "time"

// TradeRecord is the durable row for one executed trade (§4.2), mirroring
// orderbook.Trade with string-encoded decimals for portability across
// database drivers.
type TradeRecord struct {
	TradeID      string    `gorm:"primaryKey"`
	Symbol       string    `gorm:"index"`
	MakerOrderID string
	TakerOrderID string
	Price        string
	Quantity     string
	MakerFee     string
	TakerFee     string
	MakerUserID  string `gorm:"index"`
	TakerUserID  string `gorm:"index"`
	Timestamp    time.Time `gorm:"index"`
}

func (TradeRecord) TableName() string { return "trades" }

// EventRecord is the durable row for any other book lifecycle event
// (order added/cancelled/expired, price level changes, ...), stored
// with its payload as JSON for replay/audit without needing a column
// per event shape.
type EventRecord struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	EventType string `gorm:"index"`
	Symbol    string `gorm:"index"`
	Timestamp time.Time `gorm:"index"`
	Payload   string `gorm:"type:jsonb"`
}

func (EventRecord) TableName() string { return "book_events" }
