package eventlog

import (
	"context"

	"github.com/joripage/obcore/pkg/eventbus"
	"github.com/joripage/obcore/pkg/orderbook"
	"gorm.io/gorm"
)

// Store is the durable sink a Consumer (or a direct EventBus
// subscriber) writes to. Adapted from the teacher's repo.IOrderEvent
// interface, widened to cover both trades and generic lifecycle events.
type Store interface {
	SaveTrade(ctx context.Context, symbol string, t *orderbook.Trade) error
	SaveTrades(ctx context.Context, symbol string, trades []*orderbook.Trade) error
	SaveEvent(ctx context.Context, e eventbus.Event) error
}

// GormStore is the production Store, backed by the same gorm.DB/
// dbresolver setup the teacher's pkg/infra/postgres wires up (read
// replicas included).
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) SaveTrade(ctx context.Context, symbol string, t *orderbook.Trade) error {
	return s.db.WithContext(ctx).Create(toTradeRecord(symbol, t)).Error
}

func (s *GormStore) SaveTrades(ctx context.Context, symbol string, trades []*orderbook.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	records := make([]*TradeRecord, len(trades))
	for i, t := range trades {
		records[i] = toTradeRecord(symbol, t)
	}
	return s.db.WithContext(ctx).Create(records).Error
}

func (s *GormStore) SaveEvent(ctx context.Context, e eventbus.Event) error {
	payload, err := marshalPayload(e.Payload)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(&EventRecord{
		EventType: string(e.Type),
		Symbol:    e.Symbol,
		Timestamp: e.Timestamp,
		Payload:   payload,
	}).Error
}

func toTradeRecord(symbol string, t *orderbook.Trade) *TradeRecord {
	return &TradeRecord{
		TradeID:      t.TradeID,
		Symbol:       symbol,
		MakerOrderID: t.MakerOrderID,
		TakerOrderID: t.TakerOrderID,
		Price:        t.Price.String(),
		Quantity:     t.Quantity.String(),
		MakerFee:     t.MakerFee.String(),
		TakerFee:     t.TakerFee.String(),
		MakerUserID:  t.MakerUserID,
		TakerUserID:  t.TakerUserID,
		Timestamp:    t.Timestamp,
	}
}
