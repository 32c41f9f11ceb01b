package eventlog

import (
	"testing"
	"time"

	"github.com/joripage/obcore/pkg/orderbook"
	"github.com/shopspring/decimal"
)

func TestToTradeRecordCopiesDecimalsAsStrings(t *testing.T) {
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	trade := &orderbook.Trade{
		TradeID:      "T1",
		MakerOrderID: "M1",
		TakerOrderID: "K1",
		Price:        decimal.RequireFromString("10.50"),
		Quantity:     decimal.RequireFromString("2"),
		MakerFee:     decimal.RequireFromString("0.01"),
		TakerFee:     decimal.RequireFromString("0.02"),
		MakerUserID:  "u1",
		TakerUserID:  "u2",
		Timestamp:    ts,
	}

	rec := toTradeRecord("ABC", trade)
	if rec.Symbol != "ABC" || rec.TradeID != "T1" {
		t.Fatalf("unexpected record identity fields: %+v", rec)
	}
	if rec.Price != "10.5" || rec.Quantity != "2" {
		t.Fatalf("unexpected decimal string encoding: price=%s quantity=%s", rec.Price, rec.Quantity)
	}
	if !rec.Timestamp.Equal(ts) {
		t.Fatalf("expected timestamp to be carried through unchanged")
	}
}

func TestTableNames(t *testing.T) {
	if got := (TradeRecord{}).TableName(); got != "trades" {
		t.Fatalf("expected trades table name, got %s", got)
	}
	if got := (EventRecord{}).TableName(); got != "book_events" {
		t.Fatalf("expected book_events table name, got %s", got)
	}
}
