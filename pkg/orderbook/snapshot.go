package orderbook

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is the §6 `snapshot()` response: a wire-stable, JSON-tagged
// point-in-time view of both sides of the book plus top-level summary
// fields, independent of any internal representation.
type Snapshot struct {
	Symbol    string      `json:"symbol"`
	Timestamp time.Time   `json:"timestamp"`
	Bids      []LevelView `json:"bids"`
	Asks      []LevelView `json:"asks"`

	BestBid decimal.Decimal `json:"best_bid,omitempty"`
	BestAsk decimal.Decimal `json:"best_ask,omitempty"`
	HasBid  bool            `json:"has_bid"`
	HasAsk  bool            `json:"has_ask"`

	LastTradePrice decimal.Decimal `json:"last_trade_price,omitempty"`
	HasLastTrade   bool            `json:"has_last_trade"`
}

// Snapshot produces a consistent view of the book's current depth,
// taking the book lock for the duration of the copy (§6).
func (ob *OrderBook) Snapshot(depth int) Snapshot {
	start := ob.cfg.now()
	ob.mu.Lock()
	defer ob.mu.Unlock()
	defer func() { ob.latency.snapshot.record(timeSince(start, ob.cfg.Now)) }()

	snap := Snapshot{
		Symbol:         ob.cfg.Symbol,
		Timestamp:      ob.cfg.now(),
		Bids:           ob.bids.Depth(depth),
		Asks:           ob.asks.Depth(depth),
		LastTradePrice: ob.lastPrice,
		HasLastTrade:   ob.hasLast,
	}
	if lvl, ok := ob.bids.Best(); ok {
		snap.BestBid = lvl.Price
		snap.HasBid = true
	}
	if lvl, ok := ob.asks.Best(); ok {
		snap.BestAsk = lvl.Price
		snap.HasAsk = true
	}
	return snap
}

// Trades returns up to `limit` most recent trades (0 = all retained),
// newest first.
func (ob *OrderBook) Trades(limit int) []*Trade {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	n := len(ob.trades)
	if n == 0 {
		return nil
	}

	ordered := make([]*Trade, 0, n)
	if !ob.tradeFull {
		ordered = append(ordered, ob.trades...)
	} else {
		ordered = append(ordered, ob.trades[ob.tradePos:]...)
		ordered = append(ordered, ob.trades[:ob.tradePos]...)
	}

	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}

	if limit > 0 && limit < len(ordered) {
		ordered = ordered[:limit]
	}
	return ordered
}

// Statistics reports lifetime counters, current best bid/ask/spread and
// per-operation latency percentiles (§6 `statistics()`).
func (ob *OrderBook) Statistics() Statistics {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	s := Statistics{
		Symbol:          ob.cfg.Symbol,
		OrdersAdded:     ob.counters.OrdersAdded,
		OrdersModified:  ob.counters.OrdersModified,
		OrdersCancelled: ob.counters.OrdersCancelled,
		OrdersExpired:   ob.counters.OrdersExpired,
		OrdersRejected:  ob.counters.OrdersRejected,
		TradesExecuted:  ob.counters.TradesExecuted,
		VolumeTraded:    ob.counters.TotalVolumeTraded,
		Latencies:       ob.latency.snapshotAll(),
	}

	bestBid, hasBid := ob.bids.Best()
	bestAsk, hasAsk := ob.asks.Best()
	if hasBid {
		s.BestBid = bestBid.Price
		s.HasBid = true
	}
	if hasAsk {
		s.BestAsk = bestAsk.Price
		s.HasAsk = true
	}
	if hasBid && hasAsk {
		s.Spread = bestAsk.Price.Sub(bestBid.Price)
		s.HasSpread = true
		s.MidPrice = bestBid.Price.Add(bestAsk.Price).Div(decimal.NewFromInt(2))
	}
	return s
}
