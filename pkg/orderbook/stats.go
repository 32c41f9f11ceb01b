package orderbook

import "github.com/shopspring/decimal"

// counters tallies lifetime operation counts and traded volume, mirroring
// original_source/manticore_orderbook/orderbook.py's `_stats` dict.
type counters struct {
	OrdersAdded       int64
	OrdersModified    int64
	OrdersCancelled   int64
	OrdersExpired     int64
	OrdersRejected    int64
	TradesExecuted    int64
	TotalVolumeTraded decimal.Decimal
}

// Statistics is the §6 `statistics()` response.
type Statistics struct {
	Symbol string

	OrdersAdded     int64
	OrdersModified  int64
	OrdersCancelled int64
	OrdersExpired   int64
	OrdersRejected  int64
	TradesExecuted  int64
	VolumeTraded    decimal.Decimal

	BestBid   decimal.Decimal
	HasBid    bool
	BestAsk   decimal.Decimal
	HasAsk    bool
	Spread    decimal.Decimal
	HasSpread bool
	MidPrice  decimal.Decimal

	Latencies map[string]LatencyStats
}
