package orderbook

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Config configures one OrderBook instance (§6 "Configuration options").
type Config struct {
	Symbol string

	PricePrecision    int32 // decimal places
	QuantityPrecision int32

	MakerFeeRate decimal.Decimal
	TakerFeeRate decimal.Decimal

	// EnablePriceImprovement is carried as a toggle for future order
	// types per spec.md §6; it does not affect the cross-check or fill
	// price, since makers always set the fill price already.
	EnablePriceImprovement bool

	CheckExpiryInterval time.Duration
	MaxTradeHistory     int
	MaxEventHistory     int

	// StopTriggerMode selects the reference price the stop table arms
	// against (default: last trade price, per spec.md §9 Open Question).
	StopTriggerMode StopTriggerMode

	// SessionEndTime, if set, backstops Day time-in-force orders left
	// resting past the configured session boundary; the expiry sweeper
	// treats Day orders as if ExpiryTime were SessionEndTime.
	SessionEndTime time.Time

	Logger *zap.Logger

	// Now overrides time.Now, for deterministic tests.
	Now func() time.Time
}

// DefaultConfig returns sane defaults matching the book this was
// adapted from (original_source/manticore_orderbook OrderBook.__init__).
func DefaultConfig(symbol string) Config {
	return Config{
		Symbol:              symbol,
		PricePrecision:      2,
		QuantityPrecision:   8,
		MakerFeeRate:        decimal.Zero,
		TakerFeeRate:        decimal.Zero,
		CheckExpiryInterval: time.Second,
		MaxTradeHistory:     10000,
		MaxEventHistory:     1000,
		StopTriggerMode:     TriggerLastTrade,
		Logger:              zap.NewNop(),
		Now:                 time.Now,
	}
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c Config) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}
