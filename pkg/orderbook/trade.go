package orderbook

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is the record of one maker/taker fill. Price is always the
// maker's resting price (§4.2 price improvement).
type Trade struct {
	TradeID      string
	MakerOrderID string
	TakerOrderID string
	Price        decimal.Decimal
	Quantity     decimal.Decimal
	Timestamp    time.Time

	MakerFee     decimal.Decimal
	TakerFee     decimal.Decimal
	MakerFeeRate decimal.Decimal
	TakerFeeRate decimal.Decimal

	MakerUserID string
	TakerUserID string
}

// newTrade computes maker_fee = quantity*price*maker_fee_rate and the
// taker equivalent. Callers needing an explicit fee (e.g. replaying a
// recorded trade) should set Trade.MakerFee/TakerFee directly afterwards.
func newTrade(tradeID, makerOrderID, takerOrderID string, price, quantity decimal.Decimal,
	makerFeeRate, takerFeeRate decimal.Decimal, makerUserID, takerUserID string, ts time.Time) *Trade {
	value := price.Mul(quantity)
	return &Trade{
		TradeID:      tradeID,
		MakerOrderID: makerOrderID,
		TakerOrderID: takerOrderID,
		Price:        price,
		Quantity:     quantity,
		Timestamp:    ts,
		MakerFee:     value.Mul(makerFeeRate),
		TakerFee:     value.Mul(takerFeeRate),
		MakerFeeRate: makerFeeRate,
		TakerFeeRate: takerFeeRate,
		MakerUserID:  makerUserID,
		TakerUserID:  takerUserID,
	}
}
