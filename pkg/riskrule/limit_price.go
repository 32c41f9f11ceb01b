package riskrule

import (
	"fmt"

	"github.com/joripage/obcore/pkg/orderbook"
	"github.com/shopspring/decimal"
)

// PriceBand tracks a per-symbol [floor, ceil] band, adapted from the
// teacher's limitPrice/LimitPriceRule (pkg/oms/risk_rule/limit_price.go).
type PriceBand struct {
	Ceil  decimal.Decimal
	Floor decimal.Decimal
}

// LimitPriceRule rejects orders priced outside a fixed band. One
// OrderBook gets one rule instance, mirroring the one-book-per-symbol
// layout MarketRegistry maintains. Market orders (Type Market) are
// exempt, since they carry no limit price to validate.
type LimitPriceRule struct {
	band PriceBand
}

func NewLimitPriceRule(band PriceBand) *LimitPriceRule {
	return &LimitPriceRule{band: band}
}

func (r *LimitPriceRule) Check(spec orderbook.OrderSpec) error {
	if spec.Type == orderbook.Market {
		return nil
	}
	if spec.Price.GreaterThan(r.band.Ceil) || spec.Price.LessThan(r.band.Floor) {
		return fmt.Errorf("price %s outside limit band [%s, %s]", spec.Price, r.band.Floor, r.band.Ceil)
	}
	return nil
}
