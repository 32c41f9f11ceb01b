// Package riskrule implements the pre-trade checks a gateway runs
// before handing an order to an OrderBook, adapted from the teacher's
// pkg/oms/risk_rule package (Check(order) error over a flat rule list)
// but retargeted at orderbook.OrderSpec/decimal.Decimal instead of the
// teacher's int64-tick/float64-price FIX order model.
package riskrule

import "github.com/joripage/obcore/pkg/orderbook"

// Rule validates one order spec before it reaches OrderBook.Submit,
// returning a descriptive error if the order should be rejected.
type Rule interface {
	Check(spec orderbook.OrderSpec) error
}

// Chain runs every rule in order, stopping at the first rejection.
type Chain struct {
	rules []Rule
}

func NewChain(rules ...Rule) *Chain {
	return &Chain{rules: rules}
}

func (c *Chain) Check(spec orderbook.OrderSpec) error {
	for _, r := range c.rules {
		if err := r.Check(spec); err != nil {
			return err
		}
	}
	return nil
}
