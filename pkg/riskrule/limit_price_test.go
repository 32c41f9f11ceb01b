package riskrule

import (
	"testing"

	"github.com/joripage/obcore/pkg/orderbook"
	"github.com/shopspring/decimal"
)

func TestLimitPriceRuleRejectsOutsideBand(t *testing.T) {
	rule := NewLimitPriceRule(PriceBand{Floor: decimal.NewFromInt(90), Ceil: decimal.NewFromInt(110)})

	if err := rule.Check(orderbook.OrderSpec{Type: orderbook.Limit, Price: decimal.NewFromInt(111)}); err == nil {
		t.Fatalf("expected price above ceiling to be rejected")
	}
	if err := rule.Check(orderbook.OrderSpec{Type: orderbook.Limit, Price: decimal.NewFromInt(89)}); err == nil {
		t.Fatalf("expected price below floor to be rejected")
	}
	if err := rule.Check(orderbook.OrderSpec{Type: orderbook.Limit, Price: decimal.NewFromInt(100)}); err != nil {
		t.Fatalf("expected price within band to pass, got %v", err)
	}
}

func TestLimitPriceRuleExemptsMarketOrders(t *testing.T) {
	rule := NewLimitPriceRule(PriceBand{Floor: decimal.NewFromInt(90), Ceil: decimal.NewFromInt(110)})
	if err := rule.Check(orderbook.OrderSpec{Type: orderbook.Market, Price: decimal.NewFromInt(99999)}); err != nil {
		t.Fatalf("expected market order to be exempt from the price band, got %v", err)
	}
}

func TestChainPropagatesRejection(t *testing.T) {
	rejecting := NewLimitPriceRule(PriceBand{Floor: decimal.NewFromInt(0), Ceil: decimal.NewFromInt(1)})
	chain := NewChain(rejecting)

	if err := chain.Check(orderbook.OrderSpec{Type: orderbook.Limit, Price: decimal.NewFromInt(100)}); err == nil {
		t.Fatalf("expected chain to propagate the rule's rejection")
	}
}
