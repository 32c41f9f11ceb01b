package riskrule

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joripage/obcore/pkg/orderbook"
	"github.com/shopspring/decimal"
)

func writeTickFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ticks.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write tick file: %v", err)
	}
	return path
}

func TestTickSizeRuleRejectsOffStepPrice(t *testing.T) {
	path := writeTickFile(t, `[{"maxPrice":"100","step":"0.01"},{"maxPrice":"0","step":"0.10"}]`)
	rule, err := NewTickSizeRuleFromFile(path)
	if err != nil {
		t.Fatalf("load tick size rule: %v", err)
	}

	if err := rule.Check(orderbook.OrderSpec{Type: orderbook.Limit, Price: decimal.RequireFromString("50.015")}); err == nil {
		t.Fatalf("expected price off the 0.01 step to be rejected")
	}
	if err := rule.Check(orderbook.OrderSpec{Type: orderbook.Limit, Price: decimal.RequireFromString("50.01")}); err != nil {
		t.Fatalf("expected on-step price to pass, got %v", err)
	}
}

func TestTickSizeRuleSelectsBandByMaxPrice(t *testing.T) {
	path := writeTickFile(t, `[{"maxPrice":"100","step":"0.01"},{"maxPrice":"0","step":"1"}]`)
	rule, err := NewTickSizeRuleFromFile(path)
	if err != nil {
		t.Fatalf("load tick size rule: %v", err)
	}

	// Above the first band's maxPrice, falls through to the unbounded
	// band whose step is 1.
	if err := rule.Check(orderbook.OrderSpec{Type: orderbook.Limit, Price: decimal.RequireFromString("150.50")}); err == nil {
		t.Fatalf("expected 150.50 to violate the unbounded band's step of 1")
	}
	if err := rule.Check(orderbook.OrderSpec{Type: orderbook.Limit, Price: decimal.RequireFromString("150")}); err != nil {
		t.Fatalf("expected 150 to satisfy the unbounded band's step of 1, got %v", err)
	}
}

func TestTickSizeRuleExemptsMarketOrders(t *testing.T) {
	path := writeTickFile(t, `[{"maxPrice":"0","step":"1"}]`)
	rule, err := NewTickSizeRuleFromFile(path)
	if err != nil {
		t.Fatalf("load tick size rule: %v", err)
	}
	if err := rule.Check(orderbook.OrderSpec{Type: orderbook.Market, Price: decimal.RequireFromString("150.37")}); err != nil {
		t.Fatalf("expected market order to be exempt from tick size, got %v", err)
	}
}

func TestNewTickSizeRuleFromFileRejectsMissingFile(t *testing.T) {
	if _, err := NewTickSizeRuleFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected an error for a missing tick size file")
	}
}
