package riskrule

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joripage/obcore/pkg/orderbook"
	"github.com/shopspring/decimal"
)

// tickStep is one (maxPrice, step) band loaded from a tick-size table;
// a price at or below maxPrice must land on a step multiple. maxPrice
// 0 means "no upper bound", matching the teacher's convention.
type tickStep struct {
	MaxPrice decimal.Decimal `json:"maxPrice"`
	Step     decimal.Decimal `json:"step"`
}

// TickSizeRule rejects orders whose price does not land on an exchange
// tick boundary, adapted from the teacher's
// pkg/oms/risk_rule/tick_size.go (same table shape, now over
// decimal.Decimal so it composes with the book's own precision
// validation instead of truncating through int64/float64).
type TickSizeRule struct {
	steps []tickStep
}

// NewTickSizeRuleFromFile loads a JSON array of {maxPrice, step} bands,
// ordered ascending by maxPrice, for one symbol.
func NewTickSizeRuleFromFile(path string) (*TickSizeRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []struct {
		MaxPrice string `json:"maxPrice"`
		Step     string `json:"step"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	steps := make([]tickStep, 0, len(raw))
	for _, r := range raw {
		maxPrice, err := decimal.NewFromString(r.MaxPrice)
		if err != nil {
			return nil, fmt.Errorf("invalid maxPrice %q: %w", r.MaxPrice, err)
		}
		step, err := decimal.NewFromString(r.Step)
		if err != nil {
			return nil, fmt.Errorf("invalid step %q: %w", r.Step, err)
		}
		steps = append(steps, tickStep{MaxPrice: maxPrice, Step: step})
	}
	return &TickSizeRule{steps: steps}, nil
}

func (r *TickSizeRule) Check(spec orderbook.OrderSpec) error {
	if spec.Type == orderbook.Market || len(r.steps) == 0 {
		return nil
	}
	for _, s := range r.steps {
		if !s.MaxPrice.IsZero() && spec.Price.GreaterThan(s.MaxPrice) {
			continue
		}
		if !spec.Price.Mod(s.Step).IsZero() {
			return fmt.Errorf("price %s violates tick size %s", spec.Price, s.Step)
		}
		return nil
	}
	return nil
}
