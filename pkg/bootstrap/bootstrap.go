// Package bootstrap wires an AppConfig into a running service: one
// orderbook per configured symbol and the risk rules guarding each; the
// FIX/NATS/Kafka/Redis integrations are wired by cmd/engine. Adapted
// from the teacher's cmd/oms/main.go wiring order (db -> repo -> fix
// gateway -> oms), retargeted from the teacher's single global OMS
// instance onto a MarketRegistry plus one Config closure per symbol.
package bootstrap

import (
	"fmt"
	"time"

	"github.com/joripage/obcore/config"
	"github.com/joripage/obcore/pkg/orderbook"
	"github.com/joripage/obcore/pkg/registry"
	"github.com/joripage/obcore/pkg/riskrule"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Services holds everything bootstrap.Build assembles, ready for a
// cmd/ entry point to start the pieces it needs.
type Services struct {
	Registry *registry.MarketRegistry
	Rules    map[string]*riskrule.Chain
}

// Build constructs a MarketRegistry whose per-symbol Config comes from
// cfg.Symbols, and a risk rule chain per symbol from its price band and
// tick size table. Every configured symbol's book is created eagerly so
// a gateway can start routing to it immediately.
func Build(cfg *config.AppConfig, log *zap.Logger) (*Services, error) {
	if log == nil {
		log = zap.NewNop()
	}

	bySymbol := make(map[string]config.SymbolConfig, len(cfg.Symbols))
	for _, s := range cfg.Symbols {
		bySymbol[s.Symbol] = s
	}

	reg := registry.New(func(symbol string) orderbook.Config {
		sc, ok := bySymbol[symbol]
		if !ok {
			return orderbook.DefaultConfig(symbol)
		}
		return symbolConfigToOrderbookConfig(sc, log)
	})

	rules := make(map[string]*riskrule.Chain, len(cfg.Symbols))
	for _, sc := range cfg.Symbols {
		reg.GetOrCreate(sc.Symbol)

		chain, err := riskChainFor(sc)
		if err != nil {
			return nil, fmt.Errorf("risk rules for %s: %w", sc.Symbol, err)
		}
		if chain != nil {
			rules[sc.Symbol] = chain
		}
	}

	return &Services{Registry: reg, Rules: rules}, nil
}

func symbolConfigToOrderbookConfig(sc config.SymbolConfig, log *zap.Logger) orderbook.Config {
	oc := orderbook.DefaultConfig(sc.Symbol)
	oc.Logger = log.With(zap.String("symbol", sc.Symbol))

	if sc.PricePrecision > 0 {
		oc.PricePrecision = sc.PricePrecision
	}
	if sc.QuantityPrecision > 0 {
		oc.QuantityPrecision = sc.QuantityPrecision
	}
	if sc.CheckExpiryIntervalSeconds > 0 {
		oc.CheckExpiryInterval = sc.CheckExpiryInterval()
	}
	if sc.MaxTradeHistory > 0 {
		oc.MaxTradeHistory = sc.MaxTradeHistory
	}
	if sc.MaxEventHistory > 0 {
		oc.MaxEventHistory = sc.MaxEventHistory
	}
	switch orderbook.StopTriggerMode(sc.StopTriggerMode) {
	case orderbook.TriggerLastTrade, orderbook.TriggerBestBid, orderbook.TriggerBestAsk:
		oc.StopTriggerMode = orderbook.StopTriggerMode(sc.StopTriggerMode)
	}
	return oc
}

func riskChainFor(sc config.SymbolConfig) (*riskrule.Chain, error) {
	var rules []riskrule.Rule

	if sc.PriceCeiling != "" || sc.PriceFloor != "" {
		ceil, floor := decimal.Zero, decimal.Zero
		var err error
		if sc.PriceCeiling != "" {
			if ceil, err = decimal.NewFromString(sc.PriceCeiling); err != nil {
				return nil, fmt.Errorf("price_ceiling: %w", err)
			}
		}
		if sc.PriceFloor != "" {
			if floor, err = decimal.NewFromString(sc.PriceFloor); err != nil {
				return nil, fmt.Errorf("price_floor: %w", err)
			}
		}
		rules = append(rules, riskrule.NewLimitPriceRule(riskrule.PriceBand{Ceil: ceil, Floor: floor}))
	}

	if sc.TickSizeFile != "" {
		r, err := riskrule.NewTickSizeRuleFromFile(sc.TickSizeFile)
		if err != nil {
			return nil, fmt.Errorf("tick_size_file: %w", err)
		}
		rules = append(rules, r)
	}

	if len(rules) == 0 {
		return nil, nil
	}
	return riskrule.NewChain(rules...), nil
}

// SessionEndAt returns the next occurrence of hour:minute in loc, used
// to set Day time-in-force session boundaries from config.
func SessionEndAt(hour, minute int, loc *time.Location) time.Time {
	now := time.Now().In(loc)
	end := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc)
	if end.Before(now) {
		end = end.Add(24 * time.Hour)
	}
	return end
}
