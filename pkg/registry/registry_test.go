package registry

import (
	"testing"

	"github.com/joripage/obcore/pkg/orderbook"
	"github.com/shopspring/decimal"
)

func testRegistry() *MarketRegistry {
	return New(func(symbol string) orderbook.Config {
		cfg := orderbook.DefaultConfig(symbol)
		cfg.CheckExpiryInterval = 0
		return cfg
	})
}

func TestGetOrCreateCreatesOnFirstUse(t *testing.T) {
	r := testRegistry()
	defer r.CloseAll()

	ob := r.GetOrCreate("ABC")
	if ob.Symbol() != "ABC" {
		t.Fatalf("expected book for ABC, got %s", ob.Symbol())
	}
	if again := r.GetOrCreate("ABC"); again != ob {
		t.Fatalf("expected GetOrCreate to return the same instance on a second call")
	}
}

func TestCreateRejectsDuplicateSymbol(t *testing.T) {
	r := testRegistry()
	defer r.CloseAll()

	if _, err := r.Create("ABC"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := r.Create("ABC"); err == nil {
		t.Fatalf("expected an error creating a symbol that already exists")
	}
}

func TestSubmitRoutesToCorrectSymbolIsolated(t *testing.T) {
	r := testRegistry()
	defer r.CloseAll()

	if _, err := r.Submit("ABC", orderbook.OrderSpec{Side: orderbook.Buy, Type: orderbook.Limit,
		Price: decimal.NewFromInt(10), Quantity: decimal.NewFromInt(1)}); err != nil {
		t.Fatalf("submit ABC: %v", err)
	}
	if _, err := r.Submit("XYZ", orderbook.OrderSpec{Side: orderbook.Buy, Type: orderbook.Limit,
		Price: decimal.NewFromInt(20), Quantity: decimal.NewFromInt(1)}); err != nil {
		t.Fatalf("submit XYZ: %v", err)
	}

	abcSnap, err := r.Snapshot("ABC", 0)
	if err != nil {
		t.Fatalf("snapshot ABC: %v", err)
	}
	if !abcSnap.BestBid.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected ABC's book to be isolated from XYZ's, got best bid %s", abcSnap.BestBid)
	}
}

func TestRemoveDropsBook(t *testing.T) {
	r := testRegistry()
	defer r.CloseAll()

	r.GetOrCreate("ABC")
	if !r.Remove("ABC") {
		t.Fatalf("expected Remove to report success for an existing symbol")
	}
	if r.Remove("ABC") {
		t.Fatalf("expected Remove to report failure for an already-removed symbol")
	}
	if _, ok := r.Get("ABC"); ok {
		t.Fatalf("expected ABC to be gone from the registry")
	}
}

func TestCancelUnknownOrderReturnsError(t *testing.T) {
	r := testRegistry()
	defer r.CloseAll()

	if err := r.Cancel("order1"); err == nil {
		t.Fatalf("expected an error cancelling an order the registry has never seen")
	}
}

func TestCancelResolvesSymbolFromGlobalIndex(t *testing.T) {
	r := testRegistry()
	defer r.CloseAll()

	result, err := r.Submit("ABC", orderbook.OrderSpec{Side: orderbook.Buy, Type: orderbook.Limit,
		Price: decimal.NewFromInt(10), Quantity: decimal.NewFromInt(1)})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := r.Cancel(result.OrderID); err != nil {
		t.Fatalf("expected Cancel to resolve ABC without being told the symbol, got: %v", err)
	}

	snap, err := r.Snapshot("ABC", 0)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.HasBid {
		t.Fatalf("expected the order to be gone after cancel")
	}
}

func TestModifyResolvesSymbolFromGlobalIndex(t *testing.T) {
	r := testRegistry()
	defer r.CloseAll()

	result, err := r.Submit("ABC", orderbook.OrderSpec{Side: orderbook.Buy, Type: orderbook.Limit,
		Price: decimal.NewFromInt(10), Quantity: decimal.NewFromInt(1)})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	newQty := decimal.NewFromInt(2)
	if _, err := r.Modify(result.OrderID, orderbook.ModifyPatch{NewQuantity: &newQty}); err != nil {
		t.Fatalf("expected Modify to resolve ABC without being told the symbol, got: %v", err)
	}
}

func TestUserOrdersTracksAcrossSymbolsAndClearsOnTerminalEvents(t *testing.T) {
	r := testRegistry()
	defer r.CloseAll()

	abc, err := r.Submit("ABC", orderbook.OrderSpec{UserID: "alice", Side: orderbook.Buy, Type: orderbook.Limit,
		Price: decimal.NewFromInt(10), Quantity: decimal.NewFromInt(1)})
	if err != nil {
		t.Fatalf("submit ABC: %v", err)
	}
	xyz, err := r.Submit("XYZ", orderbook.OrderSpec{UserID: "alice", Side: orderbook.Buy, Type: orderbook.Limit,
		Price: decimal.NewFromInt(20), Quantity: decimal.NewFromInt(1)})
	if err != nil {
		t.Fatalf("submit XYZ: %v", err)
	}

	orders := r.UserOrders("alice")
	if len(orders) != 2 {
		t.Fatalf("expected 2 live orders for alice across both books, got %d", len(orders))
	}

	if err := r.Cancel(abc.OrderID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	orders = r.UserOrders("alice")
	if len(orders) != 1 || orders[0].OrderID != xyz.OrderID {
		t.Fatalf("expected only XYZ's order left for alice, got %+v", orders)
	}

	if err := r.Cancel(xyz.OrderID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if orders := r.UserOrders("alice"); len(orders) != 0 {
		t.Fatalf("expected alice to have no live orders left, got %+v", orders)
	}
}

func TestStatsAggregatesAcrossBooks(t *testing.T) {
	r := testRegistry()
	defer r.CloseAll()

	if _, err := r.Submit("ABC", orderbook.OrderSpec{Side: orderbook.Buy, Type: orderbook.Limit,
		Price: decimal.NewFromInt(10), Quantity: decimal.NewFromInt(1)}); err != nil {
		t.Fatalf("submit ABC: %v", err)
	}
	if _, err := r.Submit("XYZ", orderbook.OrderSpec{Side: orderbook.Buy, Type: orderbook.Limit,
		Price: decimal.NewFromInt(20), Quantity: decimal.NewFromInt(1)}); err != nil {
		t.Fatalf("submit XYZ: %v", err)
	}

	stats := r.Stats()
	if stats.TotalMarkets != 2 {
		t.Fatalf("expected 2 markets, got %d", stats.TotalMarkets)
	}
	if stats.OrdersAdded != 2 {
		t.Fatalf("expected OrdersAdded to sum across both books, got %d", stats.OrdersAdded)
	}
	if len(stats.Markets) != 2 {
		t.Fatalf("expected per-market breakdown for both symbols, got %+v", stats.Markets)
	}
}

func TestListReturnsAllRegisteredSymbols(t *testing.T) {
	r := testRegistry()
	defer r.CloseAll()

	r.GetOrCreate("ABC")
	r.GetOrCreate("XYZ")

	symbols := r.List()
	if len(symbols) != 2 {
		t.Fatalf("expected 2 symbols, got %v", symbols)
	}
}
