package orderbook

import "testing"

func TestPriceLevelPushAndFrontLive(t *testing.T) {
	lvl := newPriceLevel(price("10.00"), Buy)
	a := &Order{ID: "a", Quantity: quantity("5")}
	b := &Order{ID: "b", Quantity: quantity("3")}
	lvl.push(a)
	lvl.push(b)

	front, ok := lvl.frontLive()
	if !ok || front.ID != "a" {
		t.Fatalf("expected a to be the front order, got %+v", front)
	}
	if !lvl.AggregateQuantity().Equal(quantity("8")) {
		t.Fatalf("expected aggregate 8, got %s", lvl.AggregateQuantity())
	}
}

func TestPriceLevelTombstoneSkippedAtFront(t *testing.T) {
	lvl := newPriceLevel(price("10.00"), Buy)
	a := &Order{ID: "a", Quantity: quantity("5")}
	b := &Order{ID: "b", Quantity: quantity("3")}
	lvl.push(a)
	lvl.push(b)

	lvl.cancel("a")
	front, ok := lvl.frontLive()
	if !ok || front.ID != "b" {
		t.Fatalf("expected cancelled order a to be skipped as a tombstone, got %+v", front)
	}
}

func TestPriceLevelFillReducesAggregatesAndEvictsOnFullFill(t *testing.T) {
	lvl := newPriceLevel(price("10.00"), Buy)
	a := &Order{ID: "a", Quantity: quantity("5")}
	lvl.push(a)

	lvl.fill(a, quantity("2"))
	if !lvl.AggregateQuantity().Equal(quantity("3")) {
		t.Fatalf("expected aggregate 3 after partial fill, got %s", lvl.AggregateQuantity())
	}
	if lvl.IsEmpty() {
		t.Fatalf("level should still have a live order after partial fill")
	}

	lvl.fill(a, quantity("3"))
	if !lvl.IsEmpty() {
		t.Fatalf("level should be empty once its only order is fully filled")
	}
}

func TestPriceLevelIcebergDisplayedQuantity(t *testing.T) {
	lvl := newPriceLevel(price("10.00"), Buy)
	iceberg := &Order{ID: "i", Quantity: quantity("10"), OriginalQuantity: quantity("10"), DisplayQuantity: quantity("2")}
	lvl.push(iceberg)

	if !lvl.DisplayedQuantity().Equal(quantity("2")) {
		t.Fatalf("expected displayed quantity capped at DisplayQuantity, got %s", lvl.DisplayedQuantity())
	}
	if !lvl.AggregateQuantity().Equal(quantity("10")) {
		t.Fatalf("expected full aggregate quantity 10, got %s", lvl.AggregateQuantity())
	}

	lvl.fill(iceberg, quantity("9"))
	// Remaining 1 < DisplayQuantity of 2, so displayed contribution
	// collapses to the true remainder.
	if !lvl.DisplayedQuantity().Equal(quantity("1")) {
		t.Fatalf("expected displayed quantity to fall through to true remainder 1, got %s", lvl.DisplayedQuantity())
	}
}

func TestPriceLevelDecreaseQuantityRetainsQueuePosition(t *testing.T) {
	lvl := newPriceLevel(price("10.00"), Buy)
	a := &Order{ID: "a", Quantity: quantity("5")}
	b := &Order{ID: "b", Quantity: quantity("5")}
	lvl.push(a)
	lvl.push(b)

	lvl.decreaseQuantity(a, quantity("2"))

	front, ok := lvl.frontLive()
	if !ok || front.ID != "a" {
		t.Fatalf("decreaseQuantity must not disturb queue order, got %+v", front)
	}
	if !lvl.AggregateQuantity().Equal(quantity("7")) {
		t.Fatalf("expected aggregate 7 after decrease, got %s", lvl.AggregateQuantity())
	}
}
