package orderbook

import "testing"

func TestSideBookBestOrderingBidsDescendingAsksAscending(t *testing.T) {
	bids := newSideBook(Buy)
	bids.Insert(&Order{ID: "b1", Price: price("10.00"), Quantity: quantity("1")})
	bids.Insert(&Order{ID: "b2", Price: price("10.50"), Quantity: quantity("1")})
	bids.Insert(&Order{ID: "b3", Price: price("9.50"), Quantity: quantity("1")})

	lvl, ok := bids.Best()
	if !ok || !lvl.Price.Equal(price("10.50")) {
		t.Fatalf("expected best bid 10.50, got %+v", lvl)
	}

	asks := newSideBook(Sell)
	asks.Insert(&Order{ID: "a1", Price: price("10.00"), Quantity: quantity("1")})
	asks.Insert(&Order{ID: "a2", Price: price("9.50"), Quantity: quantity("1")})
	asks.Insert(&Order{ID: "a3", Price: price("10.50"), Quantity: quantity("1")})

	lvl, ok = asks.Best()
	if !ok || !lvl.Price.Equal(price("9.50")) {
		t.Fatalf("expected best ask 9.50, got %+v", lvl)
	}
}

func TestSideBookBestDiscardsEmptiedLevelsLazily(t *testing.T) {
	bids := newSideBook(Buy)
	bids.Insert(&Order{ID: "b1", Price: price("10.50"), Quantity: quantity("1")})
	bids.Insert(&Order{ID: "b2", Price: price("10.00"), Quantity: quantity("1")})

	bids.Remove(price("10.50"), "b1")

	lvl, ok := bids.Best()
	if !ok || !lvl.Price.Equal(price("10.00")) {
		t.Fatalf("expected best bid to fall through to 10.00 after top emptied, got %+v", lvl)
	}
}

func TestSideBookRemoveReportsLevelEmptied(t *testing.T) {
	s := newSideBook(Buy)
	s.Insert(&Order{ID: "a", Price: price("10.00"), Quantity: quantity("1")})
	s.Insert(&Order{ID: "b", Price: price("10.00"), Quantity: quantity("1")})

	_, found, emptied := s.Remove(price("10.00"), "a")
	if !found || emptied {
		t.Fatalf("level should not be emptied while b remains, got found=%v emptied=%v", found, emptied)
	}

	_, found, emptied = s.Remove(price("10.00"), "b")
	if !found || !emptied {
		t.Fatalf("level should be reported emptied once its last order is removed, got found=%v emptied=%v", found, emptied)
	}
}

func TestSideBookDepthOrderingAndLimit(t *testing.T) {
	s := newSideBook(Buy)
	s.Insert(&Order{ID: "a", Price: price("10.00"), Quantity: quantity("1")})
	s.Insert(&Order{ID: "b", Price: price("10.50"), Quantity: quantity("2")})
	s.Insert(&Order{ID: "c", Price: price("9.50"), Quantity: quantity("3")})

	depth := s.Depth(2)
	if len(depth) != 2 {
		t.Fatalf("expected depth limited to 2 levels, got %d", len(depth))
	}
	if !depth[0].Price.Equal(price("10.50")) || !depth[1].Price.Equal(price("10.00")) {
		t.Fatalf("expected levels ordered best-first, got %+v", depth)
	}
}

func TestSideBookIsEmpty(t *testing.T) {
	s := newSideBook(Buy)
	if !s.IsEmpty() {
		t.Fatalf("freshly created side book should be empty")
	}
	s.Insert(&Order{ID: "a", Price: price("10.00"), Quantity: quantity("1")})
	if s.IsEmpty() {
		t.Fatalf("side book with a resting order should not be empty")
	}
}
