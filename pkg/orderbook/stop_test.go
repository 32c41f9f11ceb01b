package orderbook

import "testing"

func TestTriggeredBuyAndSell(t *testing.T) {
	buyStop := &Order{Side: Buy, StopPrice: price("10.00")}
	if !triggered(buyStop, price("10.00")) {
		t.Fatalf("buy stop should trigger when reference reaches stop price")
	}
	if triggered(buyStop, price("9.99")) {
		t.Fatalf("buy stop should not trigger below stop price")
	}

	sellStop := &Order{Side: Sell, StopPrice: price("10.00")}
	if !triggered(sellStop, price("10.00")) {
		t.Fatalf("sell stop should trigger when reference falls to stop price")
	}
	if triggered(sellStop, price("10.01")) {
		t.Fatalf("sell stop should not trigger above stop price")
	}
}

func TestStopTableEvaluateOrdering(t *testing.T) {
	st := newStopTable()
	st.park(&Order{ID: "buy-far", Side: Buy, StopPrice: price("11.00"), SubmitSeq: 1})
	st.park(&Order{ID: "buy-near", Side: Buy, StopPrice: price("10.00"), SubmitSeq: 2})
	st.park(&Order{ID: "sell-near", Side: Sell, StopPrice: price("12.00"), SubmitSeq: 3})
	st.park(&Order{ID: "sell-far", Side: Sell, StopPrice: price("11.50"), SubmitSeq: 4})

	// At 11.00 both buy stops (trigger <= 11.00) and both sell stops
	// (trigger >= 11.00) are triggered.
	armed := st.evaluate(price("11.00"))

	var ids []string
	for _, o := range armed {
		ids = append(ids, o.ID)
	}
	want := []string{"buy-near", "buy-far", "sell-near", "sell-far"}
	if len(ids) != len(want) {
		t.Fatalf("expected %d armed orders, got %v", len(want), ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected armed order %d to be %s, got %s (full order: %v)", i, want[i], ids[i], ids)
		}
	}

	if _, ok := st.get("buy-near"); ok {
		t.Fatalf("armed orders must be removed from the stop table")
	}
}

func TestStopTableEvaluateLeavesUntriggeredParked(t *testing.T) {
	st := newStopTable()
	st.park(&Order{ID: "far", Side: Buy, StopPrice: price("12.00")})

	armed := st.evaluate(price("10.00"))
	if len(armed) != 0 {
		t.Fatalf("expected no armed orders, got %+v", armed)
	}
	if _, ok := st.get("far"); !ok {
		t.Fatalf("untriggered stop should remain parked")
	}
}

func TestTrailingStopBuyTrailsDownward(t *testing.T) {
	st := newStopTable()
	o := &Order{ID: "t1", Side: Buy, Type: TrailingStop, StopPrice: price("110.00"), TrailValue: price("5.00")}
	st.park(o)

	st.updateTrailing(o, price("100.00"))
	if !o.StopPrice.Equal(price("105.00")) {
		t.Fatalf("expected stop price to trail down to 105.00, got %s", o.StopPrice)
	}

	// Price rises: trailing buy stop must NOT move back up, since the
	// extreme (low) it trails from only moves in the protective direction.
	st.updateTrailing(o, price("103.00"))
	if !o.StopPrice.Equal(price("105.00")) {
		t.Fatalf("trailing buy stop must not retreat on a price rise, got %s", o.StopPrice)
	}

	// Price falls further: the stop re-tightens.
	st.updateTrailing(o, price("98.00"))
	if !o.StopPrice.Equal(price("103.00")) {
		t.Fatalf("expected stop price to re-tighten to 103.00, got %s", o.StopPrice)
	}
}

func TestTrailingStopSellTrailsUpward(t *testing.T) {
	st := newStopTable()
	o := &Order{ID: "t1", Side: Sell, Type: TrailingStop, StopPrice: price("95.00"), TrailValue: price("5.00")}
	st.park(o)

	st.updateTrailing(o, price("100.00"))
	if !o.StopPrice.Equal(price("95.00")) {
		t.Fatalf("expected stop price to stay at 95.00 for the initial extreme, got %s", o.StopPrice)
	}

	st.updateTrailing(o, price("110.00"))
	if !o.StopPrice.Equal(price("105.00")) {
		t.Fatalf("expected stop price to trail up to 105.00, got %s", o.StopPrice)
	}

	st.updateTrailing(o, price("108.00"))
	if !o.StopPrice.Equal(price("105.00")) {
		t.Fatalf("trailing sell stop must not retreat on a price dip, got %s", o.StopPrice)
	}
}

func TestTrailingStopPercent(t *testing.T) {
	st := newStopTable()
	o := &Order{ID: "t1", Side: Sell, Type: TrailingStop, StopPrice: price("90.00"), TrailValue: price("10"), TrailIsPercent: true}
	st.park(o)

	st.updateTrailing(o, price("100.00"))
	want := price("100.00").Mul(price("0.9"))
	if !o.StopPrice.Equal(want) {
		t.Fatalf("expected percent-based stop price %s, got %s", want, o.StopPrice)
	}
}
