package eventbus

import (
	"testing"
)

func TestSubscribeReceivesOnlyItsType(t *testing.T) {
	b := New(10, nil)

	var tradeCount, addedCount int
	b.Subscribe(TradeExecuted, func(e Event) { tradeCount++ })
	b.Subscribe(OrderAdded, func(e Event) { addedCount++ })

	b.Publish(Event{Type: TradeExecuted, Symbol: "ABC"})
	b.Publish(Event{Type: OrderAdded, Symbol: "ABC"})

	if tradeCount != 1 || addedCount != 1 {
		t.Fatalf("expected each handler to fire once for its own type, got trade=%d added=%d", tradeCount, addedCount)
	}
}

func TestSubscribeAllReceivesEveryType(t *testing.T) {
	b := New(10, nil)

	var all int
	b.SubscribeAll(func(e Event) { all++ })

	b.Publish(Event{Type: TradeExecuted})
	b.Publish(Event{Type: OrderCancelled})

	if all != 2 {
		t.Fatalf("expected subscribe-all handler to see both events, got %d", all)
	}
}

func TestHandlerPanicIsRecoveredAndSiblingsStillRun(t *testing.T) {
	b := New(10, nil)

	ran := false
	b.Subscribe(TradeExecuted, func(e Event) { panic("boom") })
	b.Subscribe(TradeExecuted, func(e Event) { ran = true })

	b.Publish(Event{Type: TradeExecuted})

	if !ran {
		t.Fatalf("expected sibling handler to still run after a panicking handler")
	}
}

func TestHistoryBoundedAndChronological(t *testing.T) {
	b := New(2, nil)

	b.Publish(Event{Type: OrderAdded, Symbol: "1"})
	b.Publish(Event{Type: OrderAdded, Symbol: "2"})
	b.Publish(Event{Type: OrderAdded, Symbol: "3"})

	hist := b.History(0, nil, nil)
	if len(hist) != 2 {
		t.Fatalf("expected history bounded to 2, got %d", len(hist))
	}
	if hist[0].Symbol != "2" || hist[1].Symbol != "3" {
		t.Fatalf("expected oldest-evicted chronological order [2,3], got %+v", hist)
	}
}

func TestHistoryFiltersByTypeAndSymbol(t *testing.T) {
	b := New(10, nil)

	b.Publish(Event{Type: TradeExecuted, Symbol: "ABC"})
	b.Publish(Event{Type: TradeExecuted, Symbol: "XYZ"})
	b.Publish(Event{Type: OrderAdded, Symbol: "ABC"})

	trade := TradeExecuted
	symbol := "ABC"
	hist := b.History(0, &trade, &symbol)
	if len(hist) != 1 {
		t.Fatalf("expected exactly one matching event, got %d", len(hist))
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New(10, nil)

	count := 0
	tok := b.SubscribeTok(TradeExecuted, func(e Event) { count++ })
	b.Publish(Event{Type: TradeExecuted})
	b.Unsubscribe(tok)
	b.Publish(Event{Type: TradeExecuted})

	if count != 1 {
		t.Fatalf("expected handler to stop receiving events after Unsubscribe, got %d deliveries", count)
	}
}

func TestDisabledHistoryWhenCapacityZero(t *testing.T) {
	b := New(0, nil)
	b.Publish(Event{Type: TradeExecuted})
	if hist := b.History(0, nil, nil); len(hist) != 0 {
		t.Fatalf("expected no history retained when maxHistory is 0, got %d", len(hist))
	}
}
