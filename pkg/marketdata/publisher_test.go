package marketdata

import (
	"testing"

	"github.com/joripage/obcore/pkg/eventbus"
)

func TestAttachWithNilSinksIsNoOp(t *testing.T) {
	bus := eventbus.New(10, nil)
	pub := NewPublisher(nil, nil, "market.events", nil)
	pub.Attach(bus, "ABC")

	// Neither Kafka nor Redis is configured: publishing must not panic
	// or block, it should simply drop the fan-out.
	bus.Publish(eventbus.Event{Type: eventbus.BookUpdated, Symbol: "ABC"})
	bus.Publish(eventbus.Event{Type: eventbus.TradeExecuted, Symbol: "ABC"})
}
