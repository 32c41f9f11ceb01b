package eventlog

import (
	"context"
	"encoding/json"

	"github.com/joripage/obcore/pkg/eventbus"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Consumer drains a durable NATS JetStream pull subscription and writes
// every message into Store, adapted from the teacher's
// pkg/oms/worker.Worker.StartConsumer (same PullSubscribe/Fetch/Ack
// loop), generalized from one hardcoded order-event shape to any
// eventbus.Event.
type Consumer struct {
	store Store
	log   *zap.Logger
}

func NewConsumer(store Store, log *zap.Logger) *Consumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Consumer{store: store, log: log}
}

// Run pulls from subject/durable until ctx is cancelled, fetching in
// small batches so one slow Store write doesn't stall the whole stream.
func (c *Consumer) Run(ctx context.Context, js nats.JetStreamContext, subject, durable string) error {
	sub, err := js.PullSubscribe(subject, durable)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msgs, err := sub.Fetch(10, nats.MaxWait(0))
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Warn("jetstream fetch error", zap.Error(err))
			continue
		}

		for _, msg := range msgs {
			var e eventbus.Event
			if err := json.Unmarshal(msg.Data, &e); err != nil {
				c.log.Warn("discarding malformed event", zap.Error(err))
				_ = msg.Ack()
				continue
			}
			if err := c.store.SaveEvent(ctx, e); err != nil {
				c.log.Warn("save event failed, leaving unacked for redelivery", zap.Error(err))
				continue
			}
			_ = msg.Ack()
		}
	}
}

// DirectWriter subscribes a Store straight to an in-process EventBus,
// bypassing NATS entirely — the path a single-process deployment uses
// instead of publish-then-consume over JetStream.
func DirectWriter(bus *eventbus.Bus, symbol string, store Store, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	bus.Subscribe(eventbus.TradeExecuted, func(e eventbus.Event) {
		if err := store.SaveEvent(context.Background(), e); err != nil {
			log.Warn("save trade event failed", zap.Error(err))
		}
	})
	bus.SubscribeAll(func(e eventbus.Event) {
		if e.Type == eventbus.TradeExecuted {
			return // already saved by the TradeExecuted subscription above
		}
		if err := store.SaveEvent(context.Background(), e); err != nil {
			log.Warn("save event failed", zap.String("event_type", string(e.Type)), zap.Error(err))
		}
	})
}
