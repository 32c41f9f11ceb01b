// Package marketdata fans an OrderBook's EventBus out to external
// consumers: trades and book updates onto Kafka for downstream
// analytics/market-data feeds, and the latest snapshot into Redis so a
// stateless API layer can serve depth without talking to the book
// process directly. Adapted from the teacher's pkg/kafka_wrapper
// Producer (unchanged, reused directly) and pkg/infra/redis client,
// generalized from the teacher's OMS event publishing to this module's
// eventbus.Event stream.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/joripage/obcore/pkg/eventbus"
	kafkawrapper "github.com/joripage/obcore/pkg/kafka_wrapper"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher bridges one OrderBook's EventBus to Kafka (durable feed)
// and Redis (latest-value cache + pubsub for live subscribers).
type Publisher struct {
	producer *kafkawrapper.Producer
	redis    *redis.Client
	topic    string
	log      *zap.Logger
}

func NewPublisher(producer *kafkawrapper.Producer, redisClient *redis.Client, topic string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{producer: producer, redis: redisClient, topic: topic, log: log}
}

// Attach subscribes to every event type the book publishes and fans
// each one out. Handlers run on the book's own goroutine (synchronously
// under its lock), so publishing here must never block on a slow
// network call for long — both sinks are fire-and-forget with a short
// per-call timeout.
func (p *Publisher) Attach(bus *eventbus.Bus, symbol string) {
	bus.SubscribeAll(func(e eventbus.Event) {
		p.publishKafka(e, symbol)
		if e.Type == eventbus.BookUpdated || e.Type == eventbus.SnapshotCreated {
			p.cacheLatest(e, symbol)
		}
	})
}

func (p *Publisher) publishKafka(e eventbus.Event, symbol string) {
	if p.producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.producer.PublishJSON(ctx, p.topic, symbol, e, map[string]string{"event_type": string(e.Type)}); err != nil {
		p.log.Warn("kafka publish failed", zap.String("event_type", string(e.Type)), zap.Error(err))
	}
}

func (p *Publisher) cacheLatest(e eventbus.Event, symbol string) {
	if p.redis == nil {
		return
	}
	body, err := json.Marshal(e.Payload)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	key := fmt.Sprintf("book:%s:depth", symbol)
	if err := p.redis.Set(ctx, key, body, 0).Err(); err != nil {
		p.log.Warn("redis cache failed", zap.String("key", key), zap.Error(err))
		return
	}
	p.redis.Publish(ctx, fmt.Sprintf("book:%s:updates", symbol), body)
}
