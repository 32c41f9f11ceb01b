package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/joripage/obcore/pkg/eventbus"
	"github.com/nats-io/nats.go"
)

// benchmark_nats measures publish throughput of the same TradeExecuted
// event shape pkg/eventlog.Consumer consumes off the ORDERS stream, one
// goroutine per publish to approximate the book's own fan-out rate.
func main() {
	nc, _ := nats.Connect(nats.DefaultURL)
	js, _ := nc.JetStream(nats.PublishAsyncMaxPending(65536))

	_, _ = js.AddStream(&nats.StreamConfig{
		Name:     "ORDERS",
		Subjects: []string{"ORDERS.*"},
	})

	start := time.Now()
	total := 1_000_000
	for i := range total {
		now := time.Now()
		go func(idx int) {
			event := eventbus.Event{
				Type:      eventbus.TradeExecuted,
				Symbol:    "ABC",
				Timestamp: now,
				Payload: eventbus.TradeExecutedPayload{
					TradeID:      "T",
					MakerOrderID: "maker",
					TakerOrderID: "taker",
					Price:        "1000",
					Quantity:     "100",
				},
			}

			data, err := json.Marshal(event)
			if err != nil {
				log.Println("marshal", err)
				return
			}
			ackFuture, err := js.PublishAsync("ORDERS.events", data)
			if err != nil {
				log.Println("publish", err)
				return
			}

			select {
			case ack := <-ackFuture.Ok():
				if idx < 5 {
					log.Printf("ack received for msg %d, seq=%d\n", idx, ack.Sequence)
				}
			case err := <-ackFuture.Err():
				log.Printf("publish failed for msg %d: %v\n", idx, err)
			case <-time.After(5 * time.Second):
				log.Printf("timeout waiting for ack of msg %d\n", idx)
			}
		}(i)
	}

	elapsed := time.Since(start)
	msgsPerSec := float64(total) / elapsed.Seconds()

	log.Printf("sent %d messages in %v", total, elapsed)
	log.Printf("throughput: %.2f messages/sec", msgsPerSec)
}
