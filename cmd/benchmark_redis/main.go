package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/joripage/obcore/pkg/eventbus"
	"github.com/redis/go-redis/v9"
)

var ctx = context.Background()

// benchmark_redis measures the depth-cache write path pkg/marketdata.
// Publisher.cacheLatest drives on every BookUpdated event: one SET of
// the latest snapshot plus one PUBLISH to the book's update channel,
// run concurrently the way many symbols' books would issue it.
func main() {
	rdb := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis ping failed: %v", err)
	}

	depth := eventbus.DepthChangedPayload{
		Bids: []eventbus.LevelPayload{{Price: "100.00", Quantity: "10", OrderCount: 1}},
		Asks: []eventbus.LevelPayload{{Price: "100.50", Quantity: "5", OrderCount: 1}},
	}
	body, err := json.Marshal(depth)
	if err != nil {
		log.Fatalf("marshal depth: %v", err)
	}

	const (
		totalOps        = 10_000
		workers         = 10
		opsPerGoroutine = totalOps / workers
	)

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func(workerID int) {
			defer wg.Done()
			for i := 0; i < opsPerGoroutine; i++ {
				symbol := fmt.Sprintf("SYM-%d", workerID)
				depthKey := fmt.Sprintf("book:%s:depth", symbol)
				updatesChan := fmt.Sprintf("book:%s:updates", symbol)

				pipe := rdb.TxPipeline()
				pipe.Set(ctx, depthKey, body, 0)
				pipe.Publish(ctx, updatesChan, body)
				if _, err := pipe.Exec(ctx); err != nil {
					log.Printf("worker %d op %d failed: %v", workerID, i, err)
				}
			}
		}(w)
	}

	wg.Wait()
	duration := time.Since(start)
	fmt.Printf("executed %d depth cache writes in %s (%.2f ops/sec)\n",
		totalOps, duration, float64(totalOps)/duration.Seconds())
}
