package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/joripage/obcore/pkg/orderbook"
	"github.com/shopspring/decimal"
)

const (
	numOrders = 1_000_000
	minPrice  = 100.0
	maxPrice  = 200.0
	minQty    = 1
	maxQty    = 100
)

func randomSpec(i int) orderbook.OrderSpec {
	side := orderbook.Buy
	if rand.Intn(2) == 0 {
		side = orderbook.Sell
	}
	price := minPrice + rand.Float64()*(maxPrice-minPrice)
	qty := rand.Intn(maxQty-minQty+1) + minQty

	return orderbook.OrderSpec{
		Side:     side,
		Type:     orderbook.Limit,
		Price:    decimal.NewFromFloat(price).Round(2),
		Quantity: decimal.NewFromInt(int64(qty)),
		UserID:   fmt.Sprintf("bench-%d", i%100),
	}
}

func main() {
	cfg := orderbook.DefaultConfig("ABC")
	cfg.CheckExpiryInterval = time.Hour
	ob := orderbook.New(cfg)
	defer ob.Close()

	totalMatched := 0
	totalQty := decimal.Zero

	start := time.Now()
	for i := 0; i < numOrders; i++ {
		result, err := ob.Submit(randomSpec(i))
		if err != nil {
			continue
		}
		for _, t := range result.Trades {
			totalMatched++
			totalQty = totalQty.Add(t.Quantity)
			if totalMatched <= 5 {
				fmt.Printf("match: maker[%s] <=> taker[%s] @ %s qty %s\n",
					t.MakerOrderID, t.TakerOrderID, t.Price, t.Quantity)
			}
		}
	}
	elapsed := time.Since(start)

	fmt.Println("--------")
	fmt.Printf("total orders submitted: %d\n", numOrders)
	fmt.Printf("total trades          : %d\n", totalMatched)
	fmt.Printf("total matched quantity: %s\n", totalQty)
	fmt.Printf("time taken            : %s\n", elapsed)
	fmt.Printf("orders/sec            : %.0f\n", float64(numOrders)/elapsed.Seconds())
}
