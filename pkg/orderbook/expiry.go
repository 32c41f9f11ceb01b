package orderbook

import (
	"container/heap"
	"context"
	"time"
)

// expiryEntry is one (expiry_time, order_id) pair in the wheel.
type expiryEntry struct {
	at      time.Time
	orderID string
}

// expiryHeap is a min-heap over expiryEntry.at.
type expiryHeap []expiryEntry

func (h expiryHeap) Len() int            { return len(h) }
func (h expiryHeap) Less(i, j int) bool  { return h[i].at.Before(h[j].at) }
func (h expiryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *expiryHeap) Push(x any)         { *h = append(*h, x.(expiryEntry)) }
func (h *expiryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// expiryWheel is the time-ordered structure §4.3 describes: a min-heap
// of (expiry_time, order_id) drained by a single background goroutine
// per book, adapted from the teacher's icebergManager background-ticker
// pattern (pkg/orderbook/iceberg.go startScheduler) generalized from
// periodic per-iceberg slicing to periodic expiry sweeps. An order
// cancelled before its deadline leaves a tombstone here that is
// silently discarded on the next sweep (idempotent per §4.3), the same
// lazy-deletion idea PriceLevel uses for its arrival queue.
type expiryWheel struct {
	h     expiryHeap
	alive map[string]time.Time // order_id -> currently scheduled deadline, for idempotent reschedule/cancel
}

func newExpiryWheel() *expiryWheel {
	return &expiryWheel{alive: make(map[string]time.Time)}
}

func (w *expiryWheel) schedule(orderID string, at time.Time) {
	w.alive[orderID] = at
	heap.Push(&w.h, expiryEntry{at: at, orderID: orderID})
}

// cancel marks orderID as no longer scheduled; its heap entry becomes a
// tombstone, discarded when popped.
func (w *expiryWheel) cancel(orderID string) {
	delete(w.alive, orderID)
}

// drainExpired pops every entry whose deadline is <= now, skipping stale
// tombstones and superseded reschedules (an order may have been
// rescheduled to a later deadline; only the most recent heap entry for
// an id is honored).
func (w *expiryWheel) drainExpired(now time.Time) []string {
	var expired []string
	for w.h.Len() > 0 && !w.h[0].at.After(now) {
		e := heap.Pop(&w.h).(expiryEntry)
		scheduled, ok := w.alive[e.orderID]
		if !ok || !scheduled.Equal(e.at) {
			continue // cancelled or superseded by a later reschedule
		}
		delete(w.alive, e.orderID)
		expired = append(expired, e.orderID)
	}
	return expired
}

// runSweeper starts the single background goroutine that periodically
// calls sweep until ctx is cancelled. interval <= 0 disables the
// sweeper entirely (matches original_source's
// `check_expiry_interval <= 0` guard).
func runSweeper(ctx context.Context, interval time.Duration, sweep func()) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweep()
			}
		}
	}()
}
