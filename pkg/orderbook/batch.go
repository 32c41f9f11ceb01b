package orderbook

// BatchSubmitResult pairs one OrderSpec's outcome with its index in the
// request slice, since a batch may partially fail.
type BatchSubmitResult struct {
	Index  int
	Result SubmitResult
	Err    error
}

// SubmitBatch applies specs one at a time under a single lock
// acquisition, so a caller placing many orders (e.g. a market maker
// refreshing a ladder) pays one lock/unlock pair instead of one per
// order. A failure on one spec does not abort the rest, mirroring
// original_source/manticore_orderbook/market_manager.py's
// batch helpers, which report a per-item result list rather than
// all-or-nothing.
func (ob *OrderBook) SubmitBatch(specs []OrderSpec) []BatchSubmitResult {
	start := ob.cfg.now()
	ob.mu.Lock()
	defer ob.mu.Unlock()
	defer func() { ob.latency.submit.record(timeSince(start, ob.cfg.Now)) }()

	out := make([]BatchSubmitResult, len(specs))
	for i, spec := range specs {
		if ob.poisoned != nil {
			out[i] = BatchSubmitResult{Index: i, Err: ob.poisoned}
			continue
		}
		order, err := ob.buildOrder(spec)
		if err != nil {
			out[i] = BatchSubmitResult{Index: i, Err: err}
			continue
		}
		if order.IsStop() {
			if !ob.stopArmedAtSubmission(order) {
				ob.stops.park(order)
				ob.counters.OrdersAdded++
				out[i] = BatchSubmitResult{Index: i, Result: SubmitResult{OrderID: order.ID}}
				continue
			}
			order.Type = order.triggerOrderType()
		}
		res, err := ob.acceptOrder(order)
		out[i] = BatchSubmitResult{Index: i, Result: res, Err: err}
	}
	return out
}

// BatchCancelResult pairs a requested order id with its cancellation
// outcome.
type BatchCancelResult struct {
	OrderID string
	Err     error
}

// CancelBatch cancels every id under a single lock acquisition.
func (ob *OrderBook) CancelBatch(orderIDs []string) []BatchCancelResult {
	start := ob.cfg.now()
	ob.mu.Lock()
	defer ob.mu.Unlock()
	defer func() { ob.latency.cancel.record(timeSince(start, ob.cfg.Now)) }()

	out := make([]BatchCancelResult, len(orderIDs))
	for i, id := range orderIDs {
		var err error
		if ob.poisoned != nil {
			err = ob.poisoned
		} else {
			err = ob.cancelLocked(id)
		}
		out[i] = BatchCancelResult{OrderID: id, Err: err}
	}
	return out
}
