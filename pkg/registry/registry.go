// Package registry hosts MarketRegistry, the multi-symbol counterpart
// to a single orderbook.OrderBook: adapted from the teacher's
// pkg/orderbook orderbook_manager.go (a map[symbol]*OrderBook guarded
// by one mutex) and generalized against
// original_source/manticore_orderbook/market_manager.py's operation
// set (create/get/list/remove/place/cancel/modify/user_orders/
// snapshot/sweep_expired/stats/clear_market).
package registry

import (
	"fmt"
	"sync"

	"github.com/joripage/obcore/pkg/eventbus"
	"github.com/joripage/obcore/pkg/orderbook"
	"github.com/shopspring/decimal"
)

// MarketRegistry owns one OrderBook per symbol. Its own mutex only ever
// guards the symbol->book map itself; it is never held while calling
// into an OrderBook, so two symbols' operations never contend with each
// other and a single registry can never deadlock across books (§5).
type MarketRegistry struct {
	mu     sync.RWMutex
	books  map[string]*orderbook.OrderBook
	newCfg func(symbol string) orderbook.Config

	// idxMu guards orderIndex and userOrders. It is distinct from mu
	// because both maps are also written from eventbus handlers, which
	// run synchronously on a book's own goroutine while that book's
	// lock is held (§5) -- mixing that with mu would risk a registry
	// method blocking on a book that is, transitively, waiting on the
	// registry.
	idxMu      sync.RWMutex
	orderIndex map[string]string              // order id -> symbol
	userOrders map[string]map[string]struct{} // user id -> set of order ids
}

// New creates an empty registry. newCfg, if non-nil, derives the
// Config used for a symbol created via Create or GetOrCreate; when nil,
// orderbook.DefaultConfig is used.
func New(newCfg func(symbol string) orderbook.Config) *MarketRegistry {
	return &MarketRegistry{
		books:      make(map[string]*orderbook.OrderBook),
		newCfg:     newCfg,
		orderIndex: make(map[string]string),
		userOrders: make(map[string]map[string]struct{}),
	}
}

func (r *MarketRegistry) configFor(symbol string) orderbook.Config {
	if r.newCfg != nil {
		return r.newCfg(symbol)
	}
	return orderbook.DefaultConfig(symbol)
}

// trackOrders subscribes to symbol's book so the registry's global
// order index and per-user index stay in sync without the caller ever
// having to tell the registry about an order again, mirroring
// market_manager.py's incremental maintenance of `_order_to_market` and
// `_user_orders` on every add/cancel/modify/fill.
func (r *MarketRegistry) trackOrders(symbol string, ob *orderbook.OrderBook) {
	bus := ob.EventBus()

	bus.Subscribe(eventbus.OrderAdded, func(e eventbus.Event) {
		p, ok := e.Payload.(eventbus.OrderLifecyclePayload)
		if !ok {
			return
		}
		r.indexAdd(symbol, p.OrderID, p.UserID)
	})

	bus.Subscribe(eventbus.OrderCancelled, func(e eventbus.Event) {
		p, ok := e.Payload.(eventbus.OrderLifecyclePayload)
		if !ok {
			return
		}
		r.indexRemove(p.OrderID, p.UserID)
	})

	bus.Subscribe(eventbus.OrderExpired, func(e eventbus.Event) {
		p, ok := e.Payload.(eventbus.OrderLifecyclePayload)
		if !ok {
			return
		}
		r.indexRemove(p.OrderID, p.UserID)
	})

	// OrderFilled fires for every partial fill, maker and taker alike,
	// so only drop the order once nothing remains resting.
	bus.Subscribe(eventbus.OrderFilled, func(e eventbus.Event) {
		p, ok := e.Payload.(eventbus.OrderLifecyclePayload)
		if !ok {
			return
		}
		remaining, err := decimal.NewFromString(p.RemainingQuantity)
		if err != nil || remaining.Sign() > 0 {
			return
		}
		r.indexRemove(p.OrderID, p.UserID)
	})
}

func (r *MarketRegistry) indexAdd(symbol, orderID, userID string) {
	r.idxMu.Lock()
	defer r.idxMu.Unlock()
	r.orderIndex[orderID] = symbol
	if userID == "" {
		return
	}
	set, ok := r.userOrders[userID]
	if !ok {
		set = make(map[string]struct{})
		r.userOrders[userID] = set
	}
	set[orderID] = struct{}{}
}

func (r *MarketRegistry) indexRemove(orderID, userID string) {
	r.idxMu.Lock()
	defer r.idxMu.Unlock()
	delete(r.orderIndex, orderID)
	if userID == "" {
		return
	}
	set, ok := r.userOrders[userID]
	if !ok {
		return
	}
	delete(set, orderID)
	if len(set) == 0 {
		delete(r.userOrders, userID)
	}
}

// SymbolForOrder resolves orderID to the symbol of the book it was
// submitted to, via the global index fed by every book's EventBus.
func (r *MarketRegistry) SymbolForOrder(orderID string) (string, bool) {
	r.idxMu.RLock()
	defer r.idxMu.RUnlock()
	symbol, ok := r.orderIndex[orderID]
	return symbol, ok
}

// UserOrder identifies one resting order owned by a user, across
// whichever symbol it rests on.
type UserOrder struct {
	Symbol  string
	OrderID string
}

// UserOrders returns every order currently tracked for userID across
// all symbols, maintained incrementally off OrderAdded/Cancelled/
// Filled/Expired rather than scanned on demand.
func (r *MarketRegistry) UserOrders(userID string) []UserOrder {
	r.idxMu.RLock()
	defer r.idxMu.RUnlock()
	set := r.userOrders[userID]
	out := make([]UserOrder, 0, len(set))
	for orderID := range set {
		out = append(out, UserOrder{Symbol: r.orderIndex[orderID], OrderID: orderID})
	}
	return out
}

// Create starts a new book for symbol. Returns an error if one already
// exists.
func (r *MarketRegistry) Create(symbol string) (*orderbook.OrderBook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[symbol]; ok {
		return nil, fmt.Errorf("market %s already exists", symbol)
	}
	ob := orderbook.New(r.configFor(symbol))
	r.trackOrders(symbol, ob)
	r.books[symbol] = ob
	return ob, nil
}

// GetOrCreate returns the existing book for symbol, creating one on
// first use.
func (r *MarketRegistry) GetOrCreate(symbol string) *orderbook.OrderBook {
	r.mu.RLock()
	ob, ok := r.books[symbol]
	r.mu.RUnlock()
	if ok {
		return ob
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ob, ok := r.books[symbol]; ok {
		return ob
	}
	ob = orderbook.New(r.configFor(symbol))
	r.trackOrders(symbol, ob)
	r.books[symbol] = ob
	return ob
}

// Get returns the book for symbol, if any.
func (r *MarketRegistry) Get(symbol string) (*orderbook.OrderBook, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ob, ok := r.books[symbol]
	return ob, ok
}

// List returns every registered symbol.
func (r *MarketRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.books))
	for s := range r.books {
		out = append(out, s)
	}
	return out
}

// Remove stops and drops symbol's book. Returns false if it did not
// exist.
func (r *MarketRegistry) Remove(symbol string) bool {
	r.mu.Lock()
	ob, ok := r.books[symbol]
	if !ok {
		r.mu.Unlock()
		return false
	}
	ob.Close()
	delete(r.books, symbol)
	r.mu.Unlock()

	r.idxMu.Lock()
	for orderID, sym := range r.orderIndex {
		if sym != symbol {
			continue
		}
		delete(r.orderIndex, orderID)
		for userID, set := range r.userOrders {
			delete(set, orderID)
			if len(set) == 0 {
				delete(r.userOrders, userID)
			}
		}
	}
	r.idxMu.Unlock()

	return true
}

// Submit routes spec to symbol's book, creating it on first use.
func (r *MarketRegistry) Submit(symbol string, spec orderbook.OrderSpec) (orderbook.SubmitResult, error) {
	return r.GetOrCreate(symbol).Submit(spec)
}

// Cancel routes a cancel request to whichever book orderID was
// submitted to, resolved via the global order index so the caller
// never needs to already know the symbol.
func (r *MarketRegistry) Cancel(orderID string) error {
	symbol, ok := r.SymbolForOrder(orderID)
	if !ok {
		return fmt.Errorf("order %s not found", orderID)
	}
	ob, ok := r.Get(symbol)
	if !ok {
		return fmt.Errorf("market %s not found", symbol)
	}
	return ob.Cancel(orderID)
}

// Modify routes a modify request to whichever book orderID was
// submitted to, resolved via the global order index.
func (r *MarketRegistry) Modify(orderID string, patch orderbook.ModifyPatch) (orderbook.SubmitResult, error) {
	symbol, ok := r.SymbolForOrder(orderID)
	if !ok {
		return orderbook.SubmitResult{}, fmt.Errorf("order %s not found", orderID)
	}
	ob, ok := r.Get(symbol)
	if !ok {
		return orderbook.SubmitResult{}, fmt.Errorf("market %s not found", symbol)
	}
	return ob.Modify(orderID, patch)
}

// Snapshot returns symbol's current depth.
func (r *MarketRegistry) Snapshot(symbol string, depth int) (orderbook.Snapshot, error) {
	ob, ok := r.Get(symbol)
	if !ok {
		return orderbook.Snapshot{}, fmt.Errorf("market %s not found", symbol)
	}
	return ob.Snapshot(depth), nil
}

// Statistics returns symbol's lifetime counters and latency stats.
func (r *MarketRegistry) Statistics(symbol string) (orderbook.Statistics, error) {
	ob, ok := r.Get(symbol)
	if !ok {
		return orderbook.Statistics{}, fmt.Errorf("market %s not found", symbol)
	}
	return ob.Statistics(), nil
}

// RegistryStatistics aggregates lifetime counters across every
// registered book, mirroring market_manager.py's get_statistics().
type RegistryStatistics struct {
	TotalMarkets int
	TotalUsers   int

	OrdersAdded     int64
	OrdersModified  int64
	OrdersCancelled int64
	OrdersExpired   int64
	OrdersRejected  int64
	TradesExecuted  int64
	VolumeTraded    decimal.Decimal

	Markets map[string]orderbook.Statistics
}

// Stats aggregates Statistics across every registered book, plus the
// registry's own cross-symbol user count.
func (r *MarketRegistry) Stats() RegistryStatistics {
	r.mu.RLock()
	books := make(map[string]*orderbook.OrderBook, len(r.books))
	for symbol, ob := range r.books {
		books[symbol] = ob
	}
	r.mu.RUnlock()

	out := RegistryStatistics{
		TotalMarkets: len(books),
		VolumeTraded: decimal.Zero,
		Markets:      make(map[string]orderbook.Statistics, len(books)),
	}
	for symbol, ob := range books {
		s := ob.Statistics()
		out.Markets[symbol] = s
		out.OrdersAdded += s.OrdersAdded
		out.OrdersModified += s.OrdersModified
		out.OrdersCancelled += s.OrdersCancelled
		out.OrdersExpired += s.OrdersExpired
		out.OrdersRejected += s.OrdersRejected
		out.TradesExecuted += s.TradesExecuted
		out.VolumeTraded = out.VolumeTraded.Add(s.VolumeTraded)
	}

	r.idxMu.RLock()
	out.TotalUsers = len(r.userOrders)
	r.idxMu.RUnlock()

	return out
}

// SweepExpired sweeps every registered book once and returns the total
// number of orders expired, for callers driving their own schedule
// (e.g. a test or an external cron) instead of relying on each book's
// internal ticker.
func (r *MarketRegistry) SweepExpired() int {
	r.mu.RLock()
	books := make([]*orderbook.OrderBook, 0, len(r.books))
	for _, ob := range r.books {
		books = append(books, ob)
	}
	r.mu.RUnlock()

	total := 0
	for _, ob := range books {
		total += ob.SweepExpired()
	}
	return total
}

// Clear resets symbol's book in place without removing it from the
// registry. orderbook.Clear does not emit per-order cancel events, so
// the registry purges its own indexes for symbol directly (market_manager.py's
// clear_market does the same by hand after calling order_book.clear()).
func (r *MarketRegistry) Clear(symbol string) error {
	ob, ok := r.Get(symbol)
	if !ok {
		return fmt.Errorf("market %s not found", symbol)
	}
	ob.Clear()

	r.idxMu.Lock()
	for orderID, sym := range r.orderIndex {
		if sym != symbol {
			continue
		}
		delete(r.orderIndex, orderID)
		for userID, set := range r.userOrders {
			delete(set, orderID)
			if len(set) == 0 {
				delete(r.userOrders, userID)
			}
		}
	}
	r.idxMu.Unlock()

	return nil
}

// CloseAll stops every registered book's background sweeper.
func (r *MarketRegistry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ob := range r.books {
		ob.Close()
	}
}
