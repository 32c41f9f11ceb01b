package orderbook

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/joripage/obcore/pkg/eventbus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// orderLocation is the §3 order_index entry: enough to find an order's
// level in O(1) without scanning either SideBook.
type orderLocation struct {
	side  Side
	price decimal.Decimal
}

// OrderBook owns both SideBooks for one symbol, the order index, stop
// table, trade log, statistics, expiry wheel and latency meter, and
// serialises every mutating operation behind a single mutex (§5). It is
// the component collaborators (FIX gateway, market-data publisher,
// persistence worker) observe through its EventBus.
type OrderBook struct {
	cfg Config

	mu        sync.Mutex
	bids      *SideBook
	asks      *SideBook
	index     map[string]orderLocation
	stops     *stopTable
	expiry    *expiryWheel
	trades    []*Trade // ring buffer, bounded by cfg.MaxTradeHistory
	tradePos  int
	tradeFull bool
	counters  counters
	latency   *latencyMeter
	lastPrice decimal.Decimal
	hasLast   bool
	poisoned  error

	seq uint64 // monotonic submit-order tie-break, atomic

	bus    *eventbus.Bus
	cancel context.CancelFunc
}

// New creates an OrderBook and starts its background expiry sweeper.
func New(cfg Config) *OrderBook {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	ob := &OrderBook{
		cfg:     cfg,
		bids:    newSideBook(Buy),
		asks:    newSideBook(Sell),
		index:   make(map[string]orderLocation),
		stops:   newStopTable(),
		expiry:  newExpiryWheel(),
		latency: newLatencyMeter(1000),
		bus:     eventbus.New(cfg.MaxEventHistory, cfg.Logger),
		cancel:  cancel,
	}
	runSweeper(ctx, cfg.CheckExpiryInterval, func() { ob.SweepExpired() })
	cfg.Logger.Info("orderbook initialized",
		zap.String("symbol", cfg.Symbol),
		zap.Bool("price_improvement", cfg.EnablePriceImprovement))
	return ob
}

// Close stops the background expiry sweeper. The book remains usable
// for synchronous operations afterwards; only time-based expiry stops.
func (ob *OrderBook) Close() {
	ob.cancel()
}

// EventBus returns the handle collaborators subscribe through.
func (ob *OrderBook) EventBus() *eventbus.Bus { return ob.bus }

// Symbol returns the book's trading symbol.
func (ob *OrderBook) Symbol() string { return ob.cfg.Symbol }

func (ob *OrderBook) nextSeq() uint64 { return atomic.AddUint64(&ob.seq, 1) }

func (ob *OrderBook) nextTradeID() string { return uuid.New().String() }

func (ob *OrderBook) poison(reason string) error {
	err := fmt.Errorf("%w: %s", ErrPoisoned, reason)
	ob.poisoned = err
	ob.cfg.Logger.Error("orderbook poisoned", zap.String("symbol", ob.cfg.Symbol), zap.String("reason", reason))
	return err
}

// Submit validates and matches a new order, resting any TIF-eligible
// remainder (§4.3 `submit`).
func (ob *OrderBook) Submit(spec OrderSpec) (SubmitResult, error) {
	start := ob.cfg.now()
	ob.mu.Lock()
	defer ob.mu.Unlock()
	defer func() { ob.latency.submit.record(timeSince(start, ob.cfg.Now)) }()

	if ob.poisoned != nil {
		return SubmitResult{}, ob.poisoned
	}

	order, err := ob.buildOrder(spec)
	if err != nil {
		return SubmitResult{}, err
	}

	if order.IsStop() {
		armed := ob.stopArmedAtSubmission(order)
		if !armed {
			ob.stops.park(order)
			ob.counters.OrdersAdded++
			return SubmitResult{OrderID: order.ID}, nil
		}
		order.Type = order.triggerOrderType()
	}

	return ob.acceptOrder(order)
}

// buildOrder validates spec and produces the internal order, assigning
// an id and submit sequence. No state is mutated on error (§7).
func (ob *OrderBook) buildOrder(spec OrderSpec) (*Order, error) {
	switch spec.Type {
	case Limit, Market, StopLimit, StopMarket, Iceberg, TrailingStop:
	default:
		return nil, ErrUnknownOrderType
	}
	if spec.Side != Buy && spec.Side != Sell {
		return nil, ErrUnknownOrderType
	}

	orderID := spec.OrderID
	if orderID == "" {
		orderID = uuid.New().String()
	} else if _, exists := ob.index[orderID]; exists {
		return nil, ErrDuplicateOrderID
	} else if _, exists := ob.stops.get(orderID); exists {
		return nil, ErrDuplicateOrderID
	}

	tif := spec.TimeInForce
	if tif == "" {
		tif = GTC
	}

	price := spec.Price
	typ := spec.Type
	if typ == Limit {
		if spec.Side == Buy && price.Equal(MarketBuySentinelPrice) {
			typ = Market
		} else if spec.Side == Sell && price.Equal(MarketSellSentinelPrice) {
			typ = Market
		}
	}

	if typ != Market && typ != StopMarket && typ != TrailingStop {
		if !price.Equal(price.Round(ob.cfg.PricePrecision)) {
			return nil, ErrInvalidPrecision
		}
		if price.LessThanOrEqual(decimal.Zero) {
			return nil, ErrInvalidQuantity
		}
	}
	if typ == StopLimit || typ == StopMarket {
		if !spec.StopPrice.Equal(spec.StopPrice.Round(ob.cfg.PricePrecision)) {
			return nil, ErrInvalidPrecision
		}
	}

	if spec.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidQuantity
	}
	if !spec.Quantity.Equal(spec.Quantity.Round(ob.cfg.QuantityPrecision)) {
		return nil, ErrInvalidPrecision
	}
	if !spec.DisplayQuantity.IsZero() && spec.DisplayQuantity.GreaterThan(spec.Quantity) {
		return nil, ErrInvalidQuantity
	}

	if tif == GTD {
		if spec.ExpiryTime.IsZero() {
			return nil, ErrGTDExpiryInPast
		}
		if !spec.ExpiryTime.After(ob.cfg.now()) {
			return nil, ErrGTDExpiryInPast
		}
	}

	now := ob.cfg.now()
	order := &Order{
		ID:               orderID,
		Symbol:           ob.cfg.Symbol,
		Side:             spec.Side,
		Type:             typ,
		TimeInForce:      tif,
		PostOnly:         spec.PostOnly,
		Price:            price,
		StopPrice:        spec.StopPrice,
		Quantity:         spec.Quantity,
		OriginalQuantity: spec.Quantity,
		DisplayQuantity:  spec.DisplayQuantity,
		TrailValue:       spec.TrailValue,
		TrailIsPercent:   spec.TrailIsPercent,
		UserID:           spec.UserID,
		ExpiryTime:       spec.ExpiryTime,
		SubmitTimestamp:  now,
		SubmitSeq:        ob.nextSeq(),
	}
	return order, nil
}

// stopArmedAtSubmission reports whether a freshly submitted stop order
// is already past its trigger at the moment of submission (e.g. a stop
// buy whose trigger is already at/below the current reference price).
// Such stops arm immediately rather than parking.
func (ob *OrderBook) stopArmedAtSubmission(o *Order) bool {
	ref, ok := ob.referencePrice()
	if !ok {
		return false
	}
	return triggered(o, ref)
}

func (ob *OrderBook) referencePrice() (decimal.Decimal, bool) {
	switch ob.cfg.StopTriggerMode {
	case TriggerBestBid:
		if lvl, ok := ob.bids.Best(); ok {
			return lvl.Price, true
		}
		return decimal.Zero, false
	case TriggerBestAsk:
		if lvl, ok := ob.asks.Best(); ok {
			return lvl.Price, true
		}
		return decimal.Zero, false
	default:
		if ob.hasLast {
			return ob.lastPrice, true
		}
		return decimal.Zero, false
	}
}

// acceptOrder runs a (non-stop, or just-triggered stop converted to its
// underlying type) order through matching and TIF post-processing. Must
// be called with ob.mu held.
func (ob *OrderBook) acceptOrder(order *Order) (SubmitResult, error) {
	sideBook, opposing := ob.books(order.Side)

	if order.PostOnly {
		if lvl, ok := opposing.Best(); ok && crosses(order, lvl.Price) {
			ob.emitRejected(order, ReasonPostOnlyWouldCross)
			return SubmitResult{}, ErrPostOnlyWouldCross
		}
	}

	if order.TimeInForce == FOK {
		fillable := ProbeFillable(order, opposing)
		if fillable.LessThan(order.OriginalQuantity) {
			ob.emitRejected(order, ReasonFOKUnfillable)
			return SubmitResult{}, ErrFOKUnfillable
		}
	}

	var trades []*Trade
	Match(order, opposing, ob.matchParams(), func(fe FillEvent) {
		trades = append(trades, fe.Trade)
		ob.recordTrade(fe.Trade)
		ob.emitTrade(fe.Trade)
		ob.emitFillEvent(order, fe)
	})

	if len(trades) > 0 {
		ob.evaluateStops()
	}

	resting := ob.applyTIF(order, sideBook)

	if resting {
		created := sideBook.Insert(order)
		ob.index[order.ID] = orderLocation{side: order.Side, price: order.Price}
		ob.counters.OrdersAdded++
		ob.emitOrderAdded(order, created)
	}

	ob.emitBookUpdated()

	return SubmitResult{OrderID: order.ID, Trades: trades, Resting: resting}, nil
}

func (ob *OrderBook) matchParams() MatchParams {
	return MatchParams{
		MakerFeeRate: ob.cfg.MakerFeeRate,
		TakerFeeRate: ob.cfg.TakerFeeRate,
		Now:          ob.cfg.now,
		NextTradeID:  ob.nextTradeID,
	}
}

func (ob *OrderBook) books(side Side) (own, opposing *SideBook) {
	if side == Buy {
		return ob.bids, ob.asks
	}
	return ob.asks, ob.bids
}

// applyTIF implements the §4.2 TIF post-processing table. Returns
// whether the order's remainder should be inserted into its SideBook.
func (ob *OrderBook) applyTIF(order *Order, sideBook *SideBook) bool {
	if order.Quantity.LessThanOrEqual(decimal.Zero) {
		return false
	}

	if order.Type == Market {
		// Market orders never rest; any residual reflects insufficient
		// liquidity and is discarded.
		ob.emitFilledFlagged(order, ReasonMarketInsufficientLiquidity)
		order.Quantity = decimal.Zero
		return false
	}

	switch order.TimeInForce {
	case IOC:
		ob.emitCancelled(order, ReasonIOCRemainder)
		order.Quantity = decimal.Zero
		return false
	case FOK:
		// Already guaranteed fully fillable by the probe in acceptOrder;
		// quantity should be exactly zero here.
		return false
	case GTD:
		ob.expiry.schedule(order.ID, order.ExpiryTime)
		return true
	case Day:
		if !ob.cfg.SessionEndTime.IsZero() {
			ob.expiry.schedule(order.ID, ob.cfg.SessionEndTime)
		}
		return true
	default: // GTC
		return true
	}
}

func (ob *OrderBook) recordTrade(t *Trade) {
	ob.lastPrice = t.Price
	ob.hasLast = true
	ob.counters.TradesExecuted++
	ob.counters.TotalVolumeTraded = ob.counters.TotalVolumeTraded.Add(t.Quantity)

	max := ob.cfg.MaxTradeHistory
	if max <= 0 {
		return
	}
	if len(ob.trades) < max {
		ob.trades = append(ob.trades, t)
		return
	}
	ob.trades[ob.tradePos] = t
	ob.tradePos = (ob.tradePos + 1) % max
	ob.tradeFull = true
}

// Cancel removes order_id from the book (§4.3 `cancel`).
func (ob *OrderBook) Cancel(orderID string) error {
	start := ob.cfg.now()
	ob.mu.Lock()
	defer ob.mu.Unlock()
	defer func() { ob.latency.cancel.record(timeSince(start, ob.cfg.Now)) }()

	if ob.poisoned != nil {
		return ob.poisoned
	}
	return ob.cancelLocked(orderID)
}

func (ob *OrderBook) cancelLocked(orderID string) error {
	if o, ok := ob.stops.remove(orderID); ok {
		ob.counters.OrdersCancelled++
		ob.emitCancelled(o, "")
		return nil
	}

	loc, ok := ob.index[orderID]
	if !ok {
		return ErrNotFound
	}
	sideBook, _ := ob.books(loc.side)
	o, found, emptied := sideBook.Remove(loc.price, orderID)
	if !found {
		return ob.poison(fmt.Sprintf("index pointed at missing order %s", orderID))
	}
	delete(ob.index, orderID)
	ob.expiry.cancel(orderID)
	ob.counters.OrdersCancelled++

	if emptied {
		ob.emitPriceLevelRemoved(loc.side, loc.price)
	} else {
		ob.emitPriceLevelChanged(sideBook, loc.price)
	}
	ob.emitCancelled(o, "")
	ob.emitBookUpdated()
	return nil
}

// Modify atomically applies price/quantity/expiry changes (§4.3).
func (ob *OrderBook) Modify(orderID string, patch ModifyPatch) (SubmitResult, error) {
	start := ob.cfg.now()
	ob.mu.Lock()
	defer ob.mu.Unlock()
	defer func() { ob.latency.modify.record(timeSince(start, ob.cfg.Now)) }()

	if ob.poisoned != nil {
		return SubmitResult{}, ob.poisoned
	}

	if o, ok := ob.stops.get(orderID); ok {
		return ob.modifyStopLocked(o, patch)
	}

	loc, ok := ob.index[orderID]
	if !ok {
		return SubmitResult{}, ErrNotFound
	}
	sideBook, _ := ob.books(loc.side)
	level, ok := sideBook.levelAt(loc.price)
	if !ok {
		return SubmitResult{}, ob.poison(fmt.Sprintf("index pointed at missing level for %s", orderID))
	}
	order, ok := level.orders[orderID]
	if !ok {
		return SubmitResult{}, ob.poison(fmt.Sprintf("level missing order %s", orderID))
	}

	priceChanged := patch.NewPrice != nil && !patch.NewPrice.Equal(order.Price)
	qtyIncrease := patch.NewQuantity != nil && patch.NewQuantity.GreaterThan(order.Quantity)

	if patch.NewQuantity != nil && patch.NewQuantity.LessThanOrEqual(decimal.Zero) {
		// Quantity set to zero: treat as cancel.
		if err := ob.cancelLocked(orderID); err != nil {
			return SubmitResult{}, err
		}
		return SubmitResult{OrderID: orderID}, nil
	}

	if priceChanged || qtyIncrease {
		// Loses time priority: cancel + re-insert at tail of (possibly
		// new) level, then re-run the cross-check since the new price
		// may now cross the opposite side.
		if patch.NewPrice != nil && !patch.NewPrice.Equal(patch.NewPrice.Round(ob.cfg.PricePrecision)) {
			return SubmitResult{}, ErrInvalidPrecision
		}
		sideBook.Remove(loc.price, orderID)
		delete(ob.index, orderID)

		newOrder := order.clone()
		newOrder.resting = false
		if patch.NewPrice != nil {
			newOrder.Price = *patch.NewPrice
		}
		if patch.NewQuantity != nil {
			newOrder.Quantity = *patch.NewQuantity
			newOrder.OriginalQuantity = *patch.NewQuantity
		}
		if patch.NewExpiryTime != nil {
			newOrder.ExpiryTime = *patch.NewExpiryTime
		}
		newOrder.SubmitSeq = ob.nextSeq()
		newOrder.SubmitTimestamp = ob.cfg.now()

		ob.counters.OrdersModified++
		ob.emitModified(newOrder)
		result, err := ob.acceptOrder(newOrder)
		return result, err
	}

	if patch.NewQuantity != nil {
		// Strict decrease with unchanged price: retains priority.
		level.decreaseQuantity(order, *patch.NewQuantity)
		if patch.NewExpiryTime != nil {
			order.ExpiryTime = *patch.NewExpiryTime
			ob.expiry.schedule(order.ID, *patch.NewExpiryTime)
		}
		ob.counters.OrdersModified++
		ob.emitModified(order)
		ob.emitPriceLevelChanged(sideBook, order.Price)
		return SubmitResult{OrderID: orderID}, nil
	}

	if patch.NewExpiryTime != nil {
		order.ExpiryTime = *patch.NewExpiryTime
		ob.expiry.schedule(order.ID, *patch.NewExpiryTime)
		ob.counters.OrdersModified++
		ob.emitModified(order)
		return SubmitResult{OrderID: orderID}, nil
	}

	return SubmitResult{}, ErrInvalidPatch
}

func (ob *OrderBook) modifyStopLocked(o *Order, patch ModifyPatch) (SubmitResult, error) {
	if patch.NewPrice != nil {
		o.Price = *patch.NewPrice
	}
	if patch.NewQuantity != nil {
		if patch.NewQuantity.LessThanOrEqual(decimal.Zero) {
			ob.stops.remove(o.ID)
			ob.counters.OrdersCancelled++
			ob.emitCancelled(o, "")
			return SubmitResult{OrderID: o.ID}, nil
		}
		o.Quantity = *patch.NewQuantity
		o.OriginalQuantity = *patch.NewQuantity
	}
	if patch.NewExpiryTime != nil {
		o.ExpiryTime = *patch.NewExpiryTime
	}
	ob.counters.OrdersModified++
	ob.emitModified(o)
	return SubmitResult{OrderID: o.ID}, nil
}

// evaluateStops arms triggered stop orders against the configured
// reference price and resubmits them as their underlying type (§4.3).
// Must be called with ob.mu held.
func (ob *OrderBook) evaluateStops() {
	ref, ok := ob.referencePrice()
	if !ok {
		return
	}
	for _, armed := range ob.stops.evaluate(ref) {
		armed.Type = armed.triggerOrderType()
		ob.acceptOrder(armed)
	}
}

// SweepExpired drains and cancels every order past its deadline (§4.3).
// Safe to call concurrently with other operations; it takes the book
// lock itself.
func (ob *OrderBook) SweepExpired() int {
	start := ob.cfg.now()
	ob.mu.Lock()
	defer ob.mu.Unlock()
	defer func() { ob.latency.sweep.record(timeSince(start, ob.cfg.Now)) }()

	if ob.poisoned != nil {
		return 0
	}

	now := ob.cfg.now()
	expired := ob.expiry.drainExpired(now)
	count := 0
	for _, id := range expired {
		loc, ok := ob.index[id]
		if !ok {
			continue // already cancelled by the client; idempotent no-op
		}
		sideBook, _ := ob.books(loc.side)
		o, found, emptied := sideBook.Remove(loc.price, id)
		if !found {
			continue
		}
		delete(ob.index, id)
		ob.counters.OrdersExpired++
		count++
		if emptied {
			ob.emitPriceLevelRemoved(loc.side, loc.price)
		} else {
			ob.emitPriceLevelChanged(sideBook, loc.price)
		}
		ob.emitExpired(o)
	}
	if count > 0 {
		ob.emitBookUpdated()
	}
	return count
}

// Clear drops all resting orders, stops, and trade history for this
// book without destroying the OrderBook itself (SPEC_FULL §1, adapted
// from market_manager.py's clear_market).
func (ob *OrderBook) Clear() {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	ob.bids = newSideBook(Buy)
	ob.asks = newSideBook(Sell)
	ob.index = make(map[string]orderLocation)
	ob.stops = newStopTable()
	ob.expiry = newExpiryWheel()
	ob.trades = nil
	ob.tradePos = 0
	ob.tradeFull = false
	ob.hasLast = false
	ob.poisoned = nil
}

// Poisoned reports whether the book has refused an internal invariant
// and is no longer accepting operations (§7).
func (ob *OrderBook) Poisoned() error {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.poisoned
}
