package eventbus

import (
	"sync"

	"go.uber.org/zap"
)

// Handler observes one published Event. Handlers run synchronously on
// the publisher's goroutine, typically while the caller still holds an
// OrderBook's lock (§5) — they must be fast and must not re-enter the
// book that is publishing to them.
type Handler func(Event)

// Bus is a typed publish/subscribe fan-out, generalizing the teacher's
// single untyped `callbacks []func([]MatchResult)` list
// (pkg/orderbook/orderbook.go) into one handler list per EventType plus
// a subscribe-all list, with an optional bounded history ring.
type Bus struct {
	mu       sync.Mutex
	handlers map[EventType][]Handler
	all      []Handler
	log      *zap.Logger

	history    []Event
	historyCap int
	historyPos int
}

// New creates a Bus. maxHistory <= 0 disables the history ring
// (default 1000 per §4.4 when the caller wants one).
func New(maxHistory int, log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{
		handlers:   make(map[EventType][]Handler),
		log:        log,
		historyCap: maxHistory,
	}
}

// Subscribe registers handler for one event type.
func (b *Bus) Subscribe(t EventType, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// SubscribeAll registers handler for every event type.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

// UnsubscribeToken identifies one handler registered through
// SubscribeTok (by event type and slot index); pass it to Unsubscribe to
// stop delivery to that handler.
type UnsubscribeToken struct {
	t   EventType
	idx int
	all bool
}

// SubscribeTok is Subscribe but returns a token usable with Unsubscribe.
func (b *Bus) SubscribeTok(t EventType, h Handler) UnsubscribeToken {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
	return UnsubscribeToken{t: t, idx: len(b.handlers[t]) - 1}
}

// Unsubscribe removes the handler identified by tok. It leaves a nil
// hole rather than compacting the slice, so other outstanding tokens
// for the same type stay valid.
func (b *Bus) Unsubscribe(tok UnsubscribeToken) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if tok.all {
		if tok.idx < len(b.all) {
			b.all[tok.idx] = nil
		}
		return
	}
	hs := b.handlers[tok.t]
	if tok.idx < len(hs) {
		hs[tok.idx] = nil
	}
}

// Publish is synchronous from the caller's perspective: every matching
// handler runs to completion before Publish returns. A handler that
// panics is recovered and logged; sibling handlers still run (§4.4).
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	perType := append([]Handler(nil), b.handlers[e.Type]...)
	all := append([]Handler(nil), b.all...)
	if b.historyCap > 0 {
		b.recordLocked(e)
	}
	b.mu.Unlock()

	for _, h := range perType {
		b.invoke(h, e)
	}
	for _, h := range all {
		b.invoke(h, e)
	}
}

func (b *Bus) invoke(h Handler, e Event) {
	if h == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("eventbus handler panicked",
				zap.String("event_type", string(e.Type)),
				zap.String("symbol", e.Symbol),
				zap.Any("recover", r))
		}
	}()
	h(e)
}

// recordLocked appends e to the bounded ring. Must be called with mu
// held.
func (b *Bus) recordLocked(e Event) {
	if len(b.history) < b.historyCap {
		b.history = append(b.history, e)
		return
	}
	b.history[b.historyPos] = e
	b.historyPos = (b.historyPos + 1) % b.historyCap
}

// History returns up to `limit` most recent events (0 = all retained),
// optionally filtered by type and/or symbol.
func (b *Bus) History(limit int, t *EventType, symbol *string) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Reconstruct chronological order out of the ring buffer.
	ordered := make([]Event, 0, len(b.history))
	if len(b.history) < b.historyCap || b.historyCap == 0 {
		ordered = append(ordered, b.history...)
	} else {
		ordered = append(ordered, b.history[b.historyPos:]...)
		ordered = append(ordered, b.history[:b.historyPos]...)
	}

	out := make([]Event, 0, len(ordered))
	for _, e := range ordered {
		if t != nil && e.Type != *t {
			continue
		}
		if symbol != nil && e.Symbol != *symbol {
			continue
		}
		out = append(out, e)
	}

	if limit > 0 && limit < len(out) {
		out = out[len(out)-limit:]
	}
	return out
}
