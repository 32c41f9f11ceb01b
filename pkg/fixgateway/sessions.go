package fixgateway

import (
	"sync"

	"github.com/quickfixgo/quickfix"
)

// clOrdSessions remembers which quickfix.SessionID originated a ClOrdID
// and which book order id it resolved to, so a later
// OrderCancelRequest/OrderCancelReplaceRequest referencing that ClOrdID
// via OrigClOrdID can be routed to the right session and the right
// resting order. Adapted from the teacher's FixManager.requestMapping/
// sessionMapping sync.Maps, merged into one entry per ClOrdID.
type clOrdSessions struct {
	mu      sync.Mutex
	entries map[string]sessionEntry
}

type sessionEntry struct {
	sessionID quickfix.SessionID
	orderID   string
}

func (s *clOrdSessions) put(clOrdID string, sessionID quickfix.SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[string]sessionEntry)
	}
	e := s.entries[clOrdID]
	e.sessionID = sessionID
	s.entries[clOrdID] = e
}

func (s *clOrdSessions) setOrderID(clOrdID, orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[string]sessionEntry)
	}
	e := s.entries[clOrdID]
	e.orderID = orderID
	s.entries[clOrdID] = e
}

func (s *clOrdSessions) session(clOrdID string) (quickfix.SessionID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[clOrdID]
	return e.sessionID, ok
}

func (s *clOrdSessions) orderID(clOrdID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[clOrdID]
	if !ok || e.orderID == "" {
		return "", false
	}
	return e.orderID, true
}
