// Package fixgateway is a FIX 4.4 order-entry front end for a
// registry.MarketRegistry, adapted from the teacher's
// pkg/oms/fix/fix_gateway.go and pkg/oms/fix/application.go: same
// quickfix.MessageRouter + shardqueue dispatch shape, retargeted from
// the teacher's IOMS indirection straight onto Submit/Cancel/Modify so
// a NewOrderSingle becomes one orderbook.OrderSpec instead of passing
// through an intermediate order-management layer.
package fixgateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joripage/go_util/pkg/shardqueue"
	"github.com/joripage/obcore/pkg/registry"
	"github.com/joripage/obcore/pkg/riskrule"
	"github.com/quickfixgo/fix44/newordersingle"
	"github.com/quickfixgo/fix44/ordercancelreplacerequest"
	"github.com/quickfixgo/fix44/ordercancelrequest"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/quickfix/log/file"
	"github.com/quickfixgo/tag"
	"go.uber.org/zap"
)

const (
	numShards = 16
	queueSize = 1_000_000
)

// Gateway is the quickfix.Application wiring NewOrderSingle /
// OrderCancelRequest / OrderCancelReplaceRequest onto a MarketRegistry
// and answering each request with an ExecutionReport for its immediate
// outcome (later fills of a resting order are not reported).
type Gateway struct {
	*quickfix.MessageRouter

	registry *registry.MarketRegistry
	rules    map[string]*riskrule.Chain
	log      *zap.Logger

	shardQueue *shardqueue.Shardqueue
	sessions   clOrdSessions

	quickEvent chan struct{}
}

// Config configures the FIX acceptor. Rules is keyed by symbol, since
// risk bands (price limits, tick sizes) are per-instrument; a symbol
// with no entry submits unchecked.
type Config struct {
	SettingsFilePath string
	Registry         *registry.MarketRegistry
	Rules            map[string]*riskrule.Chain
	Logger           *zap.Logger
}

// New builds a Gateway and routes its message handlers; call Start to
// bring up the acceptor.
func New(cfg Config) *Gateway {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	g := &Gateway{
		MessageRouter: quickfix.NewMessageRouter(),
		registry:      cfg.Registry,
		rules:         cfg.Rules,
		log:           log,
		quickEvent:    make(chan struct{}, 1),
	}

	g.AddRoute(newordersingle.Route(g.onNewOrderSingle))
	g.AddRoute(ordercancelrequest.Route(g.onOrderCancelRequest))
	g.AddRoute(ordercancelreplacerequest.Route(g.onOrderCancelReplaceRequest))

	g.shardQueue = shardqueue.NewShardQueue(numShards, queueSize)
	g.shardQueue.Start(func(msg interface{}) error {
		if im, ok := msg.(*inboundMsg); ok {
			return g.Route(im.msg, im.sessionID)
		}
		return nil
	})

	return g
}

type inboundMsg struct {
	msg       *quickfix.Message
	sessionID quickfix.SessionID
}

// Start reads a quickfix settings file and brings up a FIX acceptor
// that routes every application message through g.
func (g *Gateway) Start(settingsFilePath string) (*quickfix.Acceptor, error) {
	f, err := os.Open(settingsFilePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", settingsFilePath, err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", settingsFilePath, err)
	}

	settings, err := quickfix.ParseSettings(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}

	logFactory, err := file.NewLogFactory(settings)
	if err != nil {
		return nil, fmt.Errorf("log factory: %w", err)
	}

	acceptor, err := quickfix.NewAcceptor(g, quickfix.NewMemoryStoreFactory(), settings, logFactory)
	if err != nil {
		return nil, fmt.Errorf("new acceptor: %w", err)
	}
	if err := acceptor.Start(); err != nil {
		return nil, fmt.Errorf("start acceptor: %w", err)
	}
	return acceptor, nil
}

// OnCreate, OnLogon, OnLogout, ToAdmin, ToApp, FromAdmin implement the
// remainder of quickfix.Application; this gateway has nothing to do on
// any of them.
func (g *Gateway) OnCreate(sessionID quickfix.SessionID)                           {}
func (g *Gateway) OnLogon(sessionID quickfix.SessionID)                            {}
func (g *Gateway) OnLogout(sessionID quickfix.SessionID)                           {}
func (g *Gateway) ToAdmin(msg *quickfix.Message, sessionID quickfix.SessionID)     {}
func (g *Gateway) ToApp(msg *quickfix.Message, sessionID quickfix.SessionID) error { return nil }
func (g *Gateway) FromAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return nil
}

// FromApp shards incoming application messages by ClOrdID so two
// unrelated orders never serialize behind one another, while
// cancel/replace requests for the same ClOrdID stay ordered.
func (g *Gateway) FromApp(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	g.shardQueue.Shard(routingKey(msg, sessionID), &inboundMsg{msg: msg, sessionID: sessionID})
	return nil
}

func routingKey(msg *quickfix.Message, sessionID quickfix.SessionID) string {
	if clOrdID, err := msg.Body.GetString(tag.ClOrdID); err == nil && clOrdID != "" {
		return clOrdID
	}
	return sessionID.String()
}

func (g *Gateway) onNewOrderSingle(msg newordersingle.NewOrderSingle, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	ctx := context.Background()
	clOrdID, spec, symbol, err := newOrderSingleToSpec(msg)
	if err != nil {
		g.log.Warn("rejecting malformed NewOrderSingle", zap.Error(err))
		g.sendReject(sessionID, clOrdID, err.Error())
		return nil
	}
	g.sessions.put(clOrdID, sessionID)

	if chain, ok := g.rules[symbol]; ok && chain != nil {
		if err := chain.Check(spec); err != nil {
			g.sendReject(sessionID, clOrdID, err.Error())
			return nil
		}
	}

	result, err := g.registry.Submit(symbol, spec)
	if err != nil {
		g.sendReject(sessionID, clOrdID, err.Error())
		return nil
	}
	g.sessions.setOrderID(clOrdID, result.OrderID)
	g.sendExecutionReport(ctx, sessionID, clOrdID, symbol, spec, result)
	return nil
}

func (g *Gateway) onOrderCancelRequest(msg ordercancelrequest.OrderCancelRequest, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	clOrdID, origClOrdID, symbol, err := orderCancelRequestFields(msg)
	if err != nil {
		g.log.Warn("malformed OrderCancelRequest", zap.Error(err))
		return nil
	}
	g.sessions.put(clOrdID, sessionID)

	origOrderID, ok := g.sessions.orderID(origClOrdID)
	if !ok {
		g.sendReject(sessionID, clOrdID, "unknown OrigClOrdID")
		return nil
	}
	if err := g.registry.Cancel(origOrderID); err != nil {
		g.sendReject(sessionID, clOrdID, err.Error())
		return nil
	}
	g.sendCancelAck(sessionID, clOrdID, origClOrdID, symbol)
	return nil
}

func (g *Gateway) onOrderCancelReplaceRequest(msg ordercancelreplacerequest.OrderCancelReplaceRequest, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	clOrdID, origClOrdID, symbol, patch, err := orderCancelReplaceRequestFields(msg)
	if err != nil {
		g.log.Warn("malformed OrderCancelReplaceRequest", zap.Error(err))
		return nil
	}
	g.sessions.put(clOrdID, sessionID)

	origOrderID, ok := g.sessions.orderID(origClOrdID)
	if !ok {
		g.sendReject(sessionID, clOrdID, "unknown OrigClOrdID")
		return nil
	}
	result, err := g.registry.Modify(origOrderID, patch)
	if err != nil {
		g.sendReject(sessionID, clOrdID, err.Error())
		return nil
	}
	g.sessions.setOrderID(clOrdID, origOrderID)
	g.sendReplaceAck(sessionID, clOrdID, origClOrdID, symbol, result)
	return nil
}
