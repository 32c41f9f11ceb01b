// Command engine is the matching engine service: it boots one
// OrderBook per configured symbol behind a MarketRegistry, accepts
// orders over FIX 4.4, persists trades/events into Postgres (directly
// off each book's EventBus, plus a JetStream consumer when NATS is
// configured), and fans depth/trades out to Kafka and Redis. Adapted from
// the teacher's cmd/oms/main.go wiring order (db -> repo -> fix gateway
// -> oms), repurposed since this service is a matching engine rather
// than an order-management system.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/joripage/obcore/config"
	"github.com/joripage/obcore/pkg/bootstrap"
	"github.com/joripage/obcore/pkg/eventlog"
	"github.com/joripage/obcore/pkg/fixgateway"
	postgres_wrapper "github.com/joripage/obcore/pkg/infra/postgres"
	redis_wrapper "github.com/joripage/obcore/pkg/infra/redis"
	kafkawrapper "github.com/joripage/obcore/pkg/kafka_wrapper"
	"github.com/joripage/obcore/pkg/marketdata"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	go func() {
		_ = http.ListenAndServe("localhost:6060", nil)
	}()

	var configFile string
	if len(os.Args) > 1 {
		configFile = os.Args[1]
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	log, _ := zap.NewProduction()
	defer log.Sync() // nolint

	if b, err := json.MarshalIndent(cfg, "", "  "); err == nil {
		log.Debug("loaded config", zap.ByteString("config", b))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services, err := bootstrap.Build(cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}

	var store eventlog.Store
	if cfg.DB != nil {
		db, err := postgres_wrapper.InitPostgres(cfg.DB)
		if err != nil {
			log.Fatal("init postgres failed", zap.Error(err))
		}
		store = eventlog.NewGormStore(db)
	}

	var producer *kafkawrapper.Producer
	if cfg.Kafka != nil {
		producer = kafkawrapper.NewProducer(*cfg.Kafka)
		defer producer.Close(ctx) // nolint
	}

	var redisClient *redis.Client
	if cfg.Redis != nil {
		rc, err := redis_wrapper.InitRedis(cfg.Redis)
		if err != nil {
			log.Warn("init redis failed, market data cache disabled", zap.Error(err))
		} else {
			redisClient = rc
		}
	}

	var js nats.JetStreamContext
	if cfg.Nats.URL != "" {
		nc, err := nats.Connect(cfg.Nats.URL)
		if err != nil {
			log.Warn("connect nats failed, durable replay disabled", zap.Error(err))
		} else {
			js, err = nc.JetStream()
			if err != nil {
				log.Warn("jetstream init failed", zap.Error(err))
			} else if cfg.Nats.StreamName != "" {
				_, _ = js.AddStream(&nats.StreamConfig{
					Name:     cfg.Nats.StreamName,
					Subjects: []string{cfg.Nats.Subject},
				})
			}
		}
	}

	for _, symbol := range services.Registry.List() {
		ob, _ := services.Registry.Get(symbol)
		bus := ob.EventBus()

		if store != nil {
			eventlog.DirectWriter(bus, symbol, store, log)
		}
		if producer != nil {
			pub := marketdata.NewPublisher(producer, redisClient, cfg.MarketData.KafkaTopic, log)
			pub.Attach(bus, symbol)
		}
	}

	if store != nil && js != nil {
		consumer := eventlog.NewConsumer(store, log)
		go func() {
			if err := consumer.Run(ctx, js, cfg.Nats.Subject, cfg.Nats.DurableName); err != nil && ctx.Err() == nil {
				log.Error("jetstream consumer stopped", zap.Error(err))
			}
		}()
	}

	if cfg.Fix.Enabled {
		gw := fixgateway.New(fixgateway.Config{
			Registry: services.Registry,
			Rules:    services.Rules,
			Logger:   log,
		})
		acceptor, err := gw.Start(cfg.Fix.SettingsFile)
		if err != nil {
			log.Fatal("start fix acceptor failed", zap.Error(err))
		}
		defer acceptor.Stop()
	}

	log.Info("engine started")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	log.Info("shutting down")
	cancel()
	services.Registry.CloseAll()
}
