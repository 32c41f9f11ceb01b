// Command worker drains the durable JetStream event stream into
// Postgres, standalone from the engine process — the deployment shape
// for running persistence on its own scaling tier. Adapted from the
// teacher's cmd/oms/main.go (db -> repo -> worker.StartConsumer
// wiring), retargeted onto pkg/eventlog.Consumer.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os/signal"
	"syscall"

	"github.com/joripage/obcore/config"
	"github.com/joripage/obcore/pkg/eventlog"
	postgres_wrapper "github.com/joripage/obcore/pkg/infra/postgres"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	log, _ := zap.NewProduction()
	defer log.Sync() // nolint

	if b, err := json.MarshalIndent(cfg, "", "  "); err == nil {
		log.Debug("loaded config", zap.ByteString("config", b))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := postgres_wrapper.InitPostgresWithBackoff(cfg.DB)
	store := eventlog.NewGormStore(db)

	nc, err := nats.Connect(cfg.Nats.URL)
	if err != nil {
		log.Fatal("connect nats failed", zap.Error(err))
	}
	js, err := nc.JetStream()
	if err != nil {
		log.Fatal("jetstream init failed", zap.Error(err))
	}
	_, _ = js.AddStream(&nats.StreamConfig{
		Name:     cfg.Nats.StreamName,
		Subjects: []string{cfg.Nats.Subject},
	})

	consumer := eventlog.NewConsumer(store, log)
	log.Info("worker started", zap.String("subject", cfg.Nats.Subject))
	if err := consumer.Run(ctx, js, cfg.Nats.Subject, cfg.Nats.DurableName); err != nil && ctx.Err() == nil {
		log.Error("consumer stopped", zap.Error(err))
	}
	log.Info("worker shut down")
}
