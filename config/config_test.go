package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadParsesSymbolsAndNestedSections(t *testing.T) {
	path := writeConfigFile(t, `
service_name: engine
symbols:
  - symbol: ABC
    price_precision: 2
    quantity_precision: 8
    price_ceiling: "1000"
    price_floor: "1"
fix:
  enabled: true
  settings_file: fix.cfg
nats:
  url: nats://localhost:4222
  stream_name: ORDERS
  subject: ORDERS.events
  durable_name: engine-worker
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServiceName != "engine" {
		t.Fatalf("expected service_name engine, got %s", cfg.ServiceName)
	}
	if len(cfg.Symbols) != 1 || cfg.Symbols[0].Symbol != "ABC" {
		t.Fatalf("expected one symbol ABC, got %+v", cfg.Symbols)
	}
	if !cfg.Fix.Enabled || cfg.Fix.SettingsFile != "fix.cfg" {
		t.Fatalf("expected fix section parsed, got %+v", cfg.Fix)
	}
	if cfg.Nats.Subject != "ORDERS.events" {
		t.Fatalf("expected nats subject parsed, got %s", cfg.Nats.Subject)
	}
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("TEST_SYMBOL", "XYZ")
	path := writeConfigFile(t, `
symbols:
  - symbol: ${TEST_SYMBOL}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Symbols[0].Symbol != "XYZ" {
		t.Fatalf("expected env var expansion to substitute XYZ, got %s", cfg.Symbols[0].Symbol)
	}
}

func TestLoadDerivesKafkaProducerConfigFromBrokerList(t *testing.T) {
	path := writeConfigFile(t, `
kafka_brokers:
  - localhost:9092
  - localhost:9093
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Kafka == nil {
		t.Fatalf("expected a derived Kafka producer config")
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Fatalf("expected 2 brokers, got %+v", cfg.Kafka.Brokers)
	}
}

func TestLoadLeavesKafkaNilWithoutBrokers(t *testing.T) {
	path := writeConfigFile(t, `service_name: engine`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Kafka != nil {
		t.Fatalf("expected no Kafka producer config without any brokers configured")
	}
}

func TestSymbolConfigCheckExpiryIntervalDefaultsToOneSecond(t *testing.T) {
	sc := SymbolConfig{}
	if sc.CheckExpiryInterval() != time.Second {
		t.Fatalf("expected default of 1s, got %s", sc.CheckExpiryInterval())
	}

	sc.CheckExpiryIntervalSeconds = 5
	if sc.CheckExpiryInterval() != 5*time.Second {
		t.Fatalf("expected configured 5s, got %s", sc.CheckExpiryInterval())
	}
}
