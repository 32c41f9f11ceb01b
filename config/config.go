package config

import (
	"os"
	"time"

	postgres_wrapper "github.com/joripage/obcore/pkg/infra/postgres"
	redis_wrapper "github.com/joripage/obcore/pkg/infra/redis"
	kafkawrapper "github.com/joripage/obcore/pkg/kafka_wrapper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SymbolConfig is one traded instrument's book parameters (§6
// "Configuration options"), plus the risk checks applied at the
// gateway before an order ever reaches the book.
type SymbolConfig struct {
	Symbol            string `yaml:"symbol"`
	PricePrecision    int32  `yaml:"price_precision"`
	QuantityPrecision int32  `yaml:"quantity_precision"`

	PriceCeiling string `yaml:"price_ceiling"`
	PriceFloor   string `yaml:"price_floor"`
	TickSizeFile string `yaml:"tick_size_file"`

	CheckExpiryIntervalSeconds int    `yaml:"check_expiry_interval_seconds"`
	MaxTradeHistory            int    `yaml:"max_trade_history"`
	MaxEventHistory            int    `yaml:"max_event_history"`
	StopTriggerMode            string `yaml:"stop_trigger_mode"`
}

// FixConfig configures the FIX 4.4 order-entry gateway.
type FixConfig struct {
	Enabled        bool   `yaml:"enabled"`
	SettingsFile   string `yaml:"settings_file"`
}

// NatsConfig configures the JetStream durability path.
type NatsConfig struct {
	URL           string `yaml:"url"`
	StreamName    string `yaml:"stream_name"`
	Subject       string `yaml:"subject"`
	DurableName   string `yaml:"durable_name"`
}

// MarketDataConfig configures the Kafka/Redis fan-out path.
type MarketDataConfig struct {
	KafkaTopic string `yaml:"kafka_topic"`
}

// AppConfig is the root configuration document for the matching
// engine service: which symbols to run, how orders enter (FIX), where
// fills get persisted (Postgres, optionally also via NATS), and how depth/trades fan
// out to the rest of the platform (Kafka/Redis).
type AppConfig struct {
	ServiceName string `yaml:"service_name"`

	Symbols []SymbolConfig `yaml:"symbols"`

	DB         *postgres_wrapper.PostgresConfig `yaml:"db"`
	Redis      *redis_wrapper.RedisConfig       `yaml:"redis"`
	Kafka      *kafkawrapper.ProducerConfig     `yaml:"-"`
	KafkaBrokers []string                       `yaml:"kafka_brokers"`

	Nats       NatsConfig       `yaml:"nats"`
	Fix        FixConfig        `yaml:"fix"`
	MarketData MarketDataConfig `yaml:"market_data"`
}

// CheckExpiryInterval returns the configured sweep interval, defaulting
// to one second when unset.
func (s SymbolConfig) CheckExpiryInterval() time.Duration {
	if s.CheckExpiryIntervalSeconds <= 0 {
		return time.Second
	}
	return time.Duration(s.CheckExpiryIntervalSeconds) * time.Second
}

// Load load config from file and environment variables.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	fields := []interface{}{
		"func",
		"config.readFromFile",
		"filePath",
		filePath,
	}

	sugar := zap.S().With(fields...)

	sugar.Debug("Load config...")
	zap.S().Debugf("CONFIG_FILE=%v", filePath)

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("Failed to load config file")
		return nil, err
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	cfg := &AppConfig{}

	err = yaml.Unmarshal(configBytes, cfg)
	if err != nil {
		sugar.Error("Failed to parse config file")
		return nil, err
	}

	if len(cfg.KafkaBrokers) > 0 {
		cfg.Kafka = &kafkawrapper.ProducerConfig{Brokers: cfg.KafkaBrokers}
	}

	zap.S().Debugf("config: %+v", cfg)

	return cfg, nil
}
