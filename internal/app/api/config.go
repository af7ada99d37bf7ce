package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	ordersapp "github.com/Apurer/storefront-orders/internal/domains/orders/application"
	"github.com/Apurer/storefront-orders/internal/platform/kafka"
)

// Config carries environment-driven settings for the API, worker and relay processes.
type Config struct {
	Port              string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	RedisAddr         string
	OrderCacheTTL     time.Duration
	KafkaBrokers      []string
	KafkaOrderTopic   string
	OutboxInterval    time.Duration
	OutboxBatchSize   int
	RecentOrdersLimit int
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		OrderCacheTTL:     10 * time.Minute,
		KafkaBrokers:      kafka.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic:   envDefault("KAFKA_ORDER_TOPIC", "orders.order.placed"),
		OutboxInterval:    5 * time.Second,
		OutboxBatchSize:   100,
		RecentOrdersLimit: ordersapp.DefaultRecentLimit,
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}
	if minutes, ok, err := positiveInt("ORDER_CACHE_TTL_MINUTES"); err != nil {
		return Config{}, err
	} else if ok {
		cfg.OrderCacheTTL = time.Duration(minutes) * time.Minute
	}
	if seconds, ok, err := positiveInt("OUTBOX_POLL_INTERVAL_SECONDS"); err != nil {
		return Config{}, err
	} else if ok {
		cfg.OutboxInterval = time.Duration(seconds) * time.Second
	}
	if size, ok, err := positiveInt("OUTBOX_BATCH_SIZE"); err != nil {
		return Config{}, err
	} else if ok {
		cfg.OutboxBatchSize = size
	}
	if limit, ok, err := positiveInt("RECENT_ORDERS_LIMIT"); err != nil {
		return Config{}, err
	} else if ok {
		cfg.RecentOrdersLimit = limit
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func positiveInt(key string) (int, bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, true, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
