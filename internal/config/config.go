package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config carries every resource name and tunable the lambdas need.
// Defaults match the LocalStack provisioning; any field can be overridden
// with a PEDIDOS_-prefixed environment variable (e.g. PEDIDOS_ORDERS_TABLE).
type Config struct {
	OrdersTable    string        `koanf:"orders_table"`
	QueueURL       string        `koanf:"queue_url"`
	ReceiptsBucket string        `koanf:"receipts_bucket"`
	TopicARN       string        `koanf:"topic_arn"`
	ListLimit      int           `koanf:"list_limit"`
	SweepAfter     time.Duration `koanf:"sweep_after"`
}

// Default returns the baseline configuration before env overrides.
func Default() Config {
	return Config{
		OrdersTable:    "Pedidos",
		QueueURL:       "http://localhost:4566/000000000000/pedidos-queue",
		ReceiptsBucket: "pedidos-comprovantes",
		TopicARN:       "arn:aws:sns:us-east-1:000000000000:PedidosConcluidos",
		ListLimit:      50,
		SweepAfter:     15 * time.Minute,
	}
}

// Load builds the configuration from defaults plus environment overrides.
func Load() (Config, error) {
	k := koanf.New(".")

	// environment variables override defaults (prefix PEDIDOS_)
	// e.g. PEDIDOS_ORDERS_TABLE, PEDIDOS_QUEUE_URL
	if err := k.Load(env.Provider("PEDIDOS_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "PEDIDOS_"))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.OrdersTable == "" {
		return fmt.Errorf("orders_table required")
	}
	if c.QueueURL == "" {
		return fmt.Errorf("queue_url required")
	}
	if c.ListLimit <= 0 {
		return fmt.Errorf("list_limit must be positive")
	}
	return nil
}
