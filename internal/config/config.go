package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
)

// Config is read from the environment once at startup.
type Config struct {
	NetAddr          string        `env:"RUN_ADDRESS" envDefault:":8080"`
	RunLocal         bool          `env:"RUN_LOCAL" envDefault:"false"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	StorageBackend   string        `env:"STORAGE_BACKEND" envDefault:"memory"`
	SimulatedLatency time.Duration `env:"SIMULATED_LATENCY" envDefault:"0s"`
	DefaultPageSize  int           `env:"DEFAULT_PAGE_SIZE" envDefault:"10"`
	SeedData         bool          `env:"SEED_DATA" envDefault:"true"`

	AWSRegion           string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSEndpointOverride string `env:"AWS_ENDPOINT_OVERRIDE"`

	CustomersTable   string        `env:"CUSTOMERS_TABLE" envDefault:"customers"`
	ProductsTable    string        `env:"PRODUCTS_TABLE" envDefault:"products"`
	OrdersTable      string        `env:"ORDERS_TABLE" envDefault:"orders"`
	CountersTable    string        `env:"COUNTERS_TABLE" envDefault:"counters"`
	SettingsTable    string        `env:"SETTINGS_TABLE" envDefault:"settings"`
	IdempotencyTable string        `env:"IDEMPOTENCY_TABLE" envDefault:"idempotency"`
	IdempotencyTTL   time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"48h"`

	QueueURL         string `env:"ORDERS_QUEUE_URL"`
	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"SalesOrders"`
}

// Load parses the environment into a Config and checks the values that
// would otherwise fail later in surprising ways.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("error while parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StorageBackend {
	case BackendMemory, BackendDynamoDB:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", BackendMemory, BackendDynamoDB, c.StorageBackend)
	}
	if c.DefaultPageSize <= 0 {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be positive, got %d", c.DefaultPageSize)
	}
	if c.SimulatedLatency < 0 {
		return fmt.Errorf("SIMULATED_LATENCY must not be negative, got %s", c.SimulatedLatency)
	}
	return nil
}
