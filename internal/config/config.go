package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Mallowslabby/shopee/internal/domain"
	pkgconfig "github.com/Mallowslabby/shopee/pkg/config"
	"github.com/Mallowslabby/shopee/pkg/database"
)

// Config holds all configuration for the wishlist service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"WISHLIST_HTTP_PORT" envDefault:"8007"`

	// Redis session store
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Session TTL in hours (default: 7 days)
	SessionTTLHours int `env:"SESSION_TTL_HOURS" envDefault:"168"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Postgres (durable wishlist store)
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"shopee"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"shopee_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"shopee"`
	PostgresSSL  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// Durable table name
	StoreTable string `env:"WISHLIST_STORE_TABLE" envDefault:"wishlist_store"`

	// Default tax rate percentage applied to added items
	DefaultTaxRate float64 `env:"WISHLIST_TAX_RATE" envDefault:"0"`

	// Number formatting defaults
	FormatDecimals  int    `env:"WISHLIST_FORMAT_DECIMALS" envDefault:"2"`
	FormatPoint     string `env:"WISHLIST_FORMAT_POINT" envDefault:"."`
	FormatThousands string `env:"WISHLIST_FORMAT_THOUSANDS" envDefault:","`

	// Model type tags items may be associated with
	ModelTypes []string `env:"WISHLIST_MODEL_TYPES" envDefault:"product" envSeparator:","`

	// Catalog service (Buyable source)
	CatalogBaseURL string `env:"CATALOG_BASE_URL" envDefault:"http://localhost:8001"`

	// Tracing
	TracingEnabled    bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint   string  `env:"TRACING_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TracingSampleRate float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load wishlist config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.DefaultTaxRate < 0 {
		return fmt.Errorf("invalid tax rate: %f", c.DefaultTaxRate)
	}
	if c.FormatDecimals < 0 {
		return fmt.Errorf("invalid format decimals: %d", c.FormatDecimals)
	}
	return nil
}

// SessionTTL returns the session TTL as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// TaxRate returns the default tax rate as a decimal.
func (c *Config) TaxRate() decimal.Decimal {
	return decimal.NewFromFloat(c.DefaultTaxRate)
}

// NumberFormat returns the configured formatting defaults.
func (c *Config) NumberFormat() domain.NumberFormat {
	return domain.NumberFormat{
		Decimals:  c.FormatDecimals,
		Point:     c.FormatPoint,
		Thousands: c.FormatThousands,
	}
}

// Postgres returns the connection pool configuration.
func (c *Config) Postgres() database.PostgresConfig {
	cfg := database.DefaultPostgresConfig()
	cfg.Host = c.PostgresHost
	cfg.Port = c.PostgresPort
	cfg.User = c.PostgresUser
	cfg.Password = c.PostgresPass
	cfg.DBName = c.PostgresDB
	cfg.SSLMode = c.PostgresSSL
	return cfg
}

// Redis returns the Redis client configuration.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPass,
		DB:       c.RedisDB,
	}
}
