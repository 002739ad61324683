// Package config loads the service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/nguyenhoangkha03/salesdesk/pkg/config"
	"github.com/nguyenhoangkha03/salesdesk/pkg/database"
	"github.com/nguyenhoangkha03/salesdesk/pkg/tracing"
)

// Config holds all configuration for the salesdesk service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// Auth
	JWTSecret string `env:"JWT_SECRET,required"`

	// Cart behaviour
	CartTTL            time.Duration `env:"CART_TTL" envDefault:"24h"`
	DefaultShippingFee int64         `env:"DEFAULT_SHIPPING_FEE" envDefault:"0"`

	// Origins the browser desk UI is served from
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Rate limiting (requests per second per client IP)
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// Upstream collaborators
	CatalogBaseURL  string        `env:"CATALOG_BASE_URL" envDefault:"http://localhost:8081"`
	CustomerBaseURL string        `env:"CUSTOMER_BASE_URL" envDefault:"http://localhost:8082"`
	OrderBaseURL    string        `env:"ORDER_BASE_URL" envDefault:"http://localhost:8083"`
	ClientTimeout   time.Duration `env:"CLIENT_TIMEOUT" envDefault:"10s"`
	ClientRetries   int           `env:"CLIENT_RETRIES" envDefault:"3"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	Postgres database.PostgresConfig
	Redis    database.RedisConfig
	Tracing  tracing.Config
}

// Load reads configuration from environment variables and checks invariants.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := config.Parse(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.CartTTL <= 0 {
		return fmt.Errorf("cart TTL must be positive: %s", c.CartTTL)
	}
	if c.DefaultShippingFee < 0 {
		return fmt.Errorf("default shipping fee must not be negative: %d", c.DefaultShippingFee)
	}
	if c.RateLimitRPS < 1 || c.RateLimitBurst < 1 {
		return fmt.Errorf("rate limit rps/burst must be positive: %d/%d", c.RateLimitRPS, c.RateLimitBurst)
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("at least one kafka broker required")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
