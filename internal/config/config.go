package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/omega-events/omega-backend/pkg/config"
	"github.com/omega-events/omega-backend/pkg/database"
	"github.com/omega-events/omega-backend/pkg/tracing"
)

// Config holds all service configuration, loaded from the environment.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8084"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	Postgres database.PostgresConfig
	Redis    database.RedisConfig
	Tracing  tracing.Config

	KafkaBrokers     []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	KafkaRefundTopic string   `env:"KAFKA_REFUND_TOPIC" envDefault:"omega.refunds"`

	JWTSecret    string `env:"JWT_SECRET,notEmpty"`
	StripeAPIKey string `env:"STRIPE_API_KEY,notEmpty"`

	// AdminAllowedEmails is the static allow-list consulted before the
	// profile role flag when authorizing admin operations.
	AdminAllowedEmails []string `env:"ADMIN_ALLOWED_EMAILS" envSeparator:","`

	CORSAllowedOrigin string `env:"CORS_ALLOWED_ORIGIN" envDefault:"*"`

	AdminRateLimitRPS   float64 `env:"ADMIN_RATE_LIMIT_RPS" envDefault:"5"`
	AdminRateLimitBurst int     `env:"ADMIN_RATE_LIMIT_BURST" envDefault:"10"`

	RoleCacheTTL time.Duration `env:"ROLE_CACHE_TTL" envDefault:"5m"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether the service runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
