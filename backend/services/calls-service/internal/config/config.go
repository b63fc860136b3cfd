package config

import (
	"fmt"
	"strings"
	"time"

	libconfig "billcalls/backend/libs/config"
	"billcalls/backend/services/calls-service/internal/billing"
)

// Config defines calls service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"CALLS_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN          string `yaml:"dsn" env:"CALLS_POSTGRES_DSN" required:"true"`
		MaxOpenConns int    `yaml:"maxOpenConns" env:"CALLS_POSTGRES_MAX_OPEN_CONNS"`
		Migrate      bool   `yaml:"migrate" env:"CALLS_POSTGRES_MIGRATE"`
	} `yaml:"database"`
	Redis struct {
		Addr     string        `yaml:"addr" env:"CALLS_REDIS_ADDR"`
		Password string        `yaml:"password" env:"CALLS_REDIS_PASSWORD"`
		DB       int           `yaml:"db" env:"CALLS_REDIS_DB"`
		TTL      time.Duration `yaml:"ttl" env:"CALLS_REDIS_TTL"`
	} `yaml:"redis"`
	JWT struct {
		Secret string `yaml:"secret" env:"CALLS_JWT_SECRET"`
	} `yaml:"jwt"`
	Tariff struct {
		ReducedStart   int    `yaml:"reducedStart" env:"CALLS_TARIFF_REDUCED_START"`
		ReducedEnd     int    `yaml:"reducedEnd" env:"CALLS_TARIFF_REDUCED_END"`
		StandingCharge string `yaml:"standingCharge" env:"CALLS_TARIFF_STANDING_CHARGE"`
		PerMinuteRate  string `yaml:"perMinuteRate" env:"CALLS_TARIFF_PER_MINUTE_RATE"`
	} `yaml:"tariff"`
}

// Load reads configuration via shared helper and validates the tariff.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8085"
	cfg.Database.Migrate = true
	cfg.Redis.TTL = 24 * time.Hour
	cfg.Tariff.ReducedStart = billing.DefaultReducedStart
	cfg.Tariff.ReducedEnd = billing.DefaultReducedEnd
	cfg.Tariff.StandingCharge = billing.DefaultStandingCharge
	cfg.Tariff.PerMinuteRate = billing.DefaultPerMinuteRate

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if _, err := cfg.BillingTariff(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8085"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// BillingTariff converts the tariff section into a validated billing.Tariff.
func (c *Config) BillingTariff() (billing.Tariff, error) {
	return billing.ParseTariff(
		c.Tariff.ReducedStart,
		c.Tariff.ReducedEnd,
		strings.TrimSpace(c.Tariff.StandingCharge),
		strings.TrimSpace(c.Tariff.PerMinuteRate),
	)
}

// CacheEnabled reports whether a redis address is configured.
func (c *Config) CacheEnabled() bool {
	return strings.TrimSpace(c.Redis.Addr) != ""
}

// InvoiceCacheTTL returns ttl for cached invoice listings.
func (c *Config) InvoiceCacheTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return 24 * time.Hour
	}
	return c.Redis.TTL
}
