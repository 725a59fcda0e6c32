// Package config loads process configuration from the environment, with an
// optional .env file in the working directory.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/joao-fontenele/retail-ledger/internal/auth"
	"github.com/joao-fontenele/retail-ledger/internal/store"
)

type Config struct {
	Env         string `env:"ENV, default=development"`
	ServiceName string `env:"SERVICE_NAME, default=retail-ledger"`

	Log       LogConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Ops       OpsConfig
	Telemetry TelemetryConfig
	Kafka     KafkaConfig
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL, default=info"`
	Format string `env:"LOG_FORMAT, default=json"`
}

type DatabaseConfig struct {
	Driver      string `env:"DB_DRIVER, default=sqlite"`
	SQLitePath  string `env:"SQLITE_PATH, default=retail.db"`
	PostgresURL string `env:"POSTGRES_URL"`
}

type AuthConfig struct {
	PasswordScheme string `env:"PASSWORD_SCHEME, default=plain"`
	AdminUsername  string `env:"ADMIN_USERNAME, default=admin"`
	AdminPassword  string `env:"ADMIN_PASSWORD, default=admin123"`
}

type OpsConfig struct {
	Addr string `env:"OPS_ADDR"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS"`
	Topic   string   `env:"KAFKA_TOPIC, default=order.placed"`
	GroupID string   `env:"KAFKA_GROUP_ID, default=receipts"`
}

// Load reads .env when present, then the process environment. Variables
// already set in the environment win over .env.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	dialect, err := store.ParseDialect(c.Database.Driver)
	if err != nil {
		return fmt.Errorf("DB_DRIVER: %w", err)
	}
	if dialect == store.Postgres && c.Database.PostgresURL == "" {
		return errors.New("POSTGRES_URL is required when DB_DRIVER is postgres")
	}
	if dialect == store.SQLite && c.Database.SQLitePath == "" {
		return errors.New("SQLITE_PATH must not be empty")
	}
	if _, err := auth.FromName(c.Auth.PasswordScheme); err != nil {
		return fmt.Errorf("PASSWORD_SCHEME: %w", err)
	}
	if c.Auth.AdminUsername == "" || c.Auth.AdminPassword == "" {
		return errors.New("ADMIN_USERNAME and ADMIN_PASSWORD must not be empty")
	}
	return nil
}

func (c *Config) Dialect() store.Dialect {
	d, _ := store.ParseDialect(c.Database.Driver)
	return d
}

// DatabaseSource is the SQLite path or the Postgres URL, depending on the
// driver.
func (c *Config) DatabaseSource() string {
	if c.Dialect() == store.Postgres {
		return c.Database.PostgresURL
	}
	return c.Database.SQLitePath
}

func (c *Config) Hasher() auth.Hasher {
	h, _ := auth.FromName(c.Auth.PasswordScheme)
	return h
}

func (c *Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}
