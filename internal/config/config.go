package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds service configuration.
type Config struct {
	Database Database `mapstructure:"database"`
	Server   Server   `mapstructure:"server"`
	Log      Log      `mapstructure:"log"`
	Code     Code     `mapstructure:"code"`
	Metrics  Metrics  `mapstructure:"metrics"`
}

// Database selects and tunes the backing store.
type Database struct {
	Driver       string        `mapstructure:"driver"`
	URL          string        `mapstructure:"url"`
	MaxConns     int           `mapstructure:"max_conns"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

type Server struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

// Code configures the snowflake node that issues definition codes.
type Code struct {
	NodeID int64 `mapstructure:"node_id"`
}

type Metrics struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load reads configuration from the optional YAML file at path, then from
// environment variables such as DATABASE_URL or LOG_LEVEL.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.query_timeout", 5*time.Second)
	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("code.node_id", 1)
	v.SetDefault("metrics.enabled", true)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	if cfg.Database.URL == "" {
		switch cfg.Database.Driver {
		case "postgres", "postgresql", "pgx":
			cfg.Database.URL = postgresURL()
		case "sqlite", "sqlite3":
			cfg.Database.URL = "registry.db"
		default:
			return nil, fmt.Errorf("DATABASE_URL is required for driver %q", cfg.Database.Driver)
		}
	}
	return &cfg, nil
}

func postgresURL() string {
	user := getenv("POSTGRES_USER", "registry")
	pass := getenv("POSTGRES_PASSWORD", "registry_pass")
	db := getenv("POSTGRES_DB", "registry")
	host := getenv("POSTGRES_HOST", "localhost")
	port := getenv("POSTGRES_PORT", "5432")
	sslmode := getenv("DATABASE_SSLMODE", "disable")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, sslmode)
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}
