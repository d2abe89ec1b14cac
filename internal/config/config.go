package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/governance"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverMemory   = "memory"

	AuthModeRedis = "redis"
	AuthModeJWT   = "jwt"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogFormatJSON bool   `toml:"log_format_json"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// storage
	StoreDriver    string `toml:"store_driver"`
	SQLitePath     string `toml:"sqlite_path"`
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// auth & submissions
	AuthMode             string        `toml:"auth_mode"`
	TokenCacheTTL        time.Duration `toml:"token_cache_ttl"`
	TokenCacheSizeMB     int           `toml:"token_cache_size_mb"`
	ScoreRateLimitPerMin int           `toml:"score_rate_limit_per_min"`
	IdempotencyTTL       time.Duration `toml:"idempotency_ttl"`
	AllowedOrigins       []string      `toml:"allowed_origins"`
	// governance overrides; unset values keep the defaults
	Governance governance.Thresholds `toml:"governance"`
}

// Secrets never live in the config file.
type Secrets struct {
	RedisPassword    string `env:"MPI_REDIS_PASS"`
	PostgresPassword string `env:"MPI_POSTGRES_PASS"`
	JWTSecret        string `env:"MPI_JWT_SECRET"`
	SentryDSN        string `env:"SENTRY_DSN"`
	HoneycombEnabled bool   `env:"HONEYCOMB_ENABLED"`
	HoneycombAPIKey  string `env:"HONEYCOMB_API_KEY"`
	OtelServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"mpi-scoring"`
}

type Toml struct {
	Development *Config
	Production  *Config
	Dockerdev   *Config
}

func (t *Toml) Get(environment string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(environment) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	case "ddev", "dockerdev":
		cfg = t.Dockerdev
	default:
		return nil, fmt.Errorf("unknown env: %s", environment)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config for env: %s", environment)
	}
	return cfg, nil
}

// Load reads the TOML file at path and returns the validated config of environment.
func Load(environment, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	cfg, err := t.Get(environment)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", environment, err)
	}
	return cfg, nil
}

func LoadSecrets() (Secrets, error) {
	secrets, err := env.ParseAs[Secrets]()
	if err != nil {
		return Secrets{}, fmt.Errorf("parse env: %w", err)
	}
	return secrets, nil
}

func (c *Config) applyDefaults() {
	if c.StoreDriver == "" {
		c.StoreDriver = StoreDriverPostgres
	}
	if c.AuthMode == "" {
		c.AuthMode = AuthModeRedis
	}
	if c.TokenCacheSizeMB <= 0 {
		c.TokenCacheSizeMB = 10
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	c.Governance = c.Governance.WithDefaults()
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 {
		errs = append(errs, fmt.Errorf("port must be positive, got %d", c.Port))
	}
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.PostgresHost == "" || c.PostgresDBName == "" {
			errs = append(errs, errors.New("postgres_host and postgres_db_name are required for the postgres store"))
		}
	case StoreDriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite_path is required for the sqlite store"))
		}
	case StoreDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store_driver: %s", c.StoreDriver))
	}
	switch c.AuthMode {
	case AuthModeRedis:
		if c.RedisHost == "" {
			errs = append(errs, errors.New("redis_host is required for the redis auth_mode"))
		}
	case AuthModeJWT:
	default:
		errs = append(errs, fmt.Errorf("unknown auth_mode: %s", c.AuthMode))
	}
	if c.ScoreRateLimitPerMin < 0 {
		errs = append(errs, errors.New("score_rate_limit_per_min cannot be negative"))
	}
	return errors.Join(errs...)
}
