package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/2beens/regain/internal/training"
)

const (
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// postgres
	PostgresHost     string `toml:"postgres_host"`
	PostgresPort     string `toml:"postgres_port"`
	PostgresDBName   string `toml:"postgres_db_name"`
	PostgresUser     string `toml:"postgres_user"`
	PostgresMaxConns int32  `toml:"postgres_max_conns"`

	// profiles and training systems: redis | postgres | memory
	StoreBackend string `toml:"store_backend"`
	ProfileLRU   int    `toml:"profile_lru_size"`

	// exercise catalog
	CatalogPaths              []string `toml:"catalog_paths"`
	CatalogCacheExpireSeconds int      `toml:"catalog_cache_expire_seconds"`
	ObjectStorageEndpoint     string   `toml:"object_storage_endpoint"`
	ObjectStorageUseSSL       bool     `toml:"object_storage_use_ssl"`
	// alternatives results, kept as long as the catalog document
	AlternativesCacheSizeMB int `toml:"alternatives_cache_size_mb"`

	AllowedOrigins            []string `toml:"allowed_origins"`
	GenerationRateLimitPerMin int      `toml:"generation_rate_limit_per_min"`
	// RandomSeed makes plan generation reproducible when not 0.
	RandomSeed  int64               `toml:"random_seed"`
	DefaultWeek training.WeekConfig `toml:"default_week"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}

	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing", env)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config for env [%s]: %w", env, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 {
		return errors.New("port not set")
	}
	if len(c.CatalogPaths) == 0 {
		return errors.New("no catalog paths")
	}
	switch c.StoreBackend {
	case StoreRedis, StorePostgres, StoreMemory:
	case "":
		c.StoreBackend = StoreRedis
	default:
		return fmt.Errorf("unknown store backend: %s", c.StoreBackend)
	}
	if c.GenerationRateLimitPerMin <= 0 {
		c.GenerationRateLimitPerMin = 60
	}
	return nil
}
