// Package config loads the settings used to build a dependency container.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/on-the-ground/effectdeps/config/configkeys"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. EFFECTDEPS_STORE_DSN.
const EnvPrefix = "EFFECTDEPS"

const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"

	CacheRedis     = "redis"
	CacheRistretto = "ristretto"
	CacheMemory    = "memory"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the full container configuration.
type Config struct {
	Store     StoreConfig     `mapstructure:"store" envPrefix:"STORE_"`
	Cache     CacheConfig     `mapstructure:"cache" envPrefix:"CACHE_"`
	Log       LogConfig       `mapstructure:"log" envPrefix:"LOG_"`
	Transport TransportConfig `mapstructure:"transport" envPrefix:"TRANSPORT_"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver" env:"DRIVER" envDefault:"sqlite"` // postgres | sqlite
	DSN    string `mapstructure:"dsn" env:"DSN" envDefault:":memory:"`
}

type CacheConfig struct {
	Driver      string `mapstructure:"driver" env:"DRIVER" envDefault:"memory"` // redis | ristretto | memory
	Addr        string `mapstructure:"addr" env:"ADDR"`
	Password    string `mapstructure:"password" env:"PASSWORD"`
	DB          int    `mapstructure:"db" env:"DB"`
	Shards      int    `mapstructure:"shards" env:"SHARDS" envDefault:"16"`
	NumCounters int64  `mapstructure:"num_counters" env:"NUM_COUNTERS"`
	MaxCost     int64  `mapstructure:"max_cost" env:"MAX_COST"`
}

type LogConfig struct {
	Level       string `mapstructure:"level" env:"LEVEL" envDefault:"info"`
	Development bool   `mapstructure:"development" env:"DEVELOPMENT"`
}

type TransportConfig struct {
	BaseURL   string            `mapstructure:"base_url" env:"BASE_URL"`
	Timeout   time.Duration     `mapstructure:"timeout" env:"TIMEOUT" envDefault:"30s"`
	RateLimit float64           `mapstructure:"rate_limit" env:"RATE_LIMIT"`
	Burst     int               `mapstructure:"burst" env:"BURST"`
	Headers   map[string]string `mapstructure:"headers" env:"HEADERS"`
}

// Default returns the in-memory configuration.
func Default() Config {
	return Config{
		Store:     StoreConfig{Driver: StoreSQLite, DSN: ":memory:"},
		Cache:     CacheConfig{Driver: CacheMemory, Shards: 16},
		Log:       LogConfig{Level: "info"},
		Transport: TransportConfig{Timeout: 30 * time.Second},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(configkeys.StoreDriver, d.Store.Driver)
	v.SetDefault(configkeys.StoreDSN, d.Store.DSN)
	v.SetDefault(configkeys.CacheDriver, d.Cache.Driver)
	v.SetDefault(configkeys.CacheAddr, "")
	v.SetDefault(configkeys.CachePassword, "")
	v.SetDefault(configkeys.CacheDB, 0)
	v.SetDefault(configkeys.CacheShards, d.Cache.Shards)
	v.SetDefault(configkeys.CacheNumCounters, 0)
	v.SetDefault(configkeys.CacheMaxCost, 0)
	v.SetDefault(configkeys.LogLevel, d.Log.Level)
	v.SetDefault(configkeys.LogDevelopment, false)
	v.SetDefault(configkeys.TransportBaseURL, "")
	v.SetDefault(configkeys.TransportTimeout, d.Transport.Timeout)
	v.SetDefault(configkeys.TransportRateLimit, 0.0)
	v.SetDefault(configkeys.TransportBurst, 0)
}

// Load reads the config file at path, overlaid with EFFECTDEPS_* environment
// variables. An empty path loads defaults and environment only.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, cfg.Validate()
}

// FromEnv builds the config from EFFECTDEPS_* environment variables only.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix + "_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks driver names and required fields.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case StorePostgres, StoreSQLite:
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.Store.Driver)
	}
	if strings.TrimSpace(c.Store.DSN) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidConfig, configkeys.StoreDSN)
	}
	switch c.Cache.Driver {
	case CacheRedis, CacheRistretto, CacheMemory:
	default:
		return fmt.Errorf("%w: unknown cache driver %q", ErrInvalidConfig, c.Cache.Driver)
	}
	if c.Transport.RateLimit < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, configkeys.TransportRateLimit)
	}
	return nil
}
