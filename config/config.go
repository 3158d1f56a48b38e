// Package config loads the dispatcher configuration from the environment.
//
// Values are read from variables prefixed with DISPATCH_, for example
// DISPATCH_CACHE_TTL=10m or DISPATCH_REDIS_ENABLED=true. A .env file in the
// working directory is loaded first when present; variables already set in
// the environment win over the file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-dispatch/cache"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "DISPATCH"

// ConfigError reports an invalid configuration field.
type ConfigError = cache.ConfigError

// Config is the full runtime configuration.
type Config struct {
	Cache cache.Config
	// DefaultTTL is the lifetime of entries written by the caching behavior.
	DefaultTTL time.Duration
	// SingleFlight collapses concurrent misses for the same key.
	SingleFlight bool
	Redis        Redis
	Database     Database
	Logging      Logging
}

// Redis selects and configures the distributed store.
type Redis struct {
	Enabled    bool
	Addr       string
	Password   string
	DB         int
	Namespace  string
	MaxRetries int
}

// Database selects the bun dialect and connection.
type Database struct {
	// Driver is "sqlite" or "postgres".
	Driver string
	DSN    string
}

// Logging configures the slog handler.
type Logging struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Format is "text" or "json".
	Format string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	redis := cache.DefaultRedisOptions()
	return Config{
		Cache:      cache.DefaultConfig(),
		DefaultTTL: 10 * time.Minute,
		Redis: Redis{
			Addr:       "localhost:6379",
			Namespace:  redis.Namespace,
			MaxRetries: redis.MaxRetries,
		},
		Database: Database{
			Driver: "sqlite",
			DSN:    "file::memory:?_foreign_keys=on",
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads envFiles, or .env when none are given and it exists, and then
// the DISPATCH_ environment variables on top of Default.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			envFiles = []string{".env"}
		}
	}
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return Config{}, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	v := newViper()
	cfg := Config{
		Cache: cache.Config{
			Capacity:           v.GetInt("cache.capacity"),
			NumShards:          v.GetInt("cache.shards"),
			TTL:                v.GetDuration("cache.ttl"),
			EvictionPercentage: v.GetInt("cache.eviction_percentage"),
			EvictionInterval:   v.GetDuration("cache.eviction_interval"),
		},
		DefaultTTL:   v.GetDuration("cache.default_ttl"),
		SingleFlight: v.GetBool("cache.single_flight"),
		Redis: Redis{
			Enabled:    v.GetBool("redis.enabled"),
			Addr:       v.GetString("redis.addr"),
			Password:   v.GetString("redis.password"),
			DB:         v.GetInt("redis.db"),
			Namespace:  v.GetString("redis.namespace"),
			MaxRetries: v.GetInt("redis.max_retries"),
		},
		Database: Database{
			Driver: strings.ToLower(v.GetString("database.driver")),
			DSN:    v.GetString("database.dsn"),
		},
		Logging: Logging{
			Level:  strings.ToLower(v.GetString("logging.level")),
			Format: strings.ToLower(v.GetString("logging.format")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	def := Default()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("cache.capacity", def.Cache.Capacity)
	v.SetDefault("cache.shards", def.Cache.NumShards)
	v.SetDefault("cache.ttl", def.Cache.TTL)
	v.SetDefault("cache.eviction_percentage", def.Cache.EvictionPercentage)
	v.SetDefault("cache.eviction_interval", def.Cache.EvictionInterval)
	v.SetDefault("cache.default_ttl", def.DefaultTTL)
	v.SetDefault("cache.single_flight", def.SingleFlight)
	v.SetDefault("redis.enabled", def.Redis.Enabled)
	v.SetDefault("redis.addr", def.Redis.Addr)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", def.Redis.DB)
	v.SetDefault("redis.namespace", def.Redis.Namespace)
	v.SetDefault("redis.max_retries", def.Redis.MaxRetries)
	v.SetDefault("database.driver", def.Database.Driver)
	v.SetDefault("database.dsn", def.Database.DSN)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	return v
}

// RedisOptions returns the store options for the distributed backend.
func (c Config) RedisOptions() cache.RedisOptions {
	return cache.RedisOptions{
		Namespace:  c.Redis.Namespace,
		DefaultTTL: c.DefaultTTL,
		MaxRetries: c.Redis.MaxRetries,
	}
}

// Validate checks every section and joins the problems found.
func (c Config) Validate() error {
	var errs []error

	if err := c.Cache.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.DefaultTTL <= 0 {
		errs = append(errs, &ConfigError{Field: "DefaultTTL", Message: "must be greater than 0"})
	}

	if c.Redis.Enabled {
		if strings.TrimSpace(c.Redis.Addr) == "" {
			errs = append(errs, &ConfigError{Field: "Redis.Addr", Message: "is required when redis is enabled"})
		}
		if c.Redis.DB < 0 {
			errs = append(errs, &ConfigError{Field: "Redis.DB", Message: "must be non-negative"})
		}
		if err := c.RedisOptions().Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, &ConfigError{Field: "Database.Driver", Message: "must be sqlite or postgres"})
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		errs = append(errs, &ConfigError{Field: "Database.DSN", Message: "is required"})
	}

	if _, err := c.Logging.SlogLevel(); err != nil {
		errs = append(errs, &ConfigError{Field: "Logging.Level", Message: err.Error()})
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, &ConfigError{Field: "Logging.Format", Message: "must be text or json"})
	}

	return errors.Join(errs...)
}

// SlogLevel parses Level.
func (l Logging) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown level %q", l.Level)
	}
	return level, nil
}
