package cache

import (
	"time"

	"github.com/goliatone/go-dispatch/internal/cacheinfra"
)

// Config exposes in-process store configuration options.
type Config struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// RedisOptions configures the distributed store.
type RedisOptions struct {
	Namespace  string
	DefaultTTL time.Duration
	MaxRetries int
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// DefaultRedisOptions returns the options used for the distributed store.
func DefaultRedisOptions() RedisOptions {
	opts := cacheinfra.DefaultRedisOptions()
	return RedisOptions{
		Namespace:  opts.Namespace,
		DefaultTTL: opts.DefaultTTL,
		MaxRetries: opts.MaxRetries,
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// Validate checks whether the redis options are valid.
func (o RedisOptions) Validate() error {
	return o.toInternal().Validate()
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func (o RedisOptions) toInternal() cacheinfra.RedisOptions {
	return cacheinfra.RedisOptions{
		Namespace:  o.Namespace,
		DefaultTTL: o.DefaultTTL,
		MaxRetries: o.MaxRetries,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}

// ConfigError reports an invalid configuration field.
type ConfigError = cacheinfra.ConfigError
