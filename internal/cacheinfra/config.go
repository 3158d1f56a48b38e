package cacheinfra

import (
	"time"

	"github.com/viccon/sturdyc"
)

// Config holds the configuration for the sturdyc backed tag store.
type Config struct {
	// Capacity defines the maximum number of entries that the cache can store.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Must be greater than 0. Default: 256
	NumShards int

	// TTL is the upper bound for any entry lifetime. Entries stored with a
	// longer TTL are still evicted by sturdyc once this elapses.
	// Must be greater than 0.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the cache reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often the cache checks for expired entries.
	// Zero value uses the default interval.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		TTL:                30 * time.Minute,
		EvictionPercentage: 10,
		EvictionInterval:   0,
	}
}

// ToSturdycOptions converts the optional parts of Config to sturdyc options.
// Capacity, NumShards, TTL and EvictionPercentage go to sturdyc.New directly.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}

	return nil
}

// RedisOptions configures the redis backed tag store.
type RedisOptions struct {
	// Namespace prefixes every key written by the store.
	Namespace string

	// DefaultTTL applies when Set is called with a non-positive ttl.
	DefaultTTL time.Duration

	// MaxRetries bounds optimistic transaction retries on WATCH conflicts.
	MaxRetries int
}

// DefaultRedisOptions returns options used when none are provided.
func DefaultRedisOptions() RedisOptions {
	return RedisOptions{
		Namespace:  "dispatch",
		DefaultTTL: 30 * time.Minute,
		MaxRetries: 8,
	}
}

// Validate checks if the redis options are usable.
func (o RedisOptions) Validate() error {
	if o.Namespace == "" {
		return &ConfigError{Field: "Namespace", Message: "cannot be empty"}
	}
	if o.DefaultTTL <= 0 {
		return &ConfigError{Field: "DefaultTTL", Message: "must be greater than 0"}
	}
	if o.MaxRetries <= 0 {
		return &ConfigError{Field: "MaxRetries", Message: "must be greater than 0"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}
