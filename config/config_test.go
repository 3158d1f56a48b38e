package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	def := Default()
	if cfg.Cache != def.Cache {
		t.Errorf("expected default cache config %+v, got %+v", def.Cache, cfg.Cache)
	}
	if cfg.DefaultTTL != def.DefaultTTL {
		t.Errorf("expected default TTL %v, got %v", def.DefaultTTL, cfg.DefaultTTL)
	}
	if cfg.Redis.Enabled {
		t.Error("expected redis to be disabled by default")
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("expected sqlite driver, got %q", cfg.Database.Driver)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DISPATCH_CACHE_TTL", "1h")
	t.Setenv("DISPATCH_CACHE_DEFAULT_TTL", "90s")
	t.Setenv("DISPATCH_CACHE_CAPACITY", "42")
	t.Setenv("DISPATCH_CACHE_SINGLE_FLIGHT", "true")
	t.Setenv("DISPATCH_REDIS_ENABLED", "true")
	t.Setenv("DISPATCH_REDIS_ADDR", "cache:6379")
	t.Setenv("DISPATCH_REDIS_DB", "2")
	t.Setenv("DISPATCH_DATABASE_DRIVER", "Postgres")
	t.Setenv("DISPATCH_DATABASE_DSN", "postgres://app@db/catalog?sslmode=disable")
	t.Setenv("DISPATCH_LOGGING_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Cache.TTL != time.Hour || cfg.DefaultTTL != 90*time.Second {
		t.Errorf("unexpected TTLs: cache %v default %v", cfg.Cache.TTL, cfg.DefaultTTL)
	}
	if cfg.Cache.Capacity != 42 {
		t.Errorf("expected capacity 42, got %d", cfg.Cache.Capacity)
	}
	if !cfg.SingleFlight {
		t.Error("expected single flight to be enabled")
	}
	if !cfg.Redis.Enabled || cfg.Redis.Addr != "cache:6379" || cfg.Redis.DB != 2 {
		t.Errorf("unexpected redis config: %+v", cfg.Redis)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("expected driver to be normalised, got %q", cfg.Database.Driver)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected json logging, got %q", cfg.Logging.Format)
	}

	opts := cfg.RedisOptions()
	if opts.DefaultTTL != 90*time.Second || opts.Namespace == "" {
		t.Errorf("unexpected redis options: %+v", opts)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("DISPATCH_LOGGING_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("DISPATCH_LOGGING_LEVEL") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level from env file, got %q", cfg.Logging.Level)
	}
}

func TestLoad_MissingEnvFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("expected error for missing env file")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("DISPATCH_DATABASE_DRIVER", "oracle")
	t.Setenv("DISPATCH_LOGGING_LEVEL", "loud")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, field := range []string{"Database.Driver", "Logging.Level"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("expected error to mention %s, got %v", field, err)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{name: "zero capacity", modify: func(c *Config) { c.Cache.Capacity = 0 }, field: "Capacity"},
		{name: "zero default ttl", modify: func(c *Config) { c.DefaultTTL = 0 }, field: "DefaultTTL"},
		{name: "redis without addr", modify: func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }, field: "Redis.Addr"},
		{name: "redis without namespace", modify: func(c *Config) { c.Redis.Enabled = true; c.Redis.Namespace = "" }, field: "Namespace"},
		{name: "redis negative db", modify: func(c *Config) { c.Redis.Enabled = true; c.Redis.DB = -1 }, field: "Redis.DB"},
		{name: "empty dsn", modify: func(c *Config) { c.Database.DSN = " " }, field: "Database.DSN"},
		{name: "unknown format", modify: func(c *Config) { c.Logging.Format = "xml" }, field: "Logging.Format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("expected error for field %s, got %v", tt.field, err)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("expected defaults to be valid, got %v", err)
	}
}
