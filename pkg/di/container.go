package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goliatone/go-dispatch/behavior"
	"github.com/goliatone/go-dispatch/cache"
	"github.com/goliatone/go-dispatch/catalog"
	"github.com/goliatone/go-dispatch/config"
	"github.com/goliatone/go-dispatch/dispatcher"
	"github.com/goliatone/go-dispatch/events"
	"github.com/goliatone/go-dispatch/identity"
	"github.com/goliatone/go-dispatch/uow"
	"github.com/goliatone/go-dispatch/validation"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Container wires the dispatcher, its behaviors and the catalog feature from
// a config.Config. Every component is built once, in NewContainer.
type Container struct {
	config     config.Config
	logger     *slog.Logger
	db         *bun.DB
	ownsDB     bool
	redis      redis.UniversalClient
	ownsRedis  bool
	store      cache.Store
	cache      *cache.ReadThrough
	events     *events.Dispatcher
	uow        *uow.Factory
	rules      *validation.Registry
	registry   *dispatcher.Registry
	dispatcher *dispatcher.Dispatcher
	catalog    *catalog.Module
}

type options struct {
	logger    *slog.Logger
	logOutput io.Writer
	db        *bun.DB
	redis     redis.UniversalClient
	identity  identity.Accessor
}

// Option overrides a component NewContainer would otherwise build itself.
type Option func(*options)

// WithLogger uses logger instead of one built from config.Logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithLogOutput sets where the logger built from config.Logging writes.
// Defaults to os.Stderr.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOutput = w }
}

// WithDB uses an existing database. The container does not close it.
func WithDB(db *bun.DB) Option {
	return func(o *options) { o.db = db }
}

// WithRedisClient uses an existing client for the distributed store when
// config.Redis.Enabled is set. The container does not close it.
func WithRedisClient(client redis.UniversalClient) Option {
	return func(o *options) { o.redis = client }
}

// WithIdentity sets the accessor used for audit stamps and tenant assignment.
func WithIdentity(accessor identity.Accessor) Option {
	return func(o *options) { o.identity = accessor }
}

// NewContainer validates cfg and builds every component.
func NewContainer(ctx context.Context, cfg config.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		var err error
		if logger, err = NewLogger(cfg.Logging, o.logOutput); err != nil {
			return nil, err
		}
	}

	c := &Container{config: cfg, logger: logger}

	if err := c.openDatabase(o.db); err != nil {
		return nil, err
	}
	if err := c.openStore(ctx, o.redis); err != nil {
		_ = c.Close()
		return nil, err
	}

	rtOpts := []cache.Option{cache.WithTTL(cfg.DefaultTTL), cache.WithLogger(logger)}
	if cfg.SingleFlight {
		rtOpts = append(rtOpts, cache.WithSingleFlight())
	}
	c.cache = cache.NewReadThrough(c.store, cache.NewCodec(), rtOpts...)

	c.events = events.NewDispatcher(logger)
	c.uow = uow.NewFactory(c.db, c.events, o.identity, uow.WithLogger(logger))
	c.rules = validation.NewRegistry()
	c.registry = dispatcher.NewRegistry()

	c.catalog = catalog.NewModule(c.uow, logger)
	c.catalog.SubscribeEventHandlers(c.events)
	catalog.RegisterRules(c.rules)
	if err := c.catalog.Register(c.registry); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.dispatcher = dispatcher.New(c.registry,
		behavior.NewLogging(logger),
		behavior.NewValidation(c.rules),
		behavior.NewTenancy(o.identity),
		behavior.NewCaching(c.cache, logger),
	)
	if err := c.dispatcher.Verify(catalog.Prototypes()...); err != nil {
		_ = c.Close()
		return nil, err
	}

	return c, nil
}

// NewContainerWithDefaults builds a container from config.Default.
func NewContainerWithDefaults(ctx context.Context, opts ...Option) (*Container, error) {
	return NewContainer(ctx, config.Default(), opts...)
}

// NewLogger builds a slog logger from cfg writing to w.
func NewLogger(cfg config.Logging, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
}

func (c *Container) openDatabase(existing *bun.DB) error {
	if existing != nil {
		c.db = existing
		return nil
	}

	dsn := c.config.Database.DSN
	switch c.config.Database.Driver {
	case "postgres":
		sqldb, err := sql.Open("postgres", dsn)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		c.db = bun.NewDB(sqldb, pgdialect.New())
	default:
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		if strings.Contains(dsn, ":memory:") {
			sqldb.SetMaxOpenConns(1)
		}
		c.db = bun.NewDB(sqldb, sqlitedialect.New())
	}
	c.ownsDB = true
	return nil
}

func (c *Container) openStore(ctx context.Context, client redis.UniversalClient) error {
	if !c.config.Redis.Enabled {
		store, err := cache.NewMemoryStore(c.config.Cache)
		if err != nil {
			return err
		}
		c.store = store
		return nil
	}

	if client == nil {
		client = redis.NewClient(&redis.Options{
			Addr:       c.config.Redis.Addr,
			Password:   c.config.Redis.Password,
			DB:         c.config.Redis.DB,
			MaxRetries: c.config.Redis.MaxRetries,
		})
		c.ownsRedis = true
	}
	c.redis = client

	if err := client.Ping(ctx).Err(); err != nil {
		c.logger.WarnContext(ctx, "redis is not reachable, cache reads will fall through",
			slog.String("addr", c.config.Redis.Addr), slog.Any("error", err))
	}

	store, err := cache.NewRedisStore(client, c.config.RedisOptions())
	if err != nil {
		return err
	}
	c.store = store
	return nil
}

// CreateSchema creates the catalog tables.
func (c *Container) CreateSchema(ctx context.Context) error {
	return catalog.CreateSchema(ctx, c.db)
}

// Dispatcher returns the request dispatcher.
func (c *Container) Dispatcher() *dispatcher.Dispatcher { return c.dispatcher }

// Registry returns the handler registry.
func (c *Container) Registry() *dispatcher.Registry { return c.registry }

// Catalog returns the catalog module.
func (c *Container) Catalog() *catalog.Module { return c.catalog }

// Cache returns the read-through cache used by the caching behavior.
func (c *Container) Cache() *cache.ReadThrough { return c.cache }

// Store returns the tag store selected by config.
func (c *Container) Store() cache.Store { return c.store }

// Events returns the domain event dispatcher.
func (c *Container) Events() *events.Dispatcher { return c.events }

// UnitOfWork returns the unit of work factory.
func (c *Container) UnitOfWork() *uow.Factory { return c.uow }

// Rules returns the validation registry.
func (c *Container) Rules() *validation.Registry { return c.rules }

// DB returns the database.
func (c *Container) DB() *bun.DB { return c.db }

// Logger returns the container logger.
func (c *Container) Logger() *slog.Logger { return c.logger }

// Config returns the configuration the container was built from.
func (c *Container) Config() config.Config { return c.config }

// Close releases the database and redis client when the container opened them.
func (c *Container) Close() error {
	var errs []error
	if c.ownsRedis && c.redis != nil {
		errs = append(errs, c.redis.Close())
		c.redis = nil
	}
	if c.ownsDB && c.db != nil {
		errs = append(errs, c.db.Close())
		c.db = nil
	}
	return errors.Join(errs...)
}
