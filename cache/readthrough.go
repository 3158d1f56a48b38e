package cache

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is applied to entries when no TTL option is given.
const DefaultTTL = 30 * time.Minute

// ErrInvalidResultType is returned when a value does not have the requested type.
var ErrInvalidResultType = goerrors.New("cached value has unexpected type", goerrors.CategoryInternal).
	WithTextCode("INVALID_RESULT_TYPE")

// FetchFn is the function signature ReadThrough expects when fetching from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// ReadThrough fetches values from a Store, populating it from the source of
// truth on a miss. It fails open: a backend or codec failure is logged and
// the source of truth is used directly.
type ReadThrough struct {
	store  Store
	codec  Codec
	ttl    time.Duration
	logger *slog.Logger
	flight *singleflight.Group
}

// Option configures a ReadThrough.
type Option func(*ReadThrough)

// WithTTL sets the TTL used for entries written on a miss.
func WithTTL(ttl time.Duration) Option {
	return func(r *ReadThrough) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithLogger sets the logger used to report degraded cache operations.
func WithLogger(logger *slog.Logger) Option {
	return func(r *ReadThrough) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSingleFlight collapses concurrent misses for the same key into one
// fetch. Without it, concurrent misses may each call the source of truth.
func WithSingleFlight() Option {
	return func(r *ReadThrough) {
		r.flight = &singleflight.Group{}
	}
}

// NewReadThrough wires a store and codec.
func NewReadThrough(store Store, codec Codec, opts ...Option) *ReadThrough {
	r := &ReadThrough{
		store:  store,
		codec:  codec,
		ttl:    DefaultTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store returns the underlying tag store.
func (r *ReadThrough) Store() Store {
	return r.store
}

// Fetch returns the value cached under key decoded as target, or calls fetch
// and caches its result under key with tags. The boolean reports a cache hit.
func (r *ReadThrough) Fetch(ctx context.Context, key string, tags []string, target reflect.Type, fetch func(ctx context.Context) (any, error)) (any, bool, error) {
	if key == "" || target == nil {
		value, err := fetch(ctx)
		return value, false, err
	}

	data, found, err := r.store.Get(ctx, key)
	switch {
	case err != nil && ctx.Err() != nil:
		return nil, false, ctx.Err()
	case err != nil:
		r.logger.WarnContext(ctx, "cache read failed, bypassing cache",
			slog.String("key", key), slog.Any("error", err))
		value, err := fetch(ctx)
		return value, false, err
	case found:
		ptr := reflect.New(target)
		decodeErr := r.codec.Unmarshal(data, ptr.Interface())
		if decodeErr == nil {
			return ptr.Elem().Interface(), true, nil
		}
		r.logger.WarnContext(ctx, "cache entry could not be decoded, refetching",
			slog.String("key", key), slog.Any("error", decodeErr))
	}

	load := func() (any, error) {
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		r.populate(ctx, key, tags, value)
		return value, nil
	}

	if r.flight == nil {
		value, err := load()
		return value, false, err
	}

	value, err, _ := r.flight.Do(key, load)
	return value, false, err
}

// Invalidate removes every entry carrying any of tags.
func (r *ReadThrough) Invalidate(ctx context.Context, tags ...string) error {
	if len(tags) == 0 {
		return nil
	}
	return r.store.InvalidateTags(ctx, tags...)
}

func (r *ReadThrough) populate(ctx context.Context, key string, tags []string, value any) {
	if ctx.Err() != nil {
		return
	}

	data, err := r.codec.Marshal(value)
	if err != nil {
		r.logger.WarnContext(ctx, "cache value could not be encoded",
			slog.String("key", key), slog.Any("error", err))
		return
	}

	if err := r.store.Set(ctx, key, data, tags, r.ttl); err != nil && ctx.Err() == nil {
		r.logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key), slog.Any("error", err))
	}
}

// GetOrFetch is a type-safe wrapper around ReadThrough.Fetch.
func GetOrFetch[T any](ctx context.Context, r *ReadThrough, key string, tags []string, fetchFn FetchFn[T]) (T, error) {
	var zero T

	result, _, err := r.Fetch(ctx, key, tags, reflect.TypeOf((*T)(nil)).Elem(), func(ctx context.Context) (any, error) {
		return fetchFn(ctx)
	})
	if err != nil {
		return zero, err
	}

	if result == nil {
		return zero, nil
	}

	typed, ok := result.(T)
	if !ok {
		return zero, ErrInvalidResultType
	}
	return typed, nil
}
