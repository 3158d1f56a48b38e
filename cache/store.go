package cache

import (
	"context"
	"time"

	"github.com/goliatone/go-dispatch/internal/cacheinfra"
	"github.com/goliatone/go-dispatch/internal/errcode"
	"github.com/redis/go-redis/v9"
)

// ErrBackendUnavailable is the text code carried by errors of a degraded backend.
const ErrBackendUnavailable = cacheinfra.TextCodeBackendUnavailable

// Store is a key/value cache with tag indexed invalidation.
//
// InvalidateTags removes every entry whose tag set intersects tags. The
// removal is atomic with respect to concurrent Get and Set on the same keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, tags []string, ttl time.Duration) error
	InvalidateTags(ctx context.Context, tags ...string) error
}

// Codec serializes cached values. Unmarshal(Marshal(x)) must equal x for
// every response type that is cached.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// NewMemoryStore constructs the in-process store using cfg.
func NewMemoryStore(cfg Config) (Store, error) {
	store, err := cacheinfra.NewMemoryStore(cfg.toInternal())
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewRedisStore constructs a store that keeps entries and tag sets in redis.
func NewRedisStore(client redis.UniversalClient, opts RedisOptions) (Store, error) {
	store, err := cacheinfra.NewRedisStore(client, opts.toInternal())
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewCodec returns the default msgpack codec.
func NewCodec() Codec {
	return cacheinfra.NewMsgpackCodec()
}

// IsBackendUnavailable reports whether err signals a degraded cache backend.
func IsBackendUnavailable(err error) bool {
	return errcode.Has(err, ErrBackendUnavailable)
}
