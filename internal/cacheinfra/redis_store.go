package cacheinfra

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a distributed tag store. Layout, with ns the namespace:
//
//	ns:entry:<key>    serialized value, expires with the entry ttl
//	ns:tag:<tag>      set of keys tagged with tag
//	ns:keytags:<key>  set of tags the key was stored with
//
// Set and InvalidateTags run as WATCH/MULTI transactions so a reader never
// sees an entry whose tag bookkeeping is half applied.
type RedisStore struct {
	client redis.UniversalClient
	opts   RedisOptions
}

// NewRedisStore validates opts and wraps client.
func NewRedisStore(client redis.UniversalClient, opts RedisOptions) (*RedisStore, error) {
	if client == nil {
		return nil, &ConfigError{Field: "client", Message: "cannot be nil"}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client, opts: opts}, nil
}

func (s *RedisStore) entryKey(key string) string   { return s.opts.Namespace + ":entry:" + key }
func (s *RedisStore) tagKey(tag string) string     { return s.opts.Namespace + ":tag:" + tag }
func (s *RedisStore) keyTagsKey(key string) string { return s.opts.Namespace + ":keytags:" + key }

// Get returns the value stored under key. A missing or expired key is not an error.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.entryKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, backendUnavailable(err, "get")
	}
	return value, true, nil
}

// Set stores value under key, replacing any tags the key had before.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, tags []string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.opts.DefaultTTL
	}
	tags = dedupeTags(tags)
	keyTags := s.keyTagsKey(key)

	txf := func(tx *redis.Tx) error {
		previous, err := tx.SMembers(ctx, keyTags).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, tag := range previous {
				pipe.SRem(ctx, s.tagKey(tag), key)
			}
			pipe.Del(ctx, keyTags)
			pipe.Set(ctx, s.entryKey(key), value, ttl)
			if len(tags) > 0 {
				pipe.SAdd(ctx, keyTags, toMembers(tags)...)
				pipe.Expire(ctx, keyTags, ttl)
				for _, tag := range tags {
					pipe.SAdd(ctx, s.tagKey(tag), key)
				}
			}
			return nil
		})
		return err
	}

	return s.watch(ctx, "set", txf, keyTags)
}

// InvalidateTags removes every entry tagged with any of tags, together with
// all tag references to the removed keys.
func (s *RedisStore) InvalidateTags(ctx context.Context, tags ...string) error {
	tags = dedupeTags(tags)
	if len(tags) == 0 {
		return nil
	}

	tagKeys := make([]string, len(tags))
	for i, tag := range tags {
		tagKeys[i] = s.tagKey(tag)
	}

	txf := func(tx *redis.Tx) error {
		keys := make(map[string]struct{})
		for _, tagKey := range tagKeys {
			members, err := tx.SMembers(ctx, tagKey).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}
			for _, member := range members {
				keys[member] = struct{}{}
			}
		}

		watched := make([]string, 0, len(keys))
		for key := range keys {
			watched = append(watched, s.keyTagsKey(key))
		}
		if len(watched) > 0 {
			if err := tx.Watch(ctx, watched...).Err(); err != nil {
				return err
			}
		}

		related := make(map[string][]string, len(keys))
		for key := range keys {
			keyTags, err := tx.SMembers(ctx, s.keyTagsKey(key)).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}
			related[key] = keyTags
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for key, keyTags := range related {
				pipe.Del(ctx, s.entryKey(key), s.keyTagsKey(key))
				for _, tag := range keyTags {
					pipe.SRem(ctx, s.tagKey(tag), key)
				}
			}
			pipe.Del(ctx, tagKeys...)
			return nil
		})
		return err
	}

	return s.watch(ctx, "invalidate", txf, tagKeys...)
}

// watch runs txf optimistically, retrying when a watched key changed.
func (s *RedisStore) watch(ctx context.Context, op string, txf func(*redis.Tx) error, keys ...string) error {
	var err error
	for attempt := 0; attempt < s.opts.MaxRetries; attempt++ {
		err = s.client.Watch(ctx, txf, keys...)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return backendUnavailable(err, op)
		}
	}
	return backendUnavailable(err, op+": too many conflicting writers")
}

func toMembers(tags []string) []any {
	members := make([]any, len(tags))
	for i, tag := range tags {
		members[i] = tag
	}
	return members
}
