package cacheinfra

import (
	"context"
	"sync"
	"time"

	"github.com/viccon/sturdyc"
)

// memoryEntry is what the sturdyc client holds for every cache key.
type memoryEntry struct {
	value     []byte
	tags      []string
	expiresAt time.Time
}

// MemoryStore is an in-process tag store. Entries live in a sturdyc client,
// and the tag index is kept next to it. Every mutation of the client and both
// indices happens under mu, so readers observe an entry either fully present
// or fully invalidated.
//
// sturdyc drops entries on expiry and capacity eviction without telling the
// index. A Get that misses unindexes the key, and Set sweeps the index once it
// holds more than twice the capacity, so the index stays bounded.
type MemoryStore struct {
	mu      sync.RWMutex
	client  *sturdyc.Client[memoryEntry]
	tagKeys map[string]map[string]struct{}
	keyTags map[string][]string
	ttl     time.Duration
	sweepAt int
	now     func() time.Time
}

// NewMemoryStore validates cfg and creates a sturdyc backed store.
func NewMemoryStore(cfg Config) (*MemoryStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[memoryEntry](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &MemoryStore{
		client:  client,
		tagKeys: make(map[string]map[string]struct{}),
		keyTags: make(map[string][]string),
		ttl:     cfg.TTL,
		sweepAt: 2 * cfg.Capacity,
		now:     time.Now,
	}, nil
}

// Get returns the value stored under key if it is present and unexpired.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	entry, live := s.lookup(key)
	_, indexed := s.keyTags[key]
	var value []byte
	if live {
		value = make([]byte, len(entry.value))
		copy(value, entry.value)
	}
	s.mu.RUnlock()

	if !live {
		if indexed {
			s.dropStale(key)
		}
		return nil, false, nil
	}
	return value, true, nil
}

// lookup returns the entry under key and whether it is unexpired. Callers hold mu.
func (s *MemoryStore) lookup(key string) (memoryEntry, bool) {
	entry, ok := s.client.Get(key)
	if !ok {
		return memoryEntry{}, false
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		return memoryEntry{}, false
	}
	return entry, true
}

// dropStale removes key and its index references unless a concurrent Set
// stored a live entry in the meantime.
func (s *MemoryStore) dropStale(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, live := s.lookup(key); live {
		return
	}
	s.client.Delete(key)
	s.unindex(key)
}

// Set stores value under key with the given tags. A non-positive ttl, or one
// larger than the configured TTL, falls back to the configured TTL.
// Overwriting a key replaces its tag set.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, tags []string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ttl <= 0 || ttl > s.ttl {
		ttl = s.ttl
	}

	tags = dedupeTags(tags)
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.unindex(key)
	s.client.Set(key, memoryEntry{
		value:     stored,
		tags:      tags,
		expiresAt: s.now().Add(ttl),
	})

	for _, tag := range tags {
		keys, ok := s.tagKeys[tag]
		if !ok {
			keys = make(map[string]struct{})
			s.tagKeys[tag] = keys
		}
		keys[key] = struct{}{}
	}
	if len(tags) > 0 {
		s.keyTags[key] = tags
	}
	if len(s.keyTags) > s.sweepAt {
		s.sweep()
	}

	return nil
}

// sweep unindexes every key sturdyc no longer holds. Callers hold mu.
func (s *MemoryStore) sweep() {
	for key := range s.keyTags {
		if _, live := s.lookup(key); !live {
			s.client.Delete(key)
			s.unindex(key)
		}
	}
}

// InvalidateTags removes every entry tagged with any of tags.
func (s *MemoryStore) InvalidateTags(ctx context.Context, tags ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tags = dedupeTags(tags)
	if len(tags) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tag := range tags {
		for key := range s.tagKeys[tag] {
			s.client.Delete(key)
			s.unindex(key)
		}
		delete(s.tagKeys, tag)
	}

	return nil
}

// unindex drops key from every tag it was registered under. Callers hold mu.
func (s *MemoryStore) unindex(key string) {
	for _, tag := range s.keyTags[key] {
		keys := s.tagKeys[tag]
		delete(keys, key)
		if len(keys) == 0 {
			delete(s.tagKeys, tag)
		}
	}
	delete(s.keyTags, key)
}
