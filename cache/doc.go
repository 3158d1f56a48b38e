// Package cache provides the tag indexed cache stores, the read-through
// helper used by the caching behavior, and cache key serialization.
//
// # Stores
//
// A Store keeps opaque byte values under string keys together with a set of
// tags. InvalidateTags removes every entry whose tag set intersects the given
// tags, so a command that changes products only has to know the "products"
// tag, not the keys that were produced by earlier queries.
//
// Two implementations are provided:
//
//   - NewMemoryStore: an in-process store backed by sturdyc with a local tag index
//   - NewRedisStore: a distributed store that keeps entries and tag sets in redis
//
// Both expire entries after their TTL and both remove tag references of
// invalidated entries, so tag sets do not grow without bound.
//
// # Read-through
//
// ReadThrough combines a Store with a Codec. On a hit the stored bytes are
// decoded into the requested type; on a miss the fetch function runs and its
// result is stored under the key and tags:
//
//	rt := cache.NewReadThrough(store, cache.NewCodec(), cache.WithTTL(10*time.Minute))
//	product, err := cache.GetOrFetch(ctx, rt, key, []string{"products"}, func(ctx context.Context) (Product, error) {
//		return repo.GetByID(ctx, id)
//	})
//
// ReadThrough fails open. A backend that cannot be reached, or an entry that
// cannot be decoded, is logged and the fetch function is used directly.
//
// # Key Serialization
//
// The default KeySerializer joins a namespace with serialized arguments:
//
//	serializer := cache.NewDefaultKeySerializer()
//	key := serializer.SerializeKey("productswithpagination", "shoe", 0, 15, "Id", "Descending")
//	// productswithpagination::"shoe"::0::15::"Id"::"Descending"
//
// Strings are quoted, so a value containing the separator cannot be confused
// with two segments. Values that implement encoding.TextMarshaler use their
// quoted text form. Maps are
// written in sorted key order and structs by exported field. Keys longer than
// MaxKeyLength keep the namespace and replace the rest with a fingerprint.
//
// Function and channel arguments serialize to their pointer, which is only
// stable within a single process. Do not pass them to keys that end up in a
// distributed store.
package cache
