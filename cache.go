package reportkit

import (
	"context"
	"time"
)

// Cache is the external key/value store consulted by the render cache.
// Users should implement this interface with their preferred caching
// solution (e.g., Redis, Memcached, in-memory).
//
// Implementations must provide at-least atomic exists/fetch/write
// semantics per key. Concurrent writers for the same key may race;
// last-write-wins is acceptable because cached render output is
// deterministic for identical inputs, so racing writes produce
// interchangeable values.
type Cache interface {
	// Exists reports whether an entry is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Fetch retrieves the entry stored under key.
	// Returns ErrCacheMiss if the key doesn't exist.
	Fetch(ctx context.Context, key string) (string, error)

	// Write stores value under key with an optional TTL.
	// If ttl is 0, the value should not expire.
	Write(ctx context.Context, key, value string, ttl time.Duration) error
}
