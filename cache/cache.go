package cache

import (
	"github.com/dlshle/lrucache/errors"
)

// Cache defines the common interface for all cache implementations
type Cache[K comparable, V any] interface {
	// Get retrieves a live value and marks it as most recently used
	Get(key K) (V, bool)

	// Set adds or updates a value and restarts its time-to-live
	Set(key K, value V)

	// Delete removes a value, reporting whether it was present
	Delete(key K) bool

	// Has checks if a live key exists without touching it
	Has(key K) bool

	// Peek retrieves a live value without touching it
	Peek(key K) (V, bool)

	// Len returns the number of held entries, expired ones not yet reclaimed included
	Len() int

	// Keys returns held keys from most to least recently used
	Keys() []K

	// Purge removes all items from the cache
	Purge()
}

var (
	ErrInvalidCapacity = errors.New("capacity must be at least 1")
	ErrInvalidTTL      = errors.New("ttl must not be negative")
	ErrInvalidShards   = errors.New("shard count must be between 1 and capacity")
)

// RemovalReason tells a removal listener why an entry left the cache.
type RemovalReason int

const (
	// RemovedExpired means Get found the entry past its expiry.
	RemovedExpired RemovalReason = iota
	// EvictedExpired means Set reclaimed an expired entry to make room.
	EvictedExpired
	// EvictedLRU means Set evicted the least recently used live entry.
	EvictedLRU
	// RemovedExplicitly means Delete was called.
	RemovedExplicitly
)

func (r RemovalReason) String() string {
	switch r {
	case RemovedExpired:
		return "expired"
	case EvictedExpired:
		return "evicted-expired"
	case EvictedLRU:
		return "evicted-lru"
	case RemovedExplicitly:
		return "deleted"
	}
	return "unknown"
}

// RemovalListener is called outside of the cache lock.
type RemovalListener[K comparable, V any] func(key K, value V, reason RemovalReason)

type removal[K comparable, V any] struct {
	key    K
	value  V
	reason RemovalReason
}
