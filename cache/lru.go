package cache

import (
	"context"
	"math/rand"
	"sync"
	"time"

	ds "github.com/dlshle/lrucache/data_structures"
	"github.com/dlshle/lrucache/errors"
	"github.com/dlshle/lrucache/logging"
)

// ExpiringLRU is a fixed capacity cache whose entries expire ttl after their
// last write. When a new key arrives at a full cache, a random expired entry
// is evicted if there is one, otherwise the least recently used entry.
//
// All methods are safe for concurrent use; each holds a single mutex for its
// whole duration.
type ExpiringLRU[K comparable, V any] struct {
	capacity int
	ttl      time.Duration
	core     *core[K, V]

	// reused by evictOne
	expiredScratch []ds.Handle

	clock     func() time.Time
	rand      *rand.Rand
	logger    logging.Logger
	onRemoval RemovalListener[K, V]
	mutex     sync.Mutex
}

// New creates an empty cache. capacity must be at least 1 and ttl must not
// be negative. A zero ttl makes every entry expire as soon as it is written.
func New[K comparable, V any](capacity int, ttl time.Duration, opts ...Option[K, V]) (*ExpiringLRU[K, V], error) {
	if capacity < 1 {
		return nil, errors.Errorf("new cache with capacity %d: %w", capacity, ErrInvalidCapacity)
	}
	if ttl < 0 {
		return nil, errors.Errorf("new cache with ttl %s: %w", ttl, ErrInvalidTTL)
	}
	cfg := buildConfig(opts)
	return &ExpiringLRU[K, V]{
		capacity:  capacity,
		ttl:       ttl,
		core:      newCore[K, V](capacity),
		clock:     cfg.clock,
		rand:      cfg.rand,
		logger:    cfg.logger,
		onRemoval: cfg.onRemoval,
	}, nil
}

func (c *ExpiringLRU[K, V]) Capacity() int {
	return c.capacity
}

func (c *ExpiringLRU[K, V]) TTL() time.Duration {
	return c.ttl
}

// Get returns the value for key and marks it most recently used. An expired
// entry is removed on the spot and reported as a miss.
func (c *ExpiringLRU[K, V]) Get(key K) (V, bool) {
	value, ok, r, removed := c.get(key)
	if removed {
		c.notify(r)
	}
	return value, ok
}

func (c *ExpiringLRU[K, V]) get(key K) (value V, ok bool, r removal[K, V], removed bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	defer c.checkInvariants()

	h, found := c.core.lookup(key)
	if !found {
		return
	}
	e := c.core.entry(h)
	if e.expired(c.clock()) {
		old := c.core.remove(h)
		return value, false, removal[K, V]{key: old.key, value: old.value, reason: RemovedExpired}, true
	}
	c.core.touch(h)
	return e.value, true, r, false
}

// Set stores value under key, restarts its ttl and marks it most recently
// used. Inserting a new key into a full cache first evicts exactly one entry.
func (c *ExpiringLRU[K, V]) Set(key K, value V) {
	if r, evicted := c.set(key, value); evicted {
		c.notify(r)
	}
}

func (c *ExpiringLRU[K, V]) set(key K, value V) (r removal[K, V], evicted bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	defer c.checkInvariants()

	now := c.clock()
	expiresAt := now.Add(c.ttl)
	if h, ok := c.core.lookup(key); ok {
		e := c.core.entry(h)
		e.value = value
		e.expiresAt = expiresAt
		c.core.touch(h)
		return
	}
	if c.core.len() >= c.capacity {
		r, evicted = c.evictOne(now)
	}
	c.core.insertFront(key, value, expiresAt)
	return
}

// Delete removes key whether or not it has expired.
func (c *ExpiringLRU[K, V]) Delete(key K) bool {
	r, ok := c.delete(key)
	if ok {
		c.notify(r)
	}
	return ok
}

func (c *ExpiringLRU[K, V]) delete(key K) (removal[K, V], bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	defer c.checkInvariants()

	h, ok := c.core.lookup(key)
	if !ok {
		return removal[K, V]{}, false
	}
	e := c.core.remove(h)
	return removal[K, V]{key: e.key, value: e.value, reason: RemovedExplicitly}, true
}

// Has reports whether key holds a live entry. It neither touches nor removes.
func (c *ExpiringLRU[K, V]) Has(key K) bool {
	_, ok := c.Peek(key)
	return ok
}

// Peek returns a live value without updating its recency. Expired entries
// are reported as missing but left for Get or eviction to reclaim.
func (c *ExpiringLRU[K, V]) Peek(key K) (value V, ok bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	h, found := c.core.lookup(key)
	if !found {
		return
	}
	e := c.core.entry(h)
	if e.expired(c.clock()) {
		return
	}
	return e.value, true
}

func (c *ExpiringLRU[K, V]) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.core.len()
}

func (c *ExpiringLRU[K, V]) Keys() []K {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.core.keys()
}

// Purge drops every entry without notifying the removal listener.
func (c *ExpiringLRU[K, V]) Purge() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.core.clear()
	c.expiredScratch = c.expiredScratch[:0]
}

func (c *ExpiringLRU[K, V]) notify(r removal[K, V]) {
	if c.logger.Enabled(logging.DEBUG) {
		c.logger.Debugf(context.Background(), "removed key %v: %s", r.key, r.reason)
	}
	if c.onRemoval != nil {
		c.onRemoval(r.key, r.value, r.reason)
	}
}

// Has to be called with lock!
func (c *ExpiringLRU[K, V]) checkInvariants() {
	if !invariantChecks {
		return
	}
	if err := c.core.verify(c.capacity); err != nil {
		panic("cache invariant violated: " + err.Error())
	}
}

func (c *ExpiringLRU[K, V]) verify() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.core.verify(c.capacity)
}
