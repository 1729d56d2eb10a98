package cache

import (
	"time"
)

// evictOne frees exactly one slot of a non-empty cache. A uniformly random
// expired entry is preferred; without one the least recently used entry goes.
// The scan over all entries is O(n). Has to be called with lock!
func (c *ExpiringLRU[K, V]) evictOne(now time.Time) (removal[K, V], bool) {
	c.expiredScratch = c.expiredScratch[:0]
	it := c.core.iterAll()
	for h, ok := it.Next(); ok; h, ok = it.Next() {
		if c.core.entry(h).expired(now) {
			c.expiredScratch = append(c.expiredScratch, h)
		}
	}

	if n := len(c.expiredScratch); n > 0 {
		victim := c.expiredScratch[0]
		if n > 1 {
			victim = c.expiredScratch[c.rand.Intn(n)]
		}
		e := c.core.remove(victim)
		return removal[K, V]{key: e.key, value: e.value, reason: EvictedExpired}, true
	}

	if tail, ok := c.core.tail(); ok {
		e := c.core.remove(tail)
		return removal[K, V]{key: e.key, value: e.value, reason: EvictedLRU}, true
	}
	return removal[K, V]{}, false
}
