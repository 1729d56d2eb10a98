// Package cache provides a fixed capacity, generic in-memory cache that
// combines time-to-live expiry with least recently used eviction.
//
// Entries expire ttl after their most recent Set; reads never extend them.
// Expired entries are reclaimed lazily, either by the Get that finds them or
// by the next Set that needs room in a full cache. Such a Set evicts a
// uniformly random expired entry when one exists and falls back to the least
// recently used entry otherwise.
//
// Example usage:
//
//	c, err := cache.New[string, int](1024, time.Minute)
//	if err != nil {
//		return err
//	}
//	c.Set("key1", 42)
//	if val, ok := c.Get("key1"); ok {
//		fmt.Println("Value:", val)
//	}
//
//	// shard by key hash to reduce lock contention
//	s, err := cache.NewSharded[string, int](16, 1<<16, time.Minute, cache.StringHash)
//
//	// read-through loading with coalesced misses
//	l := cache.NewLoading[string, int](c, nil)
//	val, err := l.GetWithLoader("key2", func(key string) (int, error) {
//		return 100, nil
//	})
//
// Building with -tags lrudebug verifies the index and recency list after
// every mutation and panics on a mismatch.
package cache
