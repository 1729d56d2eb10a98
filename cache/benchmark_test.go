package cache

import (
	"strconv"
	"testing"
	"time"

	"github.com/karlseguin/ccache/v3"
)

const benchCapacity = 10000

func benchKeys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}
	return keys
}

func BenchmarkExpiringLRUSet(b *testing.B) {
	c, _ := New[string, int](benchCapacity, time.Minute)
	keys := benchKeys(benchCapacity * 2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(keys[i%len(keys)], i)
	}
}

func BenchmarkExpiringLRUGet(b *testing.B) {
	c, _ := New[string, int](benchCapacity, time.Minute)
	keys := benchKeys(benchCapacity)
	for i, k := range keys {
		c.Set(k, i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(keys[i%len(keys)])
	}
}

// Eviction with nothing expired still scans every entry.
func BenchmarkExpiringLRUEvictLive(b *testing.B) {
	c, _ := New[string, int](1000, time.Hour)
	keys := benchKeys(b.N + 1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(keys[i], i)
	}
}

func BenchmarkShardedParallel(b *testing.B) {
	s, _ := NewSharded[string, int](16, benchCapacity, time.Minute, StringHash)
	keys := benchKeys(benchCapacity * 2)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			k := keys[i%len(keys)]
			if i%4 == 0 {
				s.Set(k, i)
			} else {
				s.Get(k)
			}
			i++
		}
	})
}

// ccache is a widely used concurrent LRU; these give a baseline for the ones above.
func BenchmarkCCacheSet(b *testing.B) {
	c := ccache.New(ccache.Configure[int]().MaxSize(benchCapacity))
	defer c.Stop()
	keys := benchKeys(benchCapacity * 2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(keys[i%len(keys)], i, time.Minute)
	}
}

func BenchmarkCCacheGet(b *testing.B) {
	c := ccache.New(ccache.Configure[int]().MaxSize(benchCapacity))
	defer c.Stop()
	keys := benchKeys(benchCapacity)
	for i, k := range keys {
		c.Set(k, i, time.Minute)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if item := c.Get(keys[i%len(keys)]); item != nil {
			_ = item.Value()
		}
	}
}
