package cache

import (
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/dlshle/lrucache/test_utils"
	"github.com/dlshle/lrucache/utils"
)

// fillWithExpiredAtFront leaves old1 and old2 expired at the recency front
// and live as the live least recently used entry.
func fillWithExpiredAtFront(t *testing.T, seed int64, clock *fakeClock) *ExpiringLRU[string, int] {
	clock.At(0)
	c := newTestCache[int](t, 3, 100*time.Millisecond, clock,
		WithRand[string, int](utils.NewSeededRand(seed)))
	c.Set("old1", 1)
	c.Set("old2", 2)
	clock.At(50 * time.Millisecond)
	c.Set("live", 3)
	clock.At(90 * time.Millisecond)
	c.Get("old1")
	c.Get("old2")
	clock.At(120 * time.Millisecond)
	return c
}

func TestEvictionPrefersExpiredOverLRU(t *testing.T) {
	clock := newFakeClock()
	victims := make(map[string]int)
	for seed := int64(0); seed < 200; seed++ {
		var victim string
		c := fillWithExpiredAtFront(t, seed, clock)
		c.onRemoval = func(key string, _ int, reason RemovalReason) {
			test_utils.AssertEquals(reason, EvictedExpired)
			victim = key
		}
		c.Set("new", 4)
		if !c.Has("live") {
			t.Fatalf("seed %d: live entry was evicted while expired ones were present", seed)
		}
		victims[victim]++
		assertValid(c)
	}
	if victims["old1"] == 0 || victims["old2"] == 0 {
		t.Fatalf("expected both expired entries to be picked across seeds, got %v", victims)
	}
	test_utils.AssertEquals(victims["old1"]+victims["old2"], 200)
}

func TestEvictionIsDeterministicForSeed(t *testing.T) {
	clock := newFakeClock()
	run := func() []string {
		c := fillWithExpiredAtFront(t, 42, clock)
		c.Set("new", 4)
		return c.Keys()
	}
	test_utils.AssertSlicesEqual(run(), run())
}

func TestEvictionFallsBackToLRU(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache[int](t, 3, time.Hour, clock)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Get("a")
	c.Set("d", 4)
	test_utils.AssertSlicesEqual(c.Keys(), []string{"d", "a", "c"})
}

func TestEvictionRemovesExactlyOne(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache[int](t, 4, 10*time.Millisecond, clock)
	for i := 0; i < 4; i++ {
		c.Set(strconv.Itoa(i), i)
	}
	clock.At(time.Second)
	c.Set("x", 0)
	// three expired entries stay until reclaimed
	test_utils.AssertEquals(c.Len(), 4)
	test_utils.AssertTrue(c.Has("x"))
}

// model mirrors the cache with the same clock, checking hits against what
// the model says is still stored and live.
type model struct {
	values    map[string]int
	expiresAt map[string]time.Time
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	const (
		capacity = 8
		ttl      = 40 * time.Millisecond
		steps    = 5000
	)
	clock := newFakeClock()
	ops := utils.NewSeededRand(7)
	c := newTestCache[int](t, capacity, ttl, clock)
	m := model{values: map[string]int{}, expiresAt: map[string]time.Time{}}
	c.onRemoval = func(key string, _ int, _ RemovalReason) {
		delete(m.values, key)
		delete(m.expiresAt, key)
	}

	for i := 0; i < steps; i++ {
		key := "k" + strconv.Itoa(ops.Intn(20))
		clock.Advance(time.Duration(ops.Intn(5)) * time.Millisecond)
		now := clock.Now()
		switch ops.Intn(4) {
		case 0, 1:
			c.Set(key, i)
			m.values[key] = i
			m.expiresAt[key] = now.Add(ttl)
		case 2:
			v, ok := c.Get(key)
			want, stored := m.values[key]
			live := stored && now.Before(m.expiresAt[key])
			if ok != live {
				t.Fatalf("step %d: get %s returned %v, model says live=%v", i, key, ok, live)
			}
			if ok && v != want {
				t.Fatalf("step %d: get %s returned %d, want %d", i, key, v, want)
			}
		case 3:
			_, stored := m.values[key]
			if c.Delete(key) != stored {
				t.Fatalf("step %d: delete %s disagreed with model", i, key)
			}
		}
		if c.Len() > capacity {
			t.Fatalf("step %d: len %d exceeds capacity", i, c.Len())
		}
		if c.Len() != len(m.values) {
			t.Fatalf("step %d: len %d, model holds %d", i, c.Len(), len(m.values))
		}
		if err := c.verify(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	const (
		capacity = 64
		workers  = 16
		rounds   = 2000
	)
	c, err := New[string, int](capacity, 5*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	test_utils.NewGroup("concurrent access", "").Cases(
		test_utils.New("mixed operations from many goroutines", func() {
			var wg sync.WaitGroup
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					for i := 0; i < rounds; i++ {
						key := fmt.Sprintf("%d-%d", w%4, i%100)
						switch i % 5 {
						case 0, 1:
							c.Set(key, i)
						case 2, 3:
							c.Get(key)
						default:
							c.Delete(key)
						}
					}
				}(w)
			}
			wg.Wait()
			test_utils.AssertTrue(c.Len() <= capacity)
			assertValid(c)
		}),
	).Do(t)
}
