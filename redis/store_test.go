package redis

import (
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/dlshle/lrucache/cache"
	"github.com/dlshle/lrucache/store"
	"github.com/dlshle/lrucache/test_utils"
)

// Set REDIS_ADDR (e.g. localhost:6379) to run against a live server.
func dialOrSkip(t *testing.T) *Store[string, string] {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client, err := Dial(addr, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	prefix := "lrucache-test-" + strconv.FormatInt(time.Now().UnixNano(), 10) + ":"
	return NewStore[string, string](client, store.StringCodec{}, prefix, time.Minute)
}

func TestStore(t *testing.T) {
	s := dialOrSkip(t)
	defer s.Close()

	test_utils.NewGroup("redis store", "").Cases(test_utils.New("crud", func() {
		test_utils.AssertNil(s.Ping())
		_, err := s.Get("k")
		test_utils.AssertErrorIs(err, store.ErrNotFound)
		test_utils.AssertNil(s.Put("k", "v"))
		v, err := s.Get("k")
		test_utils.AssertNil(err)
		test_utils.AssertEquals(v, "v")
		has, err := s.Has("k")
		test_utils.AssertNil(err)
		test_utils.AssertTrue(has)
		test_utils.AssertNil(s.Delete("k"))
		test_utils.AssertNil(s.Delete("k"))
		has, err = s.Has("k")
		test_utils.AssertNil(err)
		test_utils.AssertFalse(has)
	}), test_utils.New("fronted by a cache", func() {
		c, err := cache.New[string, string](4, time.Second)
		test_utils.AssertNil(err)
		cached := store.NewCachedStore[string, string](s, c, store.WriteBack, nil)
		test_utils.AssertNil(cached.Put("x", "1"))
		v, err := cached.Get("x")
		test_utils.AssertNil(err)
		test_utils.AssertEquals(v, "1")
		test_utils.AssertNil(cached.Delete("x"))
	})).Do(t)
}

func TestDialFailure(t *testing.T) {
	_, err := Dial("127.0.0.1:1", "", 0)
	test_utils.AssertNonNil(err)
}
