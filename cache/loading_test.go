package cache

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dlshle/lrucache/errors"
	"github.com/dlshle/lrucache/test_utils"
)

func TestLoadingCoalescesMisses(t *testing.T) {
	base, err := New[string, string](4, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	l := NewLoading[string, string](base, nil)

	var calls int32
	release := make(chan struct{})
	loader := func(key string) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "value of " + key, nil
	}

	const callers = 32
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := l.GetWithLoader("k", loader)
			test_utils.AssertNil(err)
			results[i] = v
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	test_utils.AssertEquals(atomic.LoadInt32(&calls), int32(1))
	for _, v := range results {
		test_utils.AssertEquals(v, "value of k")
	}
	v, ok := l.Get("k")
	test_utils.AssertTrue(ok)
	test_utils.AssertEquals(v, "value of k")
}

func TestLoadingDoesNotCacheErrors(t *testing.T) {
	base, err := New[int, string](4, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	l := NewLoading[int, string](base, strconv.Itoa)
	boom := errors.New("boom")
	calls := 0
	failing := func(int) (string, error) {
		calls++
		return "", boom
	}

	test_utils.NewGroup("loading errors", "").Cases(
		test_utils.New("error is returned", func() {
			_, err := l.GetWithLoader(1, failing)
			test_utils.AssertErrorIs(err, boom)
			test_utils.AssertFalse(l.Has(1))
		}),
		test_utils.New("next miss calls the loader again", func() {
			_, err := l.GetWithLoader(1, failing)
			test_utils.AssertErrorIs(err, boom)
			test_utils.AssertEquals(calls, 2)
		}),
		test_utils.New("a successful load is cached", func() {
			v, err := l.GetWithLoader(1, func(k int) (string, error) { return "one", nil })
			test_utils.AssertNil(err)
			test_utils.AssertEquals(v, "one")
			v, err = l.GetWithLoader(1, failing)
			test_utils.AssertNil(err)
			test_utils.AssertEquals(v, "one")
			test_utils.AssertEquals(calls, 2)
		}),
	).Do(t)
}

func TestLoadingNilValues(t *testing.T) {
	base, err := New[string, *int](2, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	l := NewLoading[string, *int](base, nil)
	v, err := l.GetWithLoader("nil", func(string) (*int, error) { return nil, nil })
	test_utils.AssertNil(err)
	test_utils.AssertTrue(v == nil)
	test_utils.AssertTrue(l.Has("nil"))
	l.Forget("nil")
}

func TestLoadingFlightIgnoresCallerCancellation(t *testing.T) {
	base, err := New[string, string](4, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	l := NewLoading[string, string](base, nil)

	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	loader := func(ctx context.Context, key string) (string, error) {
		atomic.AddInt32(&calls, 1)
		close(started)
		select {
		case <-release:
			return "value of " + key, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := l.GetWithLoaderContext(ctx, "k", loader)
		firstErr <- err
	}()
	<-started

	var (
		wg     sync.WaitGroup
		second string
		err2   error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		second, err2 = l.GetWithLoaderContext(context.Background(), "k", loader)
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	test_utils.AssertErrorIs(<-firstErr, context.Canceled)
	close(release)
	wg.Wait()

	test_utils.AssertNil(err2)
	test_utils.AssertEquals(second, "value of k")
	test_utils.AssertEquals(atomic.LoadInt32(&calls), int32(1))
	v, ok := l.Get("k")
	test_utils.AssertTrue(ok)
	test_utils.AssertEquals(v, "value of k")
}
