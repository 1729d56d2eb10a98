package cache

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// Loader produces the value for a missing key, e.g. from a database.
type Loader[K comparable, V any] func(key K) (V, error)

// ContextLoader is a Loader that receives the context of the shared flight.
type ContextLoader[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Loading adds read-through loading on top of any Cache. Concurrent misses
// for the same key share a single loader call.
type Loading[K comparable, V any] struct {
	Cache[K, V]
	group     singleflight.Group
	keyString func(K) string
}

type loaded[V any] struct {
	value V
}

// NewLoading wraps c. keyString must map distinct keys to distinct strings;
// nil falls back to fmt.Sprint.
func NewLoading[K comparable, V any](c Cache[K, V], keyString func(K) string) *Loading[K, V] {
	if keyString == nil {
		keyString = func(k K) string {
			return fmt.Sprint(k)
		}
	}
	return &Loading[K, V]{
		Cache:     c,
		keyString: keyString,
	}
}

// GetWithLoader returns the cached value for key or loads, stores and returns
// it. Loader errors are returned to every waiting caller and nothing is cached.
func (l *Loading[K, V]) GetWithLoader(key K, loader Loader[K, V]) (V, error) {
	if value, ok := l.Cache.Get(key); ok {
		return value, nil
	}
	res, err, _ := l.group.Do(l.keyString(key), func() (interface{}, error) {
		// a previous flight may have stored it between our miss and now
		if value, ok := l.Cache.Peek(key); ok {
			return loaded[V]{value}, nil
		}
		value, err := loader(key)
		if err != nil {
			return nil, err
		}
		l.Cache.Set(key, value)
		return loaded[V]{value}, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(loaded[V]).value, nil
}

// Load skips the cache read and joins or starts the flight for key. The
// flight runs on a context detached from every caller, so one caller
// giving up never cancels the load the others are waiting on. A caller whose
// ctx is done stops waiting and gets ctx.Err().
func (l *Loading[K, V]) Load(ctx context.Context, key K, loader ContextLoader[K, V]) (V, error) {
	ch := l.group.DoChan(l.keyString(key), func() (interface{}, error) {
		if value, ok := l.Cache.Peek(key); ok {
			return loaded[V]{value}, nil
		}
		value, err := loader(context.Background(), key)
		if err != nil {
			return nil, err
		}
		l.Cache.Set(key, value)
		return loaded[V]{value}, nil
	})
	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(loaded[V]).value, nil
	}
}

// GetWithLoaderContext is GetWithLoader with per caller cancellation, see Load.
func (l *Loading[K, V]) GetWithLoaderContext(ctx context.Context, key K, loader ContextLoader[K, V]) (V, error) {
	if value, ok := l.Cache.Get(key); ok {
		return value, nil
	}
	return l.Load(ctx, key, loader)
}

// Forget makes the next miss for key start a new loader call even if one is in flight.
func (l *Loading[K, V]) Forget(key K) {
	l.group.Forget(l.keyString(key))
}
