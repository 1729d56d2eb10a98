package store

import (
	"context"
	"sync/atomic"

	"github.com/dlshle/lrucache/cache"
	"github.com/dlshle/lrucache/errors"
	"github.com/dlshle/lrucache/logging"
	"github.com/dlshle/lrucache/retry"
)

type WritePolicy uint8

const (
	// WriteThrough updates the cache first, then the store.
	WriteThrough WritePolicy = iota + 1
	// WriteBack updates the store first, then the cache.
	WriteBack
)

// CachedStore is a read-through cache in front of a KVStore. It is a
// KVStore itself.
type CachedStore[K comparable, V any] struct {
	store       KVStore[K, V]
	cache       *cache.Loading[K, V]
	writePolicy WritePolicy
	retryOpts   []retry.RetryOpt
	logger      logging.Logger
	hitCount    uint64
	missCount   uint64
}

// NewCachedStore fronts store with c. Backing reads are retried according
// to retryOpts; ErrNotFound is never retried, whatever conditions they add.
func NewCachedStore[K comparable, V any](store KVStore[K, V], c cache.Cache[K, V], writePolicy WritePolicy, logger logging.Logger, retryOpts ...retry.RetryOpt) *CachedStore[K, V] {
	if writePolicy != WriteThrough {
		writePolicy = WriteBack
	}
	if logger == nil {
		logger = logging.Discard()
	}
	retryOpts = append(append([]retry.RetryOpt{}, retryOpts...), retry.WithStopCondition(func(err error) bool {
		return errors.Is(err, ErrNotFound)
	}))
	return &CachedStore[K, V]{
		store:       store,
		cache:       cache.NewLoading(c, nil),
		writePolicy: writePolicy,
		retryOpts:   retryOpts,
		logger:      logger,
	}
}

func (s *CachedStore[K, V]) Get(key K) (V, error) {
	return s.GetContext(context.Background(), key)
}

// GetContext is Get where ctx bounds how long this caller waits. Concurrent
// misses on a key share one backing read that no single caller's ctx can
// cancel; it ends when its retries do.
func (s *CachedStore[K, V]) GetContext(ctx context.Context, key K) (V, error) {
	if value, ok := s.cache.Get(key); ok {
		atomic.AddUint64(&s.hitCount, 1)
		s.logger.Tracef(ctx, "fetch %v hit", key)
		return value, nil
	}
	return s.cache.Load(ctx, key, func(loadCtx context.Context, key K) (V, error) {
		atomic.AddUint64(&s.missCount, 1)
		s.logger.Tracef(ctx, "fetch %v miss", key)
		return retry.RetryContext1(loadCtx, func(context.Context) (V, error) {
			return s.store.Get(key)
		}, s.retryOpts...)
	})
}

func (s *CachedStore[K, V]) Has(key K) (bool, error) {
	if s.cache.Has(key) {
		return true, nil
	}
	return s.store.Has(key)
}

func (s *CachedStore[K, V]) Put(key K, value V) error {
	switch s.writePolicy {
	case WriteThrough:
		s.cache.Set(key, value)
		if err := s.store.Put(key, value); err != nil {
			// do not serve a value the store never accepted
			s.cache.Delete(key)
			return err
		}
		return nil
	default:
		if err := s.store.Put(key, value); err != nil {
			return err
		}
		s.cache.Set(key, value)
		return nil
	}
}

func (s *CachedStore[K, V]) Delete(key K) error {
	switch s.writePolicy {
	case WriteThrough:
		s.cache.Delete(key)
		return s.store.Delete(key)
	default:
		if err := s.store.Delete(key); err != nil {
			return err
		}
		s.cache.Delete(key)
		return nil
	}
}

// Stats reports Gets answered by the cache and reads sent to the backing
// store. Callers that join another caller's read count as neither.
func (s *CachedStore[K, V]) Stats() (hits, misses uint64) {
	return atomic.LoadUint64(&s.hitCount), atomic.LoadUint64(&s.missCount)
}

// Close drops the cached entries and closes the backing store.
func (s *CachedStore[K, V]) Close() error {
	s.cache.Purge()
	return s.store.Close()
}

// CloseAll closes every store and reports all failures together.
func CloseAll(stores ...interface{ Close() error }) error {
	errs := errors.NewMultiError()
	for _, s := range stores {
		errs.Add(s.Close())
	}
	return errs.ErrorOrNil()
}
