package cache

import (
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/dlshle/lrucache/errors"
	"github.com/dlshle/lrucache/slices"
	"github.com/dlshle/lrucache/utils"
)

// StringHash spreads string keys over shards.
func StringHash(key string) uint64 {
	return xxhash.Sum64String(key)
}

// Sharded splits keys over independently locked ExpiringLRU shards. Every
// shard keeps the full single cache contract for its own keys; the total
// number of entries never exceeds the configured capacity, but eviction
// only ever looks at the shard the new key hashes to.
type Sharded[K comparable, V any] struct {
	shards []*ExpiringLRU[K, V]
	hash   func(K) uint64
}

// NewSharded divides capacity over shards as evenly as possible, so it
// requires 1 <= shards <= capacity.
func NewSharded[K comparable, V any](shards int, capacity int, ttl time.Duration, hash func(K) uint64, opts ...Option[K, V]) (*Sharded[K, V], error) {
	if capacity < 1 {
		return nil, errors.Errorf("new sharded cache with capacity %d: %w", capacity, ErrInvalidCapacity)
	}
	if shards < 1 || shards > capacity {
		return nil, errors.Errorf("new sharded cache with %d shards for capacity %d: %w", shards, capacity, ErrInvalidShards)
	}
	if hash == nil {
		return nil, errors.Error("new sharded cache: hash function is required")
	}
	// each shard gets its own rand since they are used under different locks
	seeds := buildConfig(opts).rand
	s := &Sharded[K, V]{
		shards: make([]*ExpiringLRU[K, V], shards),
		hash:   hash,
	}
	for i := range s.shards {
		shardCapacity := capacity / shards
		if i < capacity%shards {
			shardCapacity++
		}
		shardOpts := append(append([]Option[K, V]{}, opts...), WithRand[K, V](utils.NewSeededRand(seeds.Int63())))
		shard, err := New(shardCapacity, ttl, shardOpts...)
		if err != nil {
			return nil, err
		}
		s.shards[i] = shard
	}
	return s, nil
}

func (s *Sharded[K, V]) shard(key K) *ExpiringLRU[K, V] {
	return s.shards[s.hash(key)%uint64(len(s.shards))]
}

func (s *Sharded[K, V]) Get(key K) (V, bool) {
	return s.shard(key).Get(key)
}

func (s *Sharded[K, V]) Set(key K, value V) {
	s.shard(key).Set(key, value)
}

func (s *Sharded[K, V]) Delete(key K) bool {
	return s.shard(key).Delete(key)
}

func (s *Sharded[K, V]) Has(key K) bool {
	return s.shard(key).Has(key)
}

func (s *Sharded[K, V]) Peek(key K) (V, bool) {
	return s.shard(key).Peek(key)
}

// Len sums shard lengths; under concurrent writes it is only a snapshot.
func (s *Sharded[K, V]) Len() int {
	return slices.SumBy(s.shards, (*ExpiringLRU[K, V]).Len)
}

// Keys concatenates shard keys. Recency order only holds within a shard.
func (s *Sharded[K, V]) Keys() []K {
	return slices.FlatMap(s.shards, (*ExpiringLRU[K, V]).Keys)
}

func (s *Sharded[K, V]) Purge() {
	for _, shard := range s.shards {
		shard.Purge()
	}
}

func (s *Sharded[K, V]) Capacity() int {
	return slices.SumBy(s.shards, (*ExpiringLRU[K, V]).Capacity)
}

func (s *Sharded[K, V]) ShardCount() int {
	return len(s.shards)
}
