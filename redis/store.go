package redis

import (
	"time"

	goredis "github.com/go-redis/redis"

	"github.com/dlshle/lrucache/errors"
	"github.com/dlshle/lrucache/store"
)

// Store is a store.KVStore kept in redis. Every key is namespaced with prefix
// and written with the configured expiration (0 keeps it forever).
type Store[K comparable, V any] struct {
	client     *goredis.Client
	codec      store.Codec[K, V]
	prefix     string
	expiration time.Duration
}

// Dial connects to addr and checks the connection with a PING.
func Dial(addr string, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, errors.Errorf("ping redis at %s: %w", addr, err)
	}
	return client, nil
}

func NewStore[K comparable, V any](client *goredis.Client, codec store.Codec[K, V], prefix string, expiration time.Duration) *Store[K, V] {
	return &Store[K, V]{
		client:     client,
		codec:      codec,
		prefix:     prefix,
		expiration: expiration,
	}
}

func (s *Store[K, V]) key(key K) (string, error) {
	raw, err := s.codec.EncodeKey(key)
	if err != nil {
		return "", err
	}
	return s.prefix + string(raw), nil
}

func (s *Store[K, V]) Get(key K) (value V, err error) {
	k, err := s.key(key)
	if err != nil {
		return
	}
	raw, err := s.client.Get(k).Bytes()
	if err == goredis.Nil {
		err = store.ErrNotFound
		return
	}
	if err != nil {
		err = errors.WrapWithStackTrace(err)
		return
	}
	return s.codec.DecodeValue(raw)
}

func (s *Store[K, V]) Has(key K) (bool, error) {
	k, err := s.key(key)
	if err != nil {
		return false, err
	}
	n, err := s.client.Exists(k).Result()
	if err != nil {
		return false, errors.WrapWithStackTrace(err)
	}
	return n > 0, nil
}

func (s *Store[K, V]) Put(key K, value V) error {
	k, err := s.key(key)
	if err != nil {
		return err
	}
	raw, err := s.codec.EncodeValue(value)
	if err != nil {
		return err
	}
	if err = s.client.Set(k, raw, s.expiration).Err(); err != nil {
		return errors.WrapWithStackTrace(err)
	}
	return nil
}

func (s *Store[K, V]) Delete(key K) error {
	k, err := s.key(key)
	if err != nil {
		return err
	}
	if err = s.client.Del(k).Err(); err != nil {
		return errors.WrapWithStackTrace(err)
	}
	return nil
}

func (s *Store[K, V]) Ping() error {
	return s.client.Ping().Err()
}

func (s *Store[K, V]) Close() error {
	return s.client.Close()
}
