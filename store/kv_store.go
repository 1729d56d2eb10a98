package store

import "github.com/dlshle/lrucache/errors"

// ErrNotFound is returned by Get when a key has no record.
var ErrNotFound = errors.New("record not found")

// KVStore is a backing store a cache can sit in front of.
type KVStore[K comparable, V any] interface {
	// Get returns ErrNotFound for missing keys.
	Get(key K) (V, error)
	Has(key K) (bool, error)
	Put(key K, value V) error
	// Delete of a missing key is not an error.
	Delete(key K) error
	Close() error
}
