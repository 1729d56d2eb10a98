package cache

import (
	"fmt"
	"time"

	ds "github.com/dlshle/lrucache/data_structures"
)

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

func (e *entry[K, V]) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// core pairs the key index with the recency list. Front of the list is the
// most recently used entry. core is not safe for concurrent use.
type core[K comparable, V any] struct {
	index   map[K]ds.Handle
	recency *ds.ArenaList[entry[K, V]]
}

func newCore[K comparable, V any](capacity int) *core[K, V] {
	return &core[K, V]{
		index:   make(map[K]ds.Handle, capacity),
		recency: ds.NewArenaList[entry[K, V]](capacity),
	}
}

func (c *core[K, V]) len() int {
	return len(c.index)
}

func (c *core[K, V]) lookup(key K) (ds.Handle, bool) {
	h, ok := c.index[key]
	return h, ok
}

func (c *core[K, V]) entry(h ds.Handle) *entry[K, V] {
	return c.recency.Get(h)
}

func (c *core[K, V]) touch(h ds.Handle) {
	c.recency.MoveToFront(h)
}

func (c *core[K, V]) insertFront(key K, value V, expiresAt time.Time) ds.Handle {
	h := c.recency.PushFront(entry[K, V]{key: key, value: value, expiresAt: expiresAt})
	c.index[key] = h
	return h
}

func (c *core[K, V]) remove(h ds.Handle) entry[K, V] {
	e := c.recency.Remove(h)
	delete(c.index, e.key)
	return e
}

func (c *core[K, V]) tail() (ds.Handle, bool) {
	return c.recency.Back()
}

func (c *core[K, V]) iterAll() *ds.Iterator[entry[K, V]] {
	return c.recency.Iterator()
}

func (c *core[K, V]) clear() {
	for k := range c.index {
		delete(c.index, k)
	}
	c.recency.Clear()
}

// keys returns keys from most to least recently used.
func (c *core[K, V]) keys() []K {
	keys := make([]K, 0, c.len())
	c.recency.ForEach(func(_ ds.Handle, e *entry[K, V]) bool {
		keys = append(keys, e.key)
		return true
	})
	return keys
}

// verify checks that index and recency list describe the same set of
// entries, each exactly once, within capacity.
func (c *core[K, V]) verify(capacity int) error {
	if c.len() != c.recency.Size() {
		return fmt.Errorf("index holds %d keys but recency list holds %d entries", c.len(), c.recency.Size())
	}
	if c.len() > capacity {
		return fmt.Errorf("%d entries exceed capacity %d", c.len(), capacity)
	}
	seen := 0
	var err error
	c.recency.ForEach(func(h ds.Handle, e *entry[K, V]) bool {
		seen++
		indexed, ok := c.index[e.key]
		if !ok {
			err = fmt.Errorf("key %v is listed but not indexed", e.key)
			return false
		}
		if indexed != h {
			err = fmt.Errorf("key %v is indexed at slot %d but listed at slot %d", e.key, indexed, h)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	if seen != c.len() {
		return fmt.Errorf("walked %d entries but %d are indexed", seen, c.len())
	}
	return nil
}
