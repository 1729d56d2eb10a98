// Package gr_context keeps small per-goroutine value maps keyed by goroutine id.
package gr_context

import (
	"strconv"
	"strings"
	"sync"

	"github.com/petermattis/goid"
)

// goroutines only touch their own inner map, the outer map needs the lock
var (
	mu       sync.RWMutex
	contexts = map[int64]map[string]interface{}{}
)

// GoID returns the id of the calling goroutine.
func GoID() int64 {
	return goid.Get()
}

// GoIDString is GoID formatted for log contexts.
func GoIDString() string {
	return strconv.FormatInt(goid.Get(), 10)
}

func Put(key string, v interface{}) {
	id := goid.Get()
	mu.Lock()
	defer mu.Unlock()
	m, ok := contexts[id]
	if !ok {
		m = make(map[string]interface{})
		contexts[id] = m
	}
	m[key] = v
}

func Get(key string) interface{} {
	mu.RLock()
	defer mu.RUnlock()
	return contexts[goid.Get()][key]
}

func Delete(key string) {
	id := goid.Get()
	mu.Lock()
	defer mu.Unlock()
	m, ok := contexts[id]
	if !ok {
		return
	}
	delete(m, key)
	if len(m) == 0 {
		delete(contexts, id)
	}
}

// GetByPrefix copies every value of the calling goroutine whose key has prefix.
func GetByPrefix(prefix string) map[string]interface{} {
	res := make(map[string]interface{})
	mu.RLock()
	defer mu.RUnlock()
	for k, v := range contexts[goid.Get()] {
		if strings.HasPrefix(k, prefix) {
			res[k] = v
		}
	}
	return res
}

// Clear drops everything stored by the calling goroutine.
func Clear() {
	mu.Lock()
	defer mu.Unlock()
	delete(contexts, goid.Get())
}
