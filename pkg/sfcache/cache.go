package sfcache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	mu        sync.Mutex
	have      bool
	value     T
	err       error
	expiresAt time.Time
}

// Cache is a per-key single-flight cache: concurrent callers on the
// same key that arrive while a compute is in flight block on that key's
// mutex and receive the same (value, error) the first caller computed,
// rather than each triggering their own call.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]*entry[T]
}

func New[T any]() *Cache[T] {
	return &Cache[T]{entries: make(map[string]*entry[T])}
}

func (c *Cache[T]) entryFor(key string) *entry[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry[T]{}
		c.entries[key] = e
	}
	return e
}

// Get returns the cached (value, error) for key if it was set within
// the last ttl; otherwise it calls compute under the key's mutex,
// caches the result (including an error result) for ttl, and returns
// it. Concurrent callers on the same key during a compute block and
// share its result rather than each calling compute themselves.
func (c *Cache[T]) Get(key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	e := c.entryFor(key)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.have && time.Now().Before(e.expiresAt) {
		return e.value, e.err
	}

	value, err := compute()
	e.have = true
	e.value = value
	e.err = err
	e.expiresAt = time.Now().Add(ttl)
	return value, err
}

// Invalidate clears any cached result for key, forcing the next Get to
// recompute regardless of ttl.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return
	}
	e.mu.Lock()
	e.have = false
	e.mu.Unlock()
}
