package cache

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry[V any] struct {
	value   V
	expires time.Time
}

// Store keeps values under generated keys until they expire.
type Store[V any] struct {
	data map[string]entry[V]
	ttl  time.Duration
	now  func() time.Time
	mu   sync.Mutex
}

func New[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		data: make(map[string]entry[V]),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Put stores v and returns its key. Expired entries are swept on the way.
func (c *Store[V]) Put(v V) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.data {
		if now.After(e.expires) {
			delete(c.data, k)
		}
	}

	key := compactKey()
	c.data[key] = entry[V]{value: v, expires: now.Add(c.ttl)}
	return key
}

// Get returns the value for key. Lookups do not consume the entry; an
// expired one is dropped.
func (c *Store[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().After(e.expires) {
		delete(c.data, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Store[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// compactKey is a uuid without dashes, 32 chars.
func compactKey() string {
	id := uuid.New()
	const hex = "0123456789abcdef"
	buf := make([]byte, 32)
	for i, b := range id {
		buf[i*2] = hex[b>>4]
		buf[i*2+1] = hex[b&0x0f]
	}
	return string(buf)
}
