package cache

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"betwallet_client/pkg/clock"
)

const DefaultTTL = 10 * time.Minute

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// TTL is a small in-process cache whose entries go stale after a fixed duration.
type TTL[V any] struct {
	mu      sync.Mutex
	clock   clock.Clock
	ttl     time.Duration
	entries map[string]entry[V]
}

func NewTTL[V any](clk clock.Clock, ttl time.Duration) *TTL[V] {
	if clk == nil {
		clk = clock.Real()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TTL[V]{clock: clk, ttl: ttl, entries: make(map[string]entry[V])}
}

// Get returns the cached value, or false when it is missing or stale.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.clock.Now().Sub(e.storedAt) >= c.ttl {
		var zero V
		return zero, false
	}
	logrus.Debugf("cache hit for %s", key)
	return e.value, true
}

func (c *TTL[V]) Set(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: v, storedAt: c.clock.Now()}
}

func (c *TTL[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *TTL[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}
