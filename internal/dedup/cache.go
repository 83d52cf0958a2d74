package dedup

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/user/cartbot/internal/types"
)

const (
	DefaultTTL        = 10 * time.Minute
	DefaultMaxEntries = 4096
)

// Cache is a bounded TTL set of recently observed inbound event ids.
// Entries fall out after the TTL or under LRU pressure. The cache is not
// persistent; losing it on restart may cause at most a single duplicate
// reply, which is recoverable.
type Cache struct {
	mu  sync.Mutex
	lru *expirable.LRU[types.EventID, struct{}]
}

// New creates a cache holding up to maxEntries ids for ttl each. Zero
// values select the defaults.
func New(maxEntries int, ttl time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		lru: expirable.NewLRU[types.EventID, struct{}](maxEntries, nil, ttl),
	}
}

// Seen reports whether id is currently present. It has no side effect.
func (c *Cache) Seen(id types.EventID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.lru.Peek(id)
	return ok
}

// Remember inserts id with the configured TTL.
func (c *Cache) Remember(id types.EventID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(id, struct{}{})
}

// Observe reports whether id was already present and records it if not.
// The check and the insert happen under one lock, so two concurrent
// observers of the same id agree on exactly one first sighting.
func (c *Cache) Observe(id types.EventID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.lru.Peek(id); ok {
		return true
	}
	c.lru.Add(id, struct{}{})
	return false
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
