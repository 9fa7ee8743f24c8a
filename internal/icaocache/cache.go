// Package icaocache remembers ICAO addresses recently seen in frames whose
// CRC carried no address, so that addresses recovered from the
// address/parity field of other replies can be confirmed.
package icaocache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Default cache timings
const (
	DefaultTTL             = 60 * time.Second
	DefaultCleanupInterval = 10 * time.Second
)

// Cache is a TTL set of upper-case hex ICAO addresses. It is safe for
// concurrent use.
type Cache struct {
	entries *cache.Cache
}

// New creates a cache whose entries expire ttl after their last Add
func New(ttl, cleanupInterval time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &Cache{entries: cache.New(ttl, cleanupInterval)}
}

// Add records the address as seen now
func (c *Cache) Add(icao string) {
	if icao == "" {
		return
	}
	c.entries.SetDefault(icao, time.Now())
}

// Seen reports whether the address was added within the TTL
func (c *Cache) Seen(icao string) bool {
	_, found := c.entries.Get(icao)
	return found
}

// Len returns the number of addresses currently held, expired ones included
// until the next cleanup
func (c *Cache) Len() int {
	return c.entries.ItemCount()
}
