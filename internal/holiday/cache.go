package holiday

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultCacheTTL is used when NewCache is given a non-positive TTL.
const DefaultCacheTTL = 24 * time.Hour

// Cache holds fetched holiday years. It is created by the caller and
// shared by reference; entries expire after the configured TTL.
type Cache struct {
	lru *expirable.LRU[int, Dates]
}

// NewCache creates a cache holding up to size years for ttl each.
func NewCache(size int, ttl time.Duration) *Cache {
	if size < 1 {
		size = 8
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{lru: expirable.NewLRU[int, Dates](size, nil, ttl)}
}

// Get returns the cached holidays for year.
func (c *Cache) Get(year int) (Dates, bool) {
	return c.lru.Get(year)
}

// Set stores the holidays for year.
func (c *Cache) Set(year int, dates Dates) {
	c.lru.Add(year, dates)
}

// Purge drops every cached year.
func (c *Cache) Purge() {
	c.lru.Purge()
}

// Len returns the number of cached years.
func (c *Cache) Len() int {
	return c.lru.Len()
}
