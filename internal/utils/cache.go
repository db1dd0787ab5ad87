package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
)

// Cache is the process-wide cache for cheap aggregates (stats, api info).
var Cache *cache.Cache

// InitCache sets up the global cache: 5 minute default TTL, 10 minute sweep.
func InitCache() {
	Cache = cache.New(5*time.Minute, 10*time.Minute)
}

// CacheGet reads a value from the global cache.
func CacheGet(key string) (interface{}, bool) {
	return Cache.Get(key)
}

// CacheSet stores a value in the global cache.
func CacheSet(key string, value interface{}, duration time.Duration) {
	Cache.Set(key, value, duration)
}

// CacheDelete removes a key from the global cache.
func CacheDelete(key string) {
	Cache.Delete(key)
}

// CacheItem wraps a cached value with its own expiry.
type CacheItem[T any] struct {
	Value     T
	ExpiredAt time.Time
}

// ResultCache is a bounded TTL cache for search results. Text searches pay
// an encoder round trip per query, so repeated queries are worth caching;
// the LRU bound keeps memory flat under hostile query streams.
type ResultCache[T any] struct {
	storage *lru.Cache[string, CacheItem[T]]
	ttl     time.Duration
}

// NewResultCache creates a cache holding at most size entries for ttl each.
func NewResultCache[T any](size int, ttl time.Duration) *ResultCache[T] {
	c, _ := lru.New[string, CacheItem[T]](size)
	return &ResultCache[T]{
		storage: c,
		ttl:     ttl,
	}
}

// Set adds or refreshes an entry.
func (c *ResultCache[T]) Set(key string, value T) {
	c.storage.Add(key, CacheItem[T]{
		Value:     value,
		ExpiredAt: time.Now().Add(c.ttl),
	})
}

// Get returns the entry if present and not expired.
func (c *ResultCache[T]) Get(key string) (T, bool) {
	var zero T
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}
	if time.Now().After(item.ExpiredAt) {
		c.storage.Remove(key)
		return zero, false
	}
	return item.Value, true
}

// Clear drops every entry.
func (c *ResultCache[T]) Clear() {
	c.storage.Purge()
}

// Len reports the current entry count.
func (c *ResultCache[T]) Len() int {
	return c.storage.Len()
}
