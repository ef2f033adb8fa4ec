package network

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// defaultMaxAge applies to responses without explicit freshness information.
const defaultMaxAge = 5 * time.Minute

// CacheEntry represents a cached HTTP response.
type CacheEntry struct {
	Response *Response
	CachedAt time.Time
	MaxAge   time.Duration
}

// IsExpired returns true if the cache entry has expired.
func (e *CacheEntry) IsExpired() bool {
	return time.Since(e.CachedAt) > e.MaxAge
}

// Cache is an in-memory response cache keyed by URL. When full, the oldest
// entry is evicted.
type Cache struct {
	entries map[string]*CacheEntry
	maxSize int
	mu      sync.RWMutex
}

// NewCache creates a new cache with the specified maximum number of entries.
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = 64
	}
	return &Cache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
	}
}

// Get returns a fresh entry for url.
func (c *Cache) Get(url string) (*CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[url]
	if !ok || entry.IsExpired() {
		return nil, false
	}
	return entry, true
}

// Set stores a response unless its headers forbid it.
func (c *Cache) Set(url string, resp *Response, headers http.Header) {
	maxAge, store := cachePolicy(headers.Get("Cache-Control"))
	if !store {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[url]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	c.entries[url] = &CacheEntry{
		Response: resp,
		CachedAt: time.Now(),
		MaxAge:   maxAge,
	}
}

// Size returns the number of entries.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*CacheEntry)
}

func (c *Cache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.CachedAt.Before(oldest) {
			oldestKey, oldest = k, e.CachedAt
		}
	}
	delete(c.entries, oldestKey)
}

// cachePolicy reads max-age, no-store and no-cache from a Cache-Control
// header.
func cachePolicy(cacheControl string) (maxAge time.Duration, store bool) {
	maxAge, store = defaultMaxAge, true
	for _, directive := range strings.Split(cacheControl, ",") {
		name, value, _ := strings.Cut(strings.TrimSpace(directive), "=")
		switch strings.ToLower(name) {
		case "no-store", "no-cache":
			return 0, false
		case "max-age":
			secs, err := strconv.Atoi(strings.Trim(value, `"`))
			if err != nil || secs < 0 {
				continue
			}
			if secs == 0 {
				return 0, false
			}
			maxAge = time.Duration(secs) * time.Second
		}
	}
	return maxAge, store
}
