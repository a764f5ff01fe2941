// Package infra provides shared infrastructure components: the process
// cache and a token-bucket rate limiter for upstream calls.
package infra

import (
	"context"
	"sync"
	"time"
)

// Cache TTL namespaces. A cache key is "<namespace>:<rest>" and the
// namespace decides the entry's freshness window.
const (
	NamespaceQuote     = "quote"     // 5 min
	NamespaceSeries    = "series"    // 30 min (economic series)
	NamespaceFilings   = "filings"   // 60 min (filings / facts)
	NamespaceNews      = "news"      // 15 min
	NamespaceOverview  = "overview"  // 60 min
	NamespaceTechnical = "technical" // 30 min
	NamespaceAnalysis  = "analysis"  // 5 min
)

var namespaceTTL = map[string]time.Duration{
	NamespaceQuote:     5 * time.Minute,
	NamespaceSeries:    30 * time.Minute,
	NamespaceFilings:   60 * time.Minute,
	NamespaceNews:      15 * time.Minute,
	NamespaceOverview:  60 * time.Minute,
	NamespaceTechnical: 30 * time.Minute,
	NamespaceAnalysis:  5 * time.Minute,
}

// NamespaceTTL returns the freshness window for a namespace, or the
// fallback when the namespace is unknown.
func NamespaceTTL(namespace string, fallback time.Duration) time.Duration {
	if ttl, ok := namespaceTTL[namespace]; ok {
		return ttl
	}
	return fallback
}

// CacheEntry holds a cached value with its expiration instant.
type CacheEntry struct {
	Value     any
	ExpiresAt time.Time
}

// CacheStats counts cache activity since process start.
type CacheStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// Cache is a thread-safe in-memory TTL cache. Entries are evicted lazily
// on access; there is no background sweeper.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]CacheEntry
	defaultTTL time.Duration
	hits       int64
	misses     int64
}

// NewCache creates a cache. defaultTTL applies when SetWithTTL is called
// with a zero duration; pass 0 to keep the 5-minute default.
func NewCache(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	return &Cache{
		entries:    make(map[string]CacheEntry),
		defaultTTL: defaultTTL,
	}
}

// Get retrieves a fresh value. Expired entries are deleted on the spot.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		delete(c.entries, key)
		c.misses++
		return nil, false
	}
	c.hits++
	return entry.Value, true
}

// Set stores a value with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, 0)
}

// SetWithTTL stores a value; ttl <= 0 uses the cache default.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	c.entries[key] = CacheEntry{Value: value, ExpiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Invalidate removes one key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Flush removes all entries.
func (c *Cache) Flush() {
	c.mu.Lock()
	c.entries = make(map[string]CacheEntry)
	c.mu.Unlock()
}

// Stats returns a snapshot of cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}

// RateLimiter is a simple token bucket: maxTokens requests per refill
// window, shared by one upstream client.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     int
	maxTokens  int
	refillRate time.Duration
	lastRefill time.Time
}

// NewRateLimiter creates a limiter allowing maxTokens requests per
// refillRate duration.
func NewRateLimiter(maxTokens int, refillRate time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Wait blocks until a token is available or the context is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		rl.mu.Lock()
		rl.refill()
		if rl.tokens > 0 {
			rl.tokens--
			rl.mu.Unlock()
			return nil
		}
		rl.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// refill adds tokens based on elapsed time. Must be called with mu held.
func (rl *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefill)
	if elapsed >= rl.refillRate {
		periods := int(elapsed / rl.refillRate)
		rl.tokens += periods
		if rl.tokens > rl.maxTokens {
			rl.tokens = rl.maxTokens
		}
		rl.lastRefill = rl.lastRefill.Add(time.Duration(periods) * rl.refillRate)
	}
}
