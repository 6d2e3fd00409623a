package recurrence

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"sync"
	"time"
)

const (
	opGenerate = "generate"
	opOccurs   = "occurs"
)

// cacheEntry represents a cached expansion result.
type cacheEntry struct {
	result     interface{} // []Instance for generate, bool for occurs
	expiresAt  time.Time
	accessedAt time.Time
}

// Cache memoizes engine results. Expansion is deterministic, so cached
// and recomputed answers are identical; the cache exists only to avoid
// re-walking long series for repeated queries.
type Cache struct {
	entries         map[string]*cacheEntry
	mutex           sync.RWMutex
	ttl             time.Duration
	maxEntries      int
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
}

// CacheConfig holds configuration for the result cache.
type CacheConfig struct {
	TTL             time.Duration // How long entries stay valid
	MaxEntries      int           // Maximum number of entries before cleanup
	CleanupInterval time.Duration // How often to run cleanup
}

// DefaultCacheConfig provides sensible defaults for result caching.
var DefaultCacheConfig = CacheConfig{
	TTL:             15 * time.Minute,
	MaxEntries:      1000,
	CleanupInterval: 5 * time.Minute,
}

// NewCache creates a result cache with the given configuration and
// starts its cleanup goroutine. Call Close when done.
func NewCache(config CacheConfig) *Cache {
	if config.TTL <= 0 {
		config.TTL = DefaultCacheConfig.TTL
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultCacheConfig.MaxEntries
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultCacheConfig.CleanupInterval
	}

	cache := &Cache{
		entries:         make(map[string]*cacheEntry),
		ttl:             config.TTL,
		maxEntries:      config.MaxEntries,
		cleanupInterval: config.CleanupInterval,
		stopCleanup:     make(chan struct{}),
	}

	go cache.cleanupLoop()

	return cache
}

// cacheKey hashes everything that determines a result: the operation,
// the full config, and the query window.
func cacheKey(operation string, cfg Config, rangeStart, rangeEnd time.Time) string {
	hasher := sha256.New()

	hasher.Write([]byte(operation))
	hasher.Write([]byte(cfg.Type))
	hasher.Write([]byte(cfg.Start.Format(time.RFC3339Nano)))
	// Field tags keep {End: x} and {Until: x} from hashing identically.
	if cfg.End != nil {
		hasher.Write([]byte("end:" + cfg.End.Format(time.RFC3339Nano)))
	}
	if cfg.Until != nil {
		hasher.Write([]byte("until:" + cfg.Until.Format(time.RFC3339Nano)))
	}
	hasher.Write([]byte(strconv.Itoa(cfg.Count)))
	hasher.Write([]byte(rangeStart.Format(time.RFC3339Nano)))
	hasher.Write([]byte(rangeEnd.Format(time.RFC3339Nano)))

	return fmt.Sprintf("%x", hasher.Sum(nil))
}

// get retrieves a cached result if it exists and hasn't expired.
func (c *Cache) get(operation string, cfg Config, rangeStart, rangeEnd time.Time) (interface{}, bool) {
	key := cacheKey(operation, cfg, rangeStart, rangeEnd)

	c.mutex.RLock()
	entry, exists := c.entries[key]
	c.mutex.RUnlock()

	if !exists {
		return nil, false
	}

	now := time.Now()
	if now.After(entry.expiresAt) {
		c.mutex.Lock()
		delete(c.entries, key)
		c.mutex.Unlock()
		return nil, false
	}

	c.mutex.Lock()
	entry.accessedAt = now
	c.mutex.Unlock()

	return entry.result, true
}

// set stores a result in the cache.
func (c *Cache) set(operation string, cfg Config, rangeStart, rangeEnd time.Time, result interface{}) {
	key := cacheKey(operation, cfg, rangeStart, rangeEnd)
	now := time.Now()

	entry := &cacheEntry{
		result:     result,
		expiresAt:  now.Add(c.ttl),
		accessedAt: now,
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = entry

	if len(c.entries) > c.maxEntries {
		c.cleanup()
	}
}

// cleanup removes expired entries and the least recently accessed
// entries while over the limit. Caller must hold the write lock.
func (c *Cache) cleanup() {
	now := time.Now()

	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}

	for len(c.entries) > c.maxEntries {
		var oldestKey string
		var oldestAccess time.Time
		for key, entry := range c.entries {
			if oldestKey == "" || entry.accessedAt.Before(oldestAccess) {
				oldestKey = key
				oldestAccess = entry.accessedAt
			}
		}
		delete(c.entries, oldestKey)
	}
}

// cleanupLoop runs periodic cleanup.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mutex.Lock()
			c.cleanup()
			c.mutex.Unlock()
		case <-c.stopCleanup:
			return
		}
	}
}

// Close stops the cleanup goroutine and clears the cache.
func (c *Cache) Close() {
	close(c.stopCleanup)
	c.mutex.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mutex.Unlock()
}

// Stats returns cache statistics.
func (c *Cache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entryCount := len(c.entries)
	expiredCount := 0
	now := time.Now()

	for _, entry := range c.entries {
		if now.After(entry.expiresAt) {
			expiredCount++
		}
	}

	return CacheStats{
		TotalEntries:   entryCount,
		ExpiredEntries: expiredCount,
		ActiveEntries:  entryCount - expiredCount,
	}
}

// CacheStats provides information about cache usage.
type CacheStats struct {
	TotalEntries   int
	ExpiredEntries int
	ActiveEntries  int
}
