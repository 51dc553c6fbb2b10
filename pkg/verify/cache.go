package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"veredito-hq/veredito/pkg/process"
	"veredito-hq/veredito/pkg/telemetry/metrics"
)

// Fingerprint is a stable cache key derived from the decision-relevant
// fields of a process record.
type Fingerprint string

// NewFingerprint derives the cache key for a record. It covers only the
// fields that affect the decision (process number, sphere, condemnation
// value): two records differing only in documents or movements share a
// fingerprint.
func NewFingerprint(record *process.Record) Fingerprint {
	value := "-"
	if record.CondemnationValue != nil {
		value = strconv.FormatFloat(*record.CondemnationValue, 'f', 2, 64)
	}

	h := sha256.New()
	h.Write([]byte(record.Number))
	h.Write([]byte{0})
	h.Write([]byte(record.Sphere))
	h.Write([]byte{0})
	h.Write([]byte(value))
	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}

// cacheEntry is a stored decision with its creation timestamp.
type cacheEntry struct {
	result    process.DecisionResult
	createdAt time.Time
}

// ResultCache maps record fingerprints to previously computed classifier
// decisions, deduplicating paid external calls. Entries expire lazily on
// read after the configured TTL; a background sweep removes entries no one
// reads. All operations are safe under concurrent use.
type ResultCache struct {
	entries map[Fingerprint]*cacheEntry
	ttl     time.Duration
	metrics *metrics.CacheMetrics

	mu sync.RWMutex

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewResultCache creates a result cache with the given TTL. A nil metrics
// group disables instrumentation. The background sweep runs at half the
// TTL, bounded below at ten seconds.
func NewResultCache(ttl time.Duration, cacheMetrics *metrics.CacheMetrics) *ResultCache {
	c := &ResultCache{
		entries: make(map[Fingerprint]*cacheEntry),
		ttl:     ttl,
		metrics: cacheMetrics,
		stopCh:  make(chan struct{}),
	}

	if ttl > 0 {
		interval := ttl / 2
		if interval < 10*time.Second {
			interval = 10 * time.Second
		}
		go c.sweep(interval)
	}

	return c
}

// Get returns the cached decision for the key, or absent. A stored entry
// older than the TTL is evicted on this read and reported absent.
func (c *ResultCache) Get(key Fingerprint) (*process.DecisionResult, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	if !ok {
		c.mu.RUnlock()
		c.recordMiss()
		return nil, false
	}

	if c.expired(entry, time.Now()) {
		c.mu.RUnlock()

		c.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have
		// refreshed the entry.
		if entry, ok := c.entries[key]; ok && c.expired(entry, time.Now()) {
			delete(c.entries, key)
			if c.metrics != nil {
				c.metrics.RecordEviction()
				c.metrics.UpdateSize(len(c.entries))
			}
		}
		c.mu.Unlock()

		c.recordMiss()
		return nil, false
	}

	result := entry.result
	c.mu.RUnlock()

	if c.metrics != nil {
		c.metrics.RecordHit()
	}
	return &result, true
}

// Set stores or overwrites the decision for the key with the current
// timestamp. Last write wins under concurrent misses for the same key.
func (c *ResultCache) Set(key Fingerprint, result *process.DecisionResult) {
	c.mu.Lock()
	c.entries[key] = &cacheEntry{
		result:    *result,
		createdAt: time.Now(),
	}
	size := len(c.entries)
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.UpdateSize(size)
	}
}

// Clear removes all entries. Operator action, synchronous.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	cleared := len(c.entries)
	c.entries = make(map[Fingerprint]*cacheEntry)
	c.mu.Unlock()

	if c.metrics != nil {
		for i := 0; i < cleared; i++ {
			c.metrics.RecordEviction()
		}
		c.metrics.UpdateSize(0)
	}
}

// Size returns the current number of entries, including not-yet-swept
// expired ones.
func (c *ResultCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// EntryStats describes one cache entry for observability.
type EntryStats struct {
	ProcessNumber string        `json:"process_number"`
	Age           time.Duration `json:"age"`
}

// Stats is a point-in-time snapshot of the cache for observability.
type Stats struct {
	Count   int           `json:"count"`
	TTL     time.Duration `json:"ttl"`
	Entries []EntryStats  `json:"entries"`
}

// Stats returns a snapshot of the cache contents.
func (c *ResultCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now()
	stats := Stats{
		Count:   len(c.entries),
		TTL:     c.ttl,
		Entries: make([]EntryStats, 0, len(c.entries)),
	}
	for _, entry := range c.entries {
		stats.Entries = append(stats.Entries, EntryStats{
			ProcessNumber: entry.result.ProcessNumber,
			Age:           now.Sub(entry.createdAt),
		})
	}
	return stats
}

// Close stops the background sweep goroutine.
func (c *ResultCache) Close() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

// expired reports whether the entry's age exceeds the TTL.
func (c *ResultCache) expired(entry *cacheEntry, now time.Time) bool {
	return c.ttl > 0 && now.Sub(entry.createdAt) > c.ttl
}

// sweep periodically removes expired entries until Close is called.
func (c *ResultCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCh:
			return
		}
	}
}

// removeExpired removes all expired entries.
func (c *ResultCache) removeExpired() {
	now := time.Now()

	c.mu.Lock()
	evicted := 0
	for key, entry := range c.entries {
		if c.expired(entry, now) {
			delete(c.entries, key)
			evicted++
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	if c.metrics != nil && evicted > 0 {
		for i := 0; i < evicted; i++ {
			c.metrics.RecordEviction()
		}
		c.metrics.UpdateSize(size)
	}
}

// recordMiss records a cache miss if metrics are enabled.
func (c *ResultCache) recordMiss() {
	if c.metrics != nil {
		c.metrics.RecordMiss()
	}
}
