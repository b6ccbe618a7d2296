package feed

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Snapshot is one parsed feed download.
type Snapshot struct {
	Rows      []map[string]string
	FetchedAt time.Time
}

// Cache memoizes the parsed feed for a fixed TTL. The clock is injected so
// expiry is testable without sleeping.
type Cache struct {
	mu        sync.RWMutex
	ttl       time.Duration
	now       func() time.Time
	group     singleflight.Group
	value     Snapshot
	expiresAt time.Time
}

func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{ttl: ttl, now: now}
}

type cacheResult struct {
	snapshot Snapshot
	cached   bool
}

// Get returns the memoized snapshot while it is fresh, otherwise refreshes
// it through fetch. Concurrent refreshes collapse into a single upstream
// call; every waiter receives the same snapshot. The bool reports whether
// the snapshot came from the cache.
func (c *Cache) Get(ctx context.Context, fetch func(ctx context.Context) ([]map[string]string, error)) (Snapshot, bool, error) {
	if snapshot, ok := c.fresh(); ok {
		return snapshot, true, nil
	}

	v, err, _ := c.group.Do("feed", func() (interface{}, error) {
		// A previous flight may have refreshed the entry while this caller
		// was checking freshness.
		if snapshot, ok := c.fresh(); ok {
			return cacheResult{snapshot: snapshot, cached: true}, nil
		}

		rows, err := fetch(ctx)
		if err != nil {
			return cacheResult{}, err
		}

		snapshot := Snapshot{Rows: rows, FetchedAt: c.now()}

		c.mu.Lock()
		c.value = snapshot
		c.expiresAt = snapshot.FetchedAt.Add(c.ttl)
		c.mu.Unlock()

		return cacheResult{snapshot: snapshot}, nil
	})
	if err != nil {
		return Snapshot{}, false, err
	}

	result := v.(cacheResult)
	return result.snapshot, result.cached, nil
}

// Invalidate expires the current entry immediately. The next Get refetches.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.expiresAt = time.Time{}
	c.mu.Unlock()
}

func (c *Cache) fresh() (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.expiresAt.IsZero() || !c.now().Before(c.expiresAt) {
		return Snapshot{}, false
	}
	return c.value, true
}
