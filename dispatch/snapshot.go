package dispatch

import (
	"context"
	"sync"
	"time"
)

// DefaultSnapshotTTL is how long a cached page snapshot stays usable.
const DefaultSnapshotTTL = 5 * time.Second

// SnapshotFunc captures the current page. Capturing is expensive, so the
// cache in front of it is what every dispatch actually talks to.
type SnapshotFunc func(ctx context.Context) ([]byte, error)

// SnapshotCache reuses a recent capture unless it is stale or the page
// identity changed. Safe for concurrent use.
type SnapshotCache struct {
	fetch SnapshotFunc
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	data    []byte
	pageURL string
	takenAt time.Time
}

// NewSnapshotCache wraps fetch with a TTL cache; zero ttl means
// DefaultSnapshotTTL.
func NewSnapshotCache(fetch SnapshotFunc, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &SnapshotCache{fetch: fetch, ttl: ttl, now: time.Now}
}

// Get returns a snapshot for pageURL, capturing a fresh one only when the
// cached copy is stale or belongs to another page. A failed refresh falls
// back to the stale copy when one exists.
func (c *SnapshotCache) Get(ctx context.Context, pageURL string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	fresh := c.data != nil && c.pageURL == pageURL && now.Sub(c.takenAt) < c.ttl
	if fresh {
		return c.data, nil
	}

	data, err := c.fetch(ctx)
	if err != nil {
		if c.data != nil && c.pageURL == pageURL {
			return c.data, nil
		}
		return nil, err
	}
	c.data = data
	c.pageURL = pageURL
	c.takenAt = now
	return data, nil
}

// Invalidate drops the cached snapshot.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
	c.pageURL = ""
}
