package sheets

import (
	"context"
	"sync"
	"time"

	"github.com/mamadbah2/flockwatch/internal/domain/models"
)

// CachedSource keeps the last loaded snapshot for ttl so bursts of requests
// share one workbook read. Callers must treat the returned dataset as read-only.
type CachedSource struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	mu         sync.RWMutex
	cached     *models.FarmDataset
	loadedAt   time.Time
	generation uint64
}

// NewCachedSource wraps source. A non-positive ttl disables caching.
func NewCachedSource(source Source, ttl time.Duration) *CachedSource {
	return &CachedSource{source: source, ttl: ttl, now: time.Now}
}

// Load returns the cached snapshot while it is fresh, otherwise reloads it.
func (c *CachedSource) Load(ctx context.Context) (*models.FarmDataset, error) {
	ds, gen := c.fresh()
	if ds != nil {
		return ds, nil
	}

	ds, err := c.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	// a snapshot read before an Invalidate is served once but never stored
	c.mu.Lock()
	if c.generation == gen {
		c.cached = ds
		c.loadedAt = c.now()
	}
	c.mu.Unlock()

	return ds, nil
}

// Invalidate drops the cached snapshot, typically after a row was appended.
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
	c.generation++
}

// fresh returns the cached snapshot if still valid, along with the current generation.
func (c *CachedSource) fresh() (*models.FarmDataset, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.ttl <= 0 || c.cached == nil || c.now().Sub(c.loadedAt) >= c.ttl {
		return nil, c.generation
	}
	return c.cached, c.generation
}
