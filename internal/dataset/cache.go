package dataset

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/marketpulse/campaign-insights/internal/metrics"
	"go.uber.org/zap"
)

// Cache hands out one RowStore per source identity, loading each
// source at most once. Subsequent calls for the same identity return
// the cached snapshot, so every consumer of a session shares the same
// immutable view of the data.
type Cache struct {
	mu      sync.Mutex
	stores  map[string]*RowStore
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewCache creates an empty dataset cache. metrics may be nil.
func NewCache(logger *zap.Logger, m *metrics.Metrics) *Cache {
	return &Cache{
		stores:  make(map[string]*RowStore),
		logger:  logger,
		metrics: m,
	}
}

// Get returns the RowStore for the source, loading it on first use.
// Concurrent callers for the same identity observe a single load.
func (c *Cache) Get(ctx context.Context, src Source) (*RowStore, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	identity := src.Identity()
	if store, ok := c.stores[identity]; ok {
		return store, nil
	}

	start := time.Now()
	rows, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", identity, err)
	}

	store := NewRowStore(identity, rows)
	c.stores[identity] = store

	c.logger.Info("dataset loaded",
		zap.String("source", identity),
		zap.String("load_id", store.LoadID().String()),
		zap.Int("rows", store.Len()),
		zap.Duration("duration", time.Since(start)),
	)
	if c.metrics != nil {
		c.metrics.RecordLoad(identity, store.Len(), time.Since(start))
	}

	return store, nil
}

// Evict drops the cached snapshot for a source identity, forcing the
// next Get to reload.
func (c *Cache) Evict(identity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.stores, identity)
}
