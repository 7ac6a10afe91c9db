package cache

import (
	"context"
	"time"

	"page-slicer/internal/slices"
)

// NoOpCache is a cache implementation that does nothing.
// Used when Redis is not configured or unreachable: every lookup misses.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// GetSlices always misses.
func (c *NoOpCache) GetSlices(ctx context.Context, key string) ([]slices.Record, bool, error) {
	return nil, false, nil
}

// SetSlices does nothing and always succeeds
func (c *NoOpCache) SetSlices(ctx context.Context, key string, recs []slices.Record, ttl time.Duration) error {
	return nil
}

// Close does nothing and always succeeds
func (c *NoOpCache) Close() error {
	return nil
}
