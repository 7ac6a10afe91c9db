package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"page-slicer/internal/slices"
)

// Cache keeps the slices already produced for a document so unchanged
// documents skip re-slicing.
type Cache interface {
	// GetSlices returns the cached records for key; ok is false on a miss.
	GetSlices(ctx context.Context, key string) (recs []slices.Record, ok bool, err error)

	// SetSlices stores records under key with a TTL.
	SetSlices(ctx context.Context, key string, recs []slices.Record, ttl time.Duration) error

	// Close closes the cache connection
	Close() error
}

// Key hashes the given parts into a cache key. Each part is length-prefixed
// so different splits of the same bytes never collide.
func Key(parts ...[]byte) string {
	h := sha256.New()
	var size [8]byte
	for _, p := range parts {
		n := uint64(len(p))
		for i := range size {
			size[i] = byte(n >> (8 * i))
		}
		h.Write(size[:])
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
