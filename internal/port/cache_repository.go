package port

import (
	"context"
	"time"
)

// CacheRepository is the listing cache. All operations are best-effort from
// the caller's point of view: a cache failure must never fail a request.
type CacheRepository interface {
	// Get returns the cached payload, or (nil, nil) on a miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set upserts a payload under key with the given TTL.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// DeleteByPattern removes every key matching the glob pattern and
	// reports how many were removed.
	DeleteByPattern(ctx context.Context, pattern string) (int, error)

	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)
}
