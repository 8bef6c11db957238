// Package cache defines the optional byte cache used to keep per-user file
// listings warm. The registry remains authoritative; every mutation
// invalidates the affected users' entries.
package cache

import "context"

// Cache is a minimal byte cache. A nil Cache value is valid and means
// caching is disabled.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte) error
	Del(ctx context.Context, keys ...string) error
}
