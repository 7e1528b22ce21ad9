package cache

import (
	"context"
	"time"
)

// Entry is a cached rendered response.
type Entry struct {
	Body        []byte `json:"body"`
	ContentType string `json:"content_type"`
}

// Cache is the time-bounded response cache contract. The backend offers
// no key enumeration; the coordinator keeps its own key index.
type Cache interface {
	// Get returns the cached entry, or nil on a miss or expiry.
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
