// Package cache holds budget summaries between writes and remembers
// logged-out session tokens.
//
// Cache failures never fail a request: reads degrade to misses and writes
// are logged and dropped.
package cache

import (
	"context"
	"time"
)

// SummaryCache stores serialized summaries per user.
//
// Each user has a generation that Invalidate advances. A reader takes the
// generation before loading from the store and hands it back to Set, which
// drops the value if a write invalidated the user in between.
type SummaryCache interface {
	// Get returns the cached value for key, if present and fresh.
	Get(ctx context.Context, userID, key string) ([]byte, bool)

	// Generation returns the user's current generation.
	Generation(ctx context.Context, userID string) uint64

	// Set stores value under key for the cache's TTL, unless the user's
	// generation is no longer gen.
	Set(ctx context.Context, userID, key string, gen uint64, value []byte)

	// Invalidate drops every entry of userID and advances its generation.
	Invalidate(ctx context.Context, userID string)
}

// Nop caches nothing.
type Nop struct{}

func (Nop) Get(context.Context, string, string) ([]byte, bool)  { return nil, false }
func (Nop) Generation(context.Context, string) uint64           { return 0 }
func (Nop) Set(context.Context, string, string, uint64, []byte) {}
func (Nop) Invalidate(context.Context, string)                  {}

// nowFunc is replaced in tests.
var nowFunc = time.Now
