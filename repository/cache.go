package repository

import (
	"context"
	"time"
)

// TaskCache fronts list queries. It is never authoritative.
type TaskCache interface {
	// Get reports found=false on a miss.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	InvalidateByPrefix(ctx context.Context, prefix string) error
}
