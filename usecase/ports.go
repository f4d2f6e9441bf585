package usecase

import (
	"context"
	"time"
)

// Connector is implemented by store handles that connect lazily.
// EnsureConnected must be idempotent and cheap once connected.
type Connector interface {
	EnsureConnected(ctx context.Context) error
}

// EnsureConnected calls c when it is set.
func EnsureConnected(ctx context.Context, c Connector) error {
	if c == nil {
		return nil
	}
	return c.EnsureConnected(ctx)
}

// InvalidationBuffer takes cache prefixes whose invalidation failed so they can
// be retried once the cache is reachable again.
type InvalidationBuffer interface {
	BufferInvalidation(ctx context.Context, prefix string) error
}

// PasswordHasher is the one-way password function.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// TokenIssuer issues session tokens.
type TokenIssuer interface {
	Issue(userID string) (token string, expiresAt time.Time, err error)
}
