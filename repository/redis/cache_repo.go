package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/tasktracker/repository"
)

const scanBatch = 100

type cacheRepository struct {
	client redislib.UniversalClient
	ttl    time.Duration
}

// NewCacheRepository creates a Redis-backed TaskCache. ttl applies when Set is
// called without one.
func NewCacheRepository(client redislib.UniversalClient, ttl time.Duration) repository.TaskCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &cacheRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	result, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return result, true, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.ttl
	}
	return r.client.Set(ctx, key, value, ttl).Err()
}

// InvalidateByPrefix walks the keyspace with SCAN rather than KEYS so large
// keyspaces do not block the server, deleting matches batch by batch.
func (r *cacheRepository) InvalidateByPrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, MatchPattern(prefix), scanBatch).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

var globEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
)

// MatchPattern turns a literal key prefix into a SCAN MATCH pattern.
func MatchPattern(prefix string) string {
	return globEscaper.Replace(prefix) + "*"
}
