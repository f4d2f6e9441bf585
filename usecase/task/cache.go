package task

import (
	"context"
	"strings"
	"time"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/repository"
)

const cacheNamespace = "tasks"

// CachePrefix is shared by every cached list of owner. The trailing separator
// keeps one owner's prefix from matching another id that merely starts with it.
func CachePrefix(owner string) string {
	return cacheNamespace + ":" + owner + ":"
}

// CacheKey derives the key for a normalized query. The due-date window is not
// part of the key.
func CacheKey(owner string, query domain.TaskQuery) string {
	query = query.Normalized()
	status := string(query.Status)
	if status == "" {
		status = "all"
	}
	var b strings.Builder
	b.WriteString(CachePrefix(owner))
	b.WriteString("status:")
	b.WriteString(status)
	b.WriteString(":sort:")
	b.WriteString(string(query.SortBy))
	b.WriteString(":order:")
	b.WriteString(string(query.Order))
	return b.String()
}

// NopCache never stores anything; the service behaves correctly, only slower.
type NopCache struct{}

var _ repository.TaskCache = NopCache{}

func (NopCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NopCache) InvalidateByPrefix(context.Context, string) error         { return nil }
