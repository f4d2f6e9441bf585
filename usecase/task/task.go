package task

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/pkg/logger"
	"github.com/fastygo/tasktracker/repository"
	"github.com/fastygo/tasktracker/usecase"
)

// DefaultCacheTTL bounds how long a cached list may be served.
const DefaultCacheTTL = 5 * time.Minute

type UseCase struct {
	tasks  repository.TaskRepository
	cache  repository.TaskCache
	buffer usecase.InvalidationBuffer
	conn   usecase.Connector
	ttl    time.Duration
	logger *zap.Logger
}

type Option func(*UseCase)

// WithCache puts cache in front of List. Without it every list hits the store.
func WithCache(cache repository.TaskCache, ttl time.Duration) Option {
	return func(uc *UseCase) {
		if cache != nil {
			uc.cache = cache
		}
		if ttl > 0 {
			uc.ttl = ttl
		}
	}
}

// WithInvalidationBuffer hands failed invalidations to buffer for replay.
func WithInvalidationBuffer(buffer usecase.InvalidationBuffer) Option {
	return func(uc *UseCase) { uc.buffer = buffer }
}

// WithConnector makes every operation call conn.EnsureConnected first.
func WithConnector(conn usecase.Connector) Option {
	return func(uc *UseCase) { uc.conn = conn }
}

func New(tasks repository.TaskRepository, logger *zap.Logger, opts ...Option) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	uc := &UseCase{
		tasks:  tasks,
		cache:  NopCache{},
		ttl:    DefaultCacheTTL,
		logger: logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ListTasks returns the owner's tasks matching query. The cached value covers
// status and sort only; the due-date window is applied here on every call, so a
// cached list is always re-filtered for the requested range.
func (uc *UseCase) ListTasks(ctx context.Context, owner string, query domain.TaskQuery) ([]domain.Task, error) {
	query = query.Normalized()
	if err := usecase.EnsureConnected(ctx, uc.conn); err != nil {
		return nil, err
	}
	log := logger.WithRequestID(ctx, uc.logger)

	key := CacheKey(owner, query)
	tasks, hit := uc.fromCache(ctx, log, key)
	if !hit {
		var err error
		tasks, err = uc.tasks.List(ctx, repository.TaskFilter{
			Owner:  owner,
			Status: query.Status,
			SortBy: query.SortBy,
			Order:  query.Order,
		})
		if err != nil {
			return nil, err
		}
		uc.toCache(ctx, log, key, tasks)
	}

	return filterRange(tasks, owner, query), nil
}

func (uc *UseCase) CreateTask(ctx context.Context, owner string, input domain.CreateTaskInput) (*domain.Task, error) {
	task, err := input.ToTask(owner)
	if err != nil {
		return nil, err
	}
	if err := usecase.EnsureConnected(ctx, uc.conn); err != nil {
		return nil, err
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, owner)
	return created, nil
}

// UpdateTask applies input to the task if owner owns it. A task owned by
// someone else is reported as not found, same as a missing one.
func (uc *UseCase) UpdateTask(ctx context.Context, id, owner string, input domain.UpdateTaskInput) (*domain.Task, error) {
	patch, err := input.ToPatch()
	if err != nil {
		return nil, err
	}
	if err := usecase.EnsureConnected(ctx, uc.conn); err != nil {
		return nil, err
	}

	updated, err := uc.tasks.Update(ctx, id, owner, patch)
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, owner)
	return updated, nil
}

// DeleteTask removes the task if owner owns it.
func (uc *UseCase) DeleteTask(ctx context.Context, id, owner string) error {
	if err := usecase.EnsureConnected(ctx, uc.conn); err != nil {
		return err
	}
	if err := uc.tasks.Delete(ctx, id, owner); err != nil {
		return err
	}

	uc.invalidate(ctx, owner)
	return nil
}

func (uc *UseCase) fromCache(ctx context.Context, log *zap.Logger, key string) ([]domain.Task, bool) {
	raw, found, err := uc.cache.Get(ctx, key)
	if err != nil {
		log.Warn("task cache read failed, falling back to store", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !found {
		return nil, false
	}

	var tasks []domain.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		log.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return tasks, true
}

func (uc *UseCase) toCache(ctx context.Context, log *zap.Logger, key string, tasks []domain.Task) {
	raw, err := json.Marshal(tasks)
	if err != nil {
		log.Warn("task list not cacheable", zap.Error(err))
		return
	}
	if err := uc.cache.Set(ctx, key, raw, uc.ttl); err != nil {
		log.Warn("task cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// invalidate drops every cached list of owner. Failures never reach the caller;
// they are buffered for replay when a buffer is configured.
func (uc *UseCase) invalidate(ctx context.Context, owner string) {
	prefix := CachePrefix(owner)
	err := uc.cache.InvalidateByPrefix(ctx, prefix)
	if err == nil {
		return
	}

	log := logger.WithRequestID(ctx, uc.logger).With(zap.String("prefix", prefix))
	if uc.buffer == nil {
		log.Warn("task cache invalidation failed", zap.Error(err))
		return
	}
	if bufErr := uc.buffer.BufferInvalidation(ctx, prefix); bufErr != nil {
		log.Error("failed to buffer cache invalidation", zap.Error(err), zap.NamedError("buffer_error", bufErr))
		return
	}
	log.Warn("task cache invalidation buffered", zap.Error(err))
}

func filterRange(tasks []domain.Task, owner string, query domain.TaskQuery) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Owner != owner {
			continue
		}
		if query.HasRange() && !query.InRange(t.DueDate) {
			continue
		}
		out = append(out, t)
	}
	return out
}
