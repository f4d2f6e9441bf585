package services

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/internal/infrastructure/buffer"
	"github.com/fastygo/tasktracker/repository"
)

// CacheHealth abstracts the connection monitor functionality.
type CacheHealth interface {
	IsCacheOnline() bool
}

// ProcessorConfig controls how frequently the journal is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// BufferProcessor replays journaled cache invalidations once the cache is back.
type BufferProcessor struct {
	store   *buffer.Store
	monitor CacheHealth
	cache   repository.TaskCache
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     ProcessorConfig
}

func NewBufferProcessor(
	store *buffer.Store,
	monitor CacheHealth,
	cache repository.TaskCache,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *BufferProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BufferProcessor{
		store:   store,
		monitor: monitor,
		cache:   cache,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	if _, err := bp.cron.AddFunc("@every "+cfg.Interval.String(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := bp.Drain(ctx); err != nil {
			bp.logger.Error("buffer drain failed", zap.Error(err))
		}
	}); err != nil {
		bp.logger.Error("buffer drain not scheduled", zap.Duration("interval", cfg.Interval), zap.Error(err))
	}

	return bp
}

// SetHealth sets the cache health source consulted before each drain.
func (bp *BufferProcessor) SetHealth(monitor CacheHealth) {
	bp.monitor = monitor
}

// Start launches the cron scheduler.
func (bp *BufferProcessor) Start() {
	if bp == nil || bp.cron == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("buffer processor started", zap.Duration("interval", bp.cfg.Interval))
}

// Stop gracefully stops the scheduler.
func (bp *BufferProcessor) Stop(ctx context.Context) {
	if bp == nil || bp.cron == nil {
		return
	}
	stopCtx := bp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	bp.logger.Info("buffer processor stopped")
}

// Drain replays one batch of journaled invalidations synchronously.
func (bp *BufferProcessor) Drain(ctx context.Context) error {
	if bp == nil || bp.store == nil || bp.cache == nil {
		return nil
	}

	if removed, err := bp.store.Cleanup(time.Now().UTC().Add(-bp.cfg.Retention)); err != nil {
		bp.logger.Warn("buffer cleanup failed", zap.Error(err))
	} else if removed > 0 {
		bp.logger.Warn("expired buffered invalidations dropped", zap.Int("count", removed))
	}

	if bp.monitor != nil && !bp.monitor.IsCacheOnline() {
		bp.logger.Debug("skipping buffer drain (cache offline)")
		return nil
	}

	items, err := bp.store.GetBatch(bp.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := bp.cache.InvalidateByPrefix(ctx, item.Prefix); err != nil {
			bp.logger.Warn("buffered invalidation failed",
				zap.String("prefix", item.Prefix),
				zap.Int("retries", item.Retries),
				zap.Error(err))

			item.Retries++
			if item.Retries >= bp.cfg.MaxRetries {
				bp.logger.Error("dropping buffered invalidation (max retries reached)", zap.String("prefix", item.Prefix))
				_ = bp.store.Remove(item)
				continue
			}
			if err := bp.store.Requeue(item); err != nil {
				bp.logger.Error("failed to requeue buffered invalidation", zap.Error(err))
			}
			continue
		}

		if err := bp.store.Remove(item); err != nil {
			bp.logger.Warn("failed to purge replayed invalidation", zap.Error(err))
		}
	}
	return nil
}

// BufferInvalidation journals prefix for a later Drain.
func (bp *BufferProcessor) BufferInvalidation(ctx context.Context, prefix string) error {
	if bp == nil || bp.store == nil {
		return errors.New("buffer processor not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return bp.store.Enqueue(buffer.Item{Prefix: prefix})
}

// Size returns the number of buffered items.
func (bp *BufferProcessor) Size() int {
	if bp == nil || bp.store == nil {
		return 0
	}
	size, err := bp.store.Size()
	if err != nil {
		return 0
	}
	return size
}
