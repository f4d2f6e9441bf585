package postgres

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/internal/config"
)

// Pool wraps pgxpool with the idempotent connect check the services call per request.
type Pool struct {
	*pgxpool.Pool

	logger *zap.Logger
	name   string

	mu    sync.Mutex
	ready bool
}

// NewPool builds a pgx connection pool. pgxpool dials lazily; nothing is
// contacted until EnsureConnected or the first query.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Pool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pgxCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		pgxCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		pgxCfg.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.MaxConnLifetime > 0 {
		pgxCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, err
	}

	return &Pool{Pool: pool, logger: logger, name: cfg.Name}, nil
}

// EnsureConnected pings once; later calls return immediately.
func (p *Pool) EnsureConnected(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready {
		return nil
	}
	if err := p.Pool.Ping(ctx); err != nil {
		return err
	}
	p.ready = true
	p.logger.Info("connected to postgres", zap.String("db", p.name))
	return nil
}

// Close releases the pool and logs the result.
func Close(pool *Pool, logger *zap.Logger) {
	if pool == nil || pool.Pool == nil {
		return
	}
	pool.Pool.Close()
	if logger != nil {
		logger.Info("postgres pool closed")
	}
}
