package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PingFunc reports whether a dependency is reachable.
type PingFunc func(ctx context.Context) error

// SizeFunc reports how many invalidations are waiting in the journal.
type SizeFunc func() (int, error)

type check struct {
	name string
	ping PingFunc
}

type Monitor struct {
	checks  []check
	cache   string
	journal SizeFunc

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

type Option func(*Monitor)

// WithCheck registers a dependency under name.
func WithCheck(name string, ping PingFunc) Option {
	return func(m *Monitor) {
		if ping != nil {
			m.checks = append(m.checks, check{name: name, ping: ping})
		}
	}
}

// WithCacheCheck registers the list cache. IsCacheOnline follows its result.
func WithCacheCheck(name string, ping PingFunc) Option {
	return func(m *Monitor) {
		if ping == nil {
			return
		}
		m.cache = name
		m.checks = append(m.checks, check{name: name, ping: ping})
	}
}

// WithJournal reports the invalidation journal under "buffer".
func WithJournal(size SizeFunc) Option {
	return func(m *Monitor) { m.journal = size }
}

func New(interval time.Duration, logger *zap.Logger, opts ...Option) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Monitor{
		interval: interval,
		timeout:  3 * time.Second,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// IsCacheOnline reports the last cache check. It is false when no cache is registered.
func (m *Monitor) IsCacheOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cache == "" {
		return false
	}
	return m.status.Services[m.cache]
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.clone()
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Refresh(context.Background())
	for {
		select {
		case <-ticker.C:
			m.Refresh(context.Background())
		case <-m.stopCh:
			return
		}
	}
}

// Refresh runs every check once and stores the result.
func (m *Monitor) Refresh(ctx context.Context) Status {
	status := Status{
		Services:  make(map[string]bool, len(m.checks)+1),
		LastCheck: time.Now().UTC(),
	}
	for _, c := range m.checks {
		status.Services[c.name] = m.ping(ctx, c)
	}
	if m.journal != nil {
		size, err := m.journal()
		if err != nil {
			m.logger.Warn("buffer size check failed", zap.Error(err))
		}
		status.Services["buffer"] = err == nil
		status.BufferSize = size
	}

	m.mu.Lock()
	previous := m.status
	m.status = status
	m.mu.Unlock()

	for name, up := range status.Services {
		if was, seen := previous.Services[name]; seen && was != up {
			m.logger.Info("dependency state changed", zap.String("service", name), zap.Bool("online", up))
		}
	}
	return status.clone()
}

func (m *Monitor) ping(ctx context.Context, c check) bool {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if err := c.ping(ctx); err != nil {
		m.logger.Debug("dependency check failed", zap.String("service", c.name), zap.Error(err))
		return false
	}
	return true
}
