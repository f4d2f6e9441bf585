package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// StartFunc brings a component up. ShutdownFunc takes it down again.
type (
	StartFunc    func(ctx context.Context) error
	ShutdownFunc func(ctx context.Context) error
)

type component struct {
	name  string
	start StartFunc
	stop  ShutdownFunc
}

// Manager starts components in registration order and stops them in reverse.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu         sync.Mutex
	components []component
	started    int
}

// New creates a lifecycle manager with the desired shutdown timeout.
func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		timeout: timeout,
		logger:  logger,
	}
}

// Add registers a component. Either function may be nil.
func (m *Manager) Add(name string, start StartFunc, stop ShutdownFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components = append(m.components, component{name: name, start: start, stop: stop})
}

// Register adds a shutdown-only hook.
func (m *Manager) Register(name string, fn ShutdownFunc) {
	if fn == nil {
		return
	}
	m.Add(name, nil, fn)
}

// Start runs every start hook in order. When one fails, the components
// already started are stopped before the error is returned.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	components := append([]component(nil), m.components[m.started:]...)
	m.mu.Unlock()

	for _, c := range components {
		if c.start != nil {
			if err := c.start(ctx); err != nil {
				shutdownErr := m.Shutdown(context.Background())
				return errors.Join(fmt.Errorf("start %s: %w", c.name, err), shutdownErr)
			}
			m.logger.Info("component started", zap.String("component", c.name))
		}
		m.mu.Lock()
		m.started++
		m.mu.Unlock()
	}
	return nil
}

// Shutdown stops started components in reverse order, respecting the configured timeout.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.mu.Lock()
	defer m.mu.Unlock()

	var result error
	for i := m.started - 1; i >= 0; i-- {
		c := m.components[i]
		if c.stop == nil {
			continue
		}
		if err := c.stop(ctx); err != nil {
			m.logger.Error("shutdown hook failed", zap.String("component", c.name), zap.Error(err))
			result = errors.Join(result, err)
			continue
		}
		m.logger.Info("component stopped", zap.String("component", c.name))
	}
	m.started = 0
	return result
}

// Listen returns a context cancelled on SIGINT or SIGTERM.
func (m *Manager) Listen(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGTERM, os.Interrupt)
	go func() {
		<-ctx.Done()
		if parent.Err() == nil {
			m.logger.Info("shutdown signal received")
		}
	}()
	return ctx, cancel
}
