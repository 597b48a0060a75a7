package lifecycle

import (
	"context"
	"errors"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// StopFunc releases one component during shutdown.
type StopFunc func(ctx context.Context) error

type registration struct {
	name string
	stop StopFunc
}

// Manager tracks the components the process owns and tears them down in
// reverse registration order once the application context ends.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu    sync.Mutex
	stack []registration
	done  bool
}

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

// Context derives the application context: it is cancelled on SIGTERM or
// SIGINT. The returned stop func releases the signal handler.
func (m *Manager) Context(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGTERM, syscall.SIGINT)
}

// Register pushes a component onto the shutdown stack. Later registrations
// stop first.
func (m *Manager) Register(name string, stop StopFunc) {
	if stop == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stack = append(m.stack, registration{name: name, stop: stop})
}

// Shutdown stops every registered component under the configured timeout.
// It runs at most once; repeated calls are no-ops.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return nil
	}
	m.done = true

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var result error
	for i := len(m.stack) - 1; i >= 0; i-- {
		r := m.stack[i]
		started := time.Now()
		if err := r.stop(ctx); err != nil {
			m.logger.Error("component stop failed", zap.String("component", r.name), zap.Error(err))
			result = errors.Join(result, err)
			continue
		}
		m.logger.Info("component stopped",
			zap.String("component", r.name),
			zap.Duration("took", time.Since(started)))
	}
	return result
}
