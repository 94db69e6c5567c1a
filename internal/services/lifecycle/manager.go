package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// StopFunc shuts one component down. It must respect ctx cancellation.
type StopFunc func(ctx context.Context) error

type registration struct {
	name string
	stop StopFunc
}

// Manager owns the shutdown sequence. Components register in startup order
// and are stopped in the reverse order, so consumers go down before the
// stores they read from.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu         sync.Mutex
	registered []registration
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

// Register adds a named stop hook.
func (m *Manager) Register(name string, stop StopFunc) {
	if stop == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registered = append(m.registered, registration{name: name, stop: stop})
}

// Shutdown stops every registered component, newest first, under the
// configured timeout. All hooks run even when earlier ones fail; errors are
// joined into the return value.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var result error
	for i := len(m.registered) - 1; i >= 0; i-- {
		r := m.registered[i]
		started := time.Now()
		if err := r.stop(ctx); err != nil {
			m.logger.Error("shutdown hook failed", zap.String("component", r.name), zap.Error(err))
			result = errors.Join(result, err)
			continue
		}
		m.logger.Info("component stopped",
			zap.String("component", r.name),
			zap.Duration("took", time.Since(started)),
		)
	}
	return result
}

// Listen wires SIGTERM/SIGINT to the provided cancel function.
func (m *Manager) Listen(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigCh)
		sig := <-sigCh
		m.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()
}
