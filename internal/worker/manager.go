package worker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Worker is a background task with an explicit lifecycle
type Worker interface {
	Start(ctx context.Context) error
	Stop()
	Name() string
}

// Manager starts registered workers in order and stops them in reverse
type Manager struct {
	logger *zap.Logger

	mu         sync.Mutex
	registered []Worker
	running    []Worker
}

// NewManager creates an empty manager
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger}
}

// Register adds a worker; it is started by the next StartAll
func (m *Manager) Register(w Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registered = append(m.registered, w)
}

// StartAll starts every registered worker. When one fails, the workers already
// started are stopped again and the failure is returned.
func (m *Manager) StartAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.running) > 0 {
		return fmt.Errorf("workers already running")
	}

	for _, w := range m.registered {
		if err := w.Start(ctx); err != nil {
			m.logger.Error("Failed to start worker", zap.String("name", w.Name()), zap.Error(err))
			m.stopRunning()
			return fmt.Errorf("start %s: %w", w.Name(), err)
		}
		m.running = append(m.running, w)
		m.logger.Info("Worker started", zap.String("name", w.Name()))
	}
	return nil
}

// StopAll stops the running workers, last started first
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopRunning()
}

func (m *Manager) stopRunning() {
	for i := len(m.running) - 1; i >= 0; i-- {
		m.running[i].Stop()
		m.logger.Info("Worker stopped", zap.String("name", m.running[i].Name()))
	}
	m.running = nil
}

// Count returns the number of registered workers
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.registered)
}

// Running reports whether StartAll succeeded and StopAll has not been called since
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.running) > 0
}
