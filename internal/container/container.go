package container

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/garyjia/default-desk/internal/application/port"
	"github.com/garyjia/default-desk/internal/application/service"
	"github.com/garyjia/default-desk/internal/config"
	"github.com/garyjia/default-desk/internal/infrastructure/external/backend"
	"github.com/garyjia/default-desk/internal/session"
	"github.com/garyjia/default-desk/internal/worker"
	"go.uber.org/zap"
)

// Container manages all desk dependencies and their lifecycle.
// Components start in dependency order and close in reverse.
type Container struct {
	config *config.Config
	logger *zap.Logger

	// Infrastructure
	session       *session.Store
	sessionCloser io.Closer
	backend       *backend.Client
	notifier      port.Notifier
	exporter      port.Exporter

	// Application
	services *ServiceBundle

	// Workers
	workers *worker.Manager

	// Lifecycle
	mu     sync.Mutex
	cancel context.CancelFunc
	ready  atomic.Bool
	closed atomic.Bool
}

// ServiceBundle groups all application services
type ServiceBundle struct {
	Auth                 service.AuthService
	Customers            service.CustomerService
	Reasons              service.ReasonService
	DefaultReasons       *service.ReasonCatalog
	RecoveryReasons      *service.ReasonCatalog
	Forms                *service.FormLoader
	DefaultApplications  service.DefaultApplicationService
	RecoveryApplications service.RecoveryApplicationService
	Statistics           service.StatisticsService
	Health               service.HealthService
}

// HealthStatus represents the health of all components
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components:
// 1. Session storage
// 2. Backend client, notifier and exporter
// 3. Application services
// 4. Workers
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	ctx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization")

	sessionBundle, err := ProvideSessionStore(ctx, &c.config.Session, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize session storage: %w", err)
	}
	c.session = sessionBundle.Store
	c.sessionCloser = sessionBundle.Closer
	c.logger.Info("Session storage initialized", zap.String("driver", c.config.Session.Driver))

	c.backend, err = ProvideBackend(&c.config.Backend, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize backend client: %w", err)
	}
	c.notifier = ProvideNotifier(&c.config.Lark, c.logger)
	c.exporter = ProvideExporter(c.logger)
	c.logger.Info("External clients initialized", zap.String("backend", c.config.Backend.BaseURL))

	c.services, err = ProvideServices(&ServiceDeps{
		Backend:  c.backend,
		Session:  c.session,
		Notifier: c.notifier,
		Exporter: c.exporter,
		Logger:   c.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.logger.Info("Application services initialized")

	c.workers = ProvideWorkers(&c.config.Poller, c.services, c.notifier, c.logger)
	if err := c.workers.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	c.logger.Info("Workers started", zap.Int("count", c.workers.Count()))

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

// Close shuts down all components in reverse order
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	if c.cancel != nil {
		c.cancel()
	}

	if c.workers != nil {
		c.workers.StopAll()
		c.logger.Info("Workers stopped")
	}

	var closeErr error
	if c.sessionCloser != nil {
		if err := c.sessionCloser.Close(); err != nil {
			c.logger.Error("Failed to close session storage", zap.Error(err))
			closeErr = fmt.Errorf("close session storage: %w", err)
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if closeErr != nil {
		return closeErr
	}
	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health checks the backend and reports the local components
func (c *Container) Health(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	if c.services == nil {
		status.Overall = false
		status.Components["services"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		return status
	}

	if err := c.services.Health.Check(ctx); err != nil {
		status.Overall = false
		status.Components["backend"] = ComponentHealth{Healthy: false, Message: err.Error()}
	} else {
		status.Components["backend"] = ComponentHealth{Healthy: true}
	}

	status.Components["session"] = ComponentHealth{Healthy: true, Message: c.config.Session.Driver}

	if c.workers != nil {
		healthy := c.workers.Count() == 0 || c.workers.Running()
		status.Components["workers"] = ComponentHealth{
			Healthy: healthy,
			Message: fmt.Sprintf("worker count: %d", c.workers.Count()),
		}
		if !healthy {
			status.Overall = false
		}
	}

	return status
}

// Services returns all application services
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Session returns the session store
func (c *Container) Session() *session.Store {
	return c.session
}

// Logger returns the container's logger
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration
func (c *Container) Config() *config.Config {
	return c.config
}
