// Package container wires the desk's adapters, services and workers and owns
// their lifecycle.
package container

import (
	"context"
	"fmt"
	"io"

	"github.com/garyjia/default-desk/internal/application/port"
	"github.com/garyjia/default-desk/internal/application/service"
	"github.com/garyjia/default-desk/internal/config"
	"github.com/garyjia/default-desk/internal/domain/entity"
	"github.com/garyjia/default-desk/internal/infrastructure/export"
	"github.com/garyjia/default-desk/internal/infrastructure/external/backend"
	infraLark "github.com/garyjia/default-desk/internal/infrastructure/external/lark"
	"github.com/garyjia/default-desk/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/default-desk/internal/infrastructure/storage"
	"github.com/garyjia/default-desk/internal/session"
	"github.com/garyjia/default-desk/internal/worker"
	"github.com/garyjia/default-desk/pkg/database"
	"github.com/garyjia/default-desk/pkg/utils"
	"go.uber.org/zap"
)

// SessionBundle holds the session store and whatever must be closed with it
type SessionBundle struct {
	Store  *session.Store
	Closer io.Closer
}

// ServiceDeps holds the dependencies of the application services
type ServiceDeps struct {
	Backend  port.Backend
	Session  port.SessionStore
	Notifier port.Notifier
	Exporter port.Exporter
	Logger   *zap.Logger
}

// ProvideSessionStore opens the configured key-value driver and wraps it in a session store.
// The sqlite driver runs pending migrations before returning.
func ProvideSessionStore(ctx context.Context, cfg *config.SessionConfig, logger *zap.Logger) (*SessionBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("session config is required")
	}

	var kv port.KeyValueStore
	var closer io.Closer

	switch cfg.Driver {
	case config.SessionDriverMemory, "":
		kv = session.NewMemoryStore()
	case config.SessionDriverFile:
		kv = storage.NewFileKVStore(cfg.Path, logger)
	case config.SessionDriverSQLite:
		db, err := database.New(database.Config{
			Path:            cfg.Path,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open session database: %w", err)
		}
		if err := database.NewMigrator(db, logger).Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate session database: %w", err)
		}
		kv = sqlite.NewKVStore(db.DB, logger)
		closer = db
	default:
		return nil, fmt.Errorf("unknown session driver %q", cfg.Driver)
	}

	return &SessionBundle{
		Store:  session.NewStore(kv, cfg.Key, logger),
		Closer: closer,
	}, nil
}

// ProvideBackend creates the workflow backend client
func ProvideBackend(cfg *config.BackendConfig, logger *zap.Logger) (*backend.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("backend config is required")
	}
	return backend.NewClient(backend.Config{
		BaseURL:   cfg.BaseURL,
		APIPrefix: cfg.APIPrefix,
		Timeout:   cfg.Timeout,
	}, logger), nil
}

// ProvideNotifier returns a Lark notifier, or a no-op one when Lark is not configured
func ProvideNotifier(cfg *config.LarkConfig, logger *zap.Logger) port.Notifier {
	return infraLark.NewNotifierFromConfig(infraLark.Config{
		AppID:     cfg.AppID,
		AppSecret: cfg.AppSecret,
		ChatID:    cfg.ChatID,
	}, logger)
}

// ProvideExporter creates the workbook exporter
func ProvideExporter(logger *zap.Logger) port.Exporter {
	return export.NewExcelExporter(logger)
}

// ProvideServices creates every application service
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil || deps.Backend == nil || deps.Session == nil {
		return nil, fmt.Errorf("backend and session are required")
	}
	logger := utils.NewServiceLogger(deps.Logger)

	customers := service.NewCustomerService(deps.Backend)
	reasons := service.NewReasonService(deps.Backend, logger)
	defaults := service.NewDefaultApplicationService(deps.Backend, deps.Session, deps.Notifier, logger)
	recoveries := service.NewRecoveryApplicationService(deps.Backend, deps.Session, deps.Notifier, logger)

	return &ServiceBundle{
		Auth:                 service.NewAuthService(deps.Backend, deps.Session, logger),
		Customers:            customers,
		Reasons:              reasons,
		DefaultReasons:       service.NewReasonCatalog(entity.ReasonKindDefault, reasons),
		RecoveryReasons:      service.NewReasonCatalog(entity.ReasonKindRecovery, reasons),
		Forms:                service.NewFormLoader(customers, reasons),
		DefaultApplications:  defaults,
		RecoveryApplications: recoveries,
		Statistics:           service.NewStatisticsService(deps.Backend, deps.Exporter, logger),
		Health:               service.NewHealthService(deps.Backend),
	}, nil
}

// ProvideWorkers creates the worker manager. The pending poller is registered
// only for a positive interval.
func ProvideWorkers(cfg *config.PollerConfig, services *ServiceBundle, notifier port.Notifier, logger *zap.Logger) *worker.Manager {
	manager := worker.NewManager(logger)
	if cfg.Interval > 0 {
		manager.Register(worker.NewPendingPoller(
			[]worker.PendingSource{
				services.DefaultApplications.Board(),
				services.RecoveryApplications.Board(),
			},
			notifier,
			cfg.Interval,
			logger,
		))
	}
	return manager
}
