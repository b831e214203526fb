package port

import (
	"context"
	"io"

	"github.com/garyjia/default-desk/internal/domain/entity"
)

// CustomerAPI defines customer lookups against the backend
type CustomerAPI interface {
	ListCustomers(ctx context.Context) ([]entity.Customer, error)
	ListDefaultedCustomers(ctx context.Context) ([]entity.Customer, error)
}

// ReasonAPI defines reason catalogue operations for both kinds
type ReasonAPI interface {
	ListReasons(ctx context.Context, kind entity.ReasonKind) ([]entity.Reason, error)
	GetReason(ctx context.Context, kind entity.ReasonKind, id string) (*entity.Reason, error)
	SetReasonEnabled(ctx context.Context, kind entity.ReasonKind, id string, enabled bool) (entity.Ack, error)
}

// DefaultApplicationAPI defines the default application workflow endpoints
type DefaultApplicationAPI interface {
	CreateDefaultApplication(ctx context.Context, in entity.DefaultApplicationInput) (entity.Ack, error)
	ListDefaultApplications(ctx context.Context, filter entity.ApplicationFilter) ([]entity.DefaultApplication, error)
	AuditDefaultApplication(ctx context.Context, id string, in entity.AuditInput) (entity.Ack, error)
}

// RecoveryApplicationAPI defines the recovery application workflow endpoints
type RecoveryApplicationAPI interface {
	CreateRecoveryApplication(ctx context.Context, in entity.RecoveryApplicationInput) (entity.Ack, error)
	ListRecoveryApplications(ctx context.Context, filter entity.ApplicationFilter) ([]entity.RecoveryApplication, error)
	AuditRecoveryApplication(ctx context.Context, id string, in entity.AuditInput) (entity.Ack, error)
}

// AuthAPI defines login and registration
type AuthAPI interface {
	Login(ctx context.Context, creds entity.Credentials) (*entity.UserProfile, error)
	Register(ctx context.Context, in entity.RegisterInput) (entity.Ack, error)
}

// StatisticsAPI defines the aggregate statistics endpoint
type StatisticsAPI interface {
	Statistics(ctx context.Context) (*entity.Statistics, error)
}

// HealthAPI defines the backend liveness check
type HealthAPI interface {
	Health(ctx context.Context) error
}

// Backend is the full backend surface
type Backend interface {
	CustomerAPI
	ReasonAPI
	DefaultApplicationAPI
	RecoveryApplicationAPI
	AuthAPI
	StatisticsAPI
	HealthAPI
}

// Notifier delivers short text notices to reviewers
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Exporter writes query results as spreadsheet workbooks
type Exporter interface {
	WriteDefaultApplications(w io.Writer, apps []entity.DefaultApplication) error
	WriteRecoveryApplications(w io.Writer, apps []entity.RecoveryApplication) error
	WriteStatistics(w io.Writer, stats *entity.Statistics) error
}
