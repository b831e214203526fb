package service

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/garyjia/default-desk/internal/domain/entity"
	"github.com/garyjia/default-desk/internal/session"
	"github.com/garyjia/default-desk/pkg/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockBackend mocks every backend port
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ListCustomers(ctx context.Context) ([]entity.Customer, error) {
	args := m.Called(ctx)
	customers, _ := args.Get(0).([]entity.Customer)
	return customers, args.Error(1)
}

func (m *MockBackend) ListDefaultedCustomers(ctx context.Context) ([]entity.Customer, error) {
	args := m.Called(ctx)
	customers, _ := args.Get(0).([]entity.Customer)
	return customers, args.Error(1)
}

func (m *MockBackend) ListReasons(ctx context.Context, kind entity.ReasonKind) ([]entity.Reason, error) {
	args := m.Called(ctx, kind)
	reasons, _ := args.Get(0).([]entity.Reason)
	return reasons, args.Error(1)
}

func (m *MockBackend) GetReason(ctx context.Context, kind entity.ReasonKind, id string) (*entity.Reason, error) {
	args := m.Called(ctx, kind, id)
	reason, _ := args.Get(0).(*entity.Reason)
	return reason, args.Error(1)
}

func (m *MockBackend) SetReasonEnabled(ctx context.Context, kind entity.ReasonKind, id string, enabled bool) (entity.Ack, error) {
	args := m.Called(ctx, kind, id, enabled)
	return args.Get(0).(entity.Ack), args.Error(1)
}

func (m *MockBackend) CreateDefaultApplication(ctx context.Context, in entity.DefaultApplicationInput) (entity.Ack, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(entity.Ack), args.Error(1)
}

func (m *MockBackend) ListDefaultApplications(ctx context.Context, filter entity.ApplicationFilter) ([]entity.DefaultApplication, error) {
	args := m.Called(ctx, filter)
	apps, _ := args.Get(0).([]entity.DefaultApplication)
	return apps, args.Error(1)
}

func (m *MockBackend) AuditDefaultApplication(ctx context.Context, id string, in entity.AuditInput) (entity.Ack, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(entity.Ack), args.Error(1)
}

func (m *MockBackend) CreateRecoveryApplication(ctx context.Context, in entity.RecoveryApplicationInput) (entity.Ack, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(entity.Ack), args.Error(1)
}

func (m *MockBackend) ListRecoveryApplications(ctx context.Context, filter entity.ApplicationFilter) ([]entity.RecoveryApplication, error) {
	args := m.Called(ctx, filter)
	apps, _ := args.Get(0).([]entity.RecoveryApplication)
	return apps, args.Error(1)
}

func (m *MockBackend) AuditRecoveryApplication(ctx context.Context, id string, in entity.AuditInput) (entity.Ack, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(entity.Ack), args.Error(1)
}

func (m *MockBackend) Login(ctx context.Context, creds entity.Credentials) (*entity.UserProfile, error) {
	args := m.Called(ctx, creds)
	profile, _ := args.Get(0).(*entity.UserProfile)
	return profile, args.Error(1)
}

func (m *MockBackend) Register(ctx context.Context, in entity.RegisterInput) (entity.Ack, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(entity.Ack), args.Error(1)
}

func (m *MockBackend) Statistics(ctx context.Context) (*entity.Statistics, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*entity.Statistics)
	return stats, args.Error(1)
}

func (m *MockBackend) Health(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// mockNotifier records notices
type mockNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (n *mockNotifier) Notify(ctx context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
	return n.err
}

// mockExporter writes a marker per call
type mockExporter struct {
	err error
}

func (e *mockExporter) WriteDefaultApplications(w io.Writer, apps []entity.DefaultApplication) error {
	if e.err != nil {
		return e.err
	}
	_, err := io.WriteString(w, "default")
	return err
}

func (e *mockExporter) WriteRecoveryApplications(w io.Writer, apps []entity.RecoveryApplication) error {
	if e.err != nil {
		return e.err
	}
	_, err := io.WriteString(w, "recovery")
	return err
}

func (e *mockExporter) WriteStatistics(w io.Writer, stats *entity.Statistics) error {
	if e.err != nil {
		return e.err
	}
	_, err := io.WriteString(w, "statistics")
	return err
}

func testLogger() Logger {
	return utils.NewServiceLogger(zap.NewNop())
}

// newSignedInSession returns a session store with userID signed in, or signed out when empty
func newSignedInSession(t *testing.T, userID string) *session.Store {
	t.Helper()
	store := session.NewStore(session.NewMemoryStore(), "", zap.NewNop())
	if userID != "" {
		require.NoError(t, store.SaveCurrentUser(context.Background(), entity.UserProfile{UserID: userID}))
	}
	return store
}
