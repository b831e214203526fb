package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/garyjia/default-desk/internal/domain/apperr"
	"github.com/garyjia/default-desk/internal/domain/entity"
	"go.uber.org/zap"
)

// Client implements the backend ports over the /api HTTP surface
type Client struct {
	transport *Transport
	logger    *zap.Logger
}

// NewClient creates a backend client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	return &Client{
		transport: NewTransport(cfg, logger),
		logger:    logger,
	}
}

func reasonsPath(kind entity.ReasonKind) (string, error) {
	switch kind {
	case entity.ReasonKindDefault:
		return "/default-reasons", nil
	case entity.ReasonKindRecovery:
		return "/recovery-reasons", nil
	}
	return "", apperr.NewValidation("kind", fmt.Sprintf("未知的原因类型: %s", kind))
}

// ListCustomers implements port.CustomerAPI
func (c *Client) ListCustomers(ctx context.Context) ([]entity.Customer, error) {
	records, err := call[[]CustomerRecord](ctx, c.transport, request{method: http.MethodGet, path: "/customers"})
	if err != nil {
		return nil, err
	}
	return DecodeCustomers(records), nil
}

// ListDefaultedCustomers implements port.CustomerAPI
func (c *Client) ListDefaultedCustomers(ctx context.Context) ([]entity.Customer, error) {
	records, err := call[[]CustomerRecord](ctx, c.transport, request{method: http.MethodGet, path: "/customers/defaulted"})
	if err != nil {
		return nil, err
	}
	return DecodeCustomers(records), nil
}

// ListReasons implements port.ReasonAPI
func (c *Client) ListReasons(ctx context.Context, kind entity.ReasonKind) ([]entity.Reason, error) {
	path, err := reasonsPath(kind)
	if err != nil {
		return nil, err
	}

	records, err := call[[]ReasonRecord](ctx, c.transport, request{method: http.MethodGet, path: path})
	if err != nil {
		return nil, err
	}
	return DecodeReasons(records), nil
}

// GetReason implements port.ReasonAPI
func (c *Client) GetReason(ctx context.Context, kind entity.ReasonKind, id string) (*entity.Reason, error) {
	path, err := reasonsPath(kind)
	if err != nil {
		return nil, err
	}

	record, err := call[*ReasonRecord](ctx, c.transport, request{
		method: http.MethodGet,
		path:   path + "/" + url.PathEscape(id),
	})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperr.NewRequestFailed("", http.StatusOK)
	}

	reason := DecodeReason(*record, 1)
	return &reason, nil
}

// SetReasonEnabled implements port.ReasonAPI
func (c *Client) SetReasonEnabled(ctx context.Context, kind entity.ReasonKind, id string, enabled bool) (entity.Ack, error) {
	path, err := reasonsPath(kind)
	if err != nil {
		return entity.Ack{}, err
	}

	return c.transport.callAck(ctx, request{
		method: http.MethodPut,
		path:   path + "/" + url.PathEscape(id) + "/enable",
		body:   enableRequest{IsEnabled: Flag(enabled)},
	})
}

// CreateDefaultApplication implements port.DefaultApplicationAPI
func (c *Client) CreateDefaultApplication(ctx context.Context, in entity.DefaultApplicationInput) (entity.Ack, error) {
	return c.transport.callAck(ctx, request{
		method: http.MethodPost,
		path:   "/default-applications",
		body:   encodeDefaultApplicationRequest(in),
	})
}

// ListDefaultApplications implements port.DefaultApplicationAPI
func (c *Client) ListDefaultApplications(ctx context.Context, filter entity.ApplicationFilter) ([]entity.DefaultApplication, error) {
	records, err := call[[]DefaultApplicationRecord](ctx, c.transport, request{
		method: http.MethodGet,
		path:   "/default-applications",
		query:  FilterQuery(filter),
	})
	if err != nil {
		return nil, err
	}
	return DecodeDefaultApplications(records), nil
}

// AuditDefaultApplication implements port.DefaultApplicationAPI
func (c *Client) AuditDefaultApplication(ctx context.Context, id string, in entity.AuditInput) (entity.Ack, error) {
	body, err := encodeAuditRequest(in)
	if err != nil {
		return entity.Ack{}, err
	}

	return c.transport.callAck(ctx, request{
		method: http.MethodPost,
		path:   "/default-applications/" + url.PathEscape(id) + "/audit",
		body:   body,
	})
}

// CreateRecoveryApplication implements port.RecoveryApplicationAPI
func (c *Client) CreateRecoveryApplication(ctx context.Context, in entity.RecoveryApplicationInput) (entity.Ack, error) {
	return c.transport.callAck(ctx, request{
		method: http.MethodPost,
		path:   "/recovery-applications",
		body:   encodeRecoveryApplicationRequest(in),
	})
}

// ListRecoveryApplications implements port.RecoveryApplicationAPI
func (c *Client) ListRecoveryApplications(ctx context.Context, filter entity.ApplicationFilter) ([]entity.RecoveryApplication, error) {
	records, err := call[[]RecoveryApplicationRecord](ctx, c.transport, request{
		method: http.MethodGet,
		path:   "/recovery-applications",
		query:  FilterQuery(filter),
	})
	if err != nil {
		return nil, err
	}
	return DecodeRecoveryApplications(records), nil
}

// AuditRecoveryApplication implements port.RecoveryApplicationAPI
func (c *Client) AuditRecoveryApplication(ctx context.Context, id string, in entity.AuditInput) (entity.Ack, error) {
	body, err := encodeAuditRequest(in)
	if err != nil {
		return entity.Ack{}, err
	}

	return c.transport.callAck(ctx, request{
		method: http.MethodPost,
		path:   "/recovery-applications/" + url.PathEscape(id) + "/audit",
		body:   body,
	})
}

// Login implements port.AuthAPI
func (c *Client) Login(ctx context.Context, creds entity.Credentials) (*entity.UserProfile, error) {
	record, err := call[*UserRecord](ctx, c.transport, request{
		method: http.MethodPost,
		path:   "/login",
		body:   loginRequest{Username: creds.Username, Password: creds.Password},
	})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperr.NewRequestFailed("", http.StatusOK)
	}

	profile := DecodeUser(*record)
	return &profile, nil
}

// Register implements port.AuthAPI
func (c *Client) Register(ctx context.Context, in entity.RegisterInput) (entity.Ack, error) {
	return c.transport.callAck(ctx, request{
		method: http.MethodPost,
		path:   "/register",
		body: registerRequest{
			Username:   in.Username,
			Password:   in.Password,
			RealName:   in.RealName,
			Department: in.Department,
			Role:       in.Role,
			Email:      in.Email,
			Phone:      in.Phone,
		},
	})
}

// Statistics implements port.StatisticsAPI
func (c *Client) Statistics(ctx context.Context) (*entity.Statistics, error) {
	record, err := call[StatisticsRecord](ctx, c.transport, request{method: http.MethodGet, path: "/statistics"})
	if err != nil {
		return nil, err
	}

	stats := DecodeStatistics(record)
	return &stats, nil
}

// Health implements port.HealthAPI. GET /test is served outside the /api prefix
// and only its HTTP status is inspected.
func (c *Client) Health(ctx context.Context) error {
	req := request{method: http.MethodGet, path: "/test", noPrefix: true}

	resp, err := c.transport.do(ctx, req)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return c.transport.transportError(req, resp.statusCode, apperr.ErrUnexpectedStatus)
	}
	return nil
}

// FilterQuery encodes the non-empty filters. Status is sent as the backend's audit value.
func FilterQuery(filter entity.ApplicationFilter) url.Values {
	q := url.Values{}
	add := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}

	add("customer_id", filter.CustomerID)
	add("customer_name", filter.CustomerName)
	if filter.Status != "" {
		if v, ok := EncodeStatus(filter.Status); ok {
			add("status", v)
		} else {
			add("status", string(filter.Status))
		}
	}
	add("start_date", filter.StartDate)
	add("end_date", filter.EndDate)
	add("reviewer", filter.Reviewer)

	return q
}

func encodeAuditRequest(in entity.AuditInput) (auditRequest, error) {
	status, ok := EncodeDecision(in.Decision)
	if !ok {
		return auditRequest{}, apperr.NewValidation("decision", "审核结果只能是同意或拒绝")
	}
	return auditRequest{
		AuditorID:    in.AuditorID,
		AuditStatus:  status,
		AuditRemarks: in.Remarks,
	}, nil
}
