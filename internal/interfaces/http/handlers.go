package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/default-desk/internal/application/service"
	"github.com/garyjia/default-desk/internal/container"
	"github.com/garyjia/default-desk/internal/domain/apperr"
	"github.com/garyjia/default-desk/internal/domain/entity"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// malformedRequestMessage is shown when a request body or query cannot be bound
const malformedRequestMessage = "请求格式错误"

// Handlers contains all HTTP request handlers
type Handlers struct {
	services *container.ServiceBundle
	health   func(ctx context.Context) *container.HealthStatus
	logger   Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services *container.ServiceBundle, health func(ctx context.Context) *container.HealthStatus, logger Logger) *Handlers {
	return &Handlers{services: services, health: health, logger: logger}
}

// Response is the JSON envelope returned to the view layer
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Field     string      `json:"field,omitempty"`
	Retryable bool        `json:"retryable,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string                               `json:"status"`
	Timestamp  string                               `json:"timestamp"`
	Components map[string]container.ComponentHealth `json:"components"`
}

// ToggleReasonRequest is the body of PUT /desk/reasons/:kind/:id/enable
type ToggleReasonRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// respondError maps the three error classes to a notification the view can show.
// Rejections keep the backend's message verbatim.
func (h *Handlers) respondError(c *gin.Context, err error) {
	var ve *apperr.ValidationError
	var rf *apperr.RequestFailedError
	var te *apperr.TransportError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: ve.Message, Field: ve.Field})
	case errors.As(err, &rf):
		c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Message: rf.Message})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, Response{Success: false, Message: apperr.TransportFailureMessage, Retryable: true})
	case errors.As(err, &te):
		c.JSON(http.StatusBadGateway, Response{Success: false, Message: apperr.TransportFailureMessage, Retryable: true})
	default:
		h.logger.Error("Unhandled error", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Message: apperr.UserMessage(err)})
	}
}

func (h *Handlers) respondMalformed(c *gin.Context, err error) {
	h.logger.Warn("Malformed request", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusBadRequest, Response{Success: false, Message: malformedRequestMessage})
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func ack(c *gin.Context, a entity.Ack) {
	c.JSON(http.StatusOK, Response{Success: true, Message: a.Message})
}

func attachment(c *gin.Context, name string, buf *bytes.Buffer) {
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// HealthCheck handles GET /health. An unhealthy component answers 503 with the
// component report so the view can still show which part is down.
func (h *Handlers) HealthCheck(c *gin.Context) {
	status := h.health(c.Request.Context())
	resp := HealthResponse{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: status.Components,
	}
	if !status.Overall {
		resp.Status = "unhealthy"
		h.logger.Warn("Health check failed", "components", status.Components)
		c.JSON(http.StatusServiceUnavailable, Response{
			Success:   false,
			Data:      resp,
			Message:   apperr.TransportFailureMessage,
			Retryable: true,
		})
		return
	}
	ok(c, resp)
}

// Login handles POST /desk/login
func (h *Handlers) Login(c *gin.Context) {
	var creds entity.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		h.respondMalformed(c, err)
		return
	}

	profile, err := h.services.Auth.Login(c.Request.Context(), creds)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, profile)
}

// Logout handles POST /desk/logout
func (h *Handlers) Logout(c *gin.Context) {
	if err := h.services.Auth.Logout(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, nil)
}

// Register handles POST /desk/register
func (h *Handlers) Register(c *gin.Context) {
	var in entity.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.respondMalformed(c, err)
		return
	}

	a, err := h.services.Auth.Register(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ack(c, a)
}

// CurrentSession handles GET /desk/session. Signed out yields null data.
func (h *Handlers) CurrentSession(c *gin.Context) {
	ok(c, h.services.Auth.CurrentUser(c.Request.Context()))
}

// ListCustomers handles GET /desk/customers
func (h *Handlers) ListCustomers(c *gin.Context) {
	customers, err := h.services.Customers.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, customers)
}

// ListDefaultedCustomers handles GET /desk/customers/defaulted
func (h *Handlers) ListDefaultedCustomers(c *gin.Context) {
	customers, err := h.services.Customers.ListDefaulted(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, customers)
}

func (h *Handlers) catalog(kind string) (*service.ReasonCatalog, error) {
	switch entity.ReasonKind(kind) {
	case entity.ReasonKindDefault:
		return h.services.DefaultReasons, nil
	case entity.ReasonKindRecovery:
		return h.services.RecoveryReasons, nil
	}
	return nil, apperr.NewValidation("kind", "未知的原因类型")
}

// ListReasons handles GET /desk/reasons/:kind
func (h *Handlers) ListReasons(c *gin.Context) {
	catalog, err := h.catalog(c.Param("kind"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	reasons, err := catalog.Load(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, reasons)
}

// GetReason handles GET /desk/reasons/:kind/:id
func (h *Handlers) GetReason(c *gin.Context) {
	reason, err := h.services.Reasons.Get(c.Request.Context(), entity.ReasonKind(c.Param("kind")), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, reason)
}

// ToggleReason handles PUT /desk/reasons/:kind/:id/enable and returns the catalogue
// as it stands afterwards, rolled back when the backend refused.
func (h *Handlers) ToggleReason(c *gin.Context) {
	catalog, err := h.catalog(c.Param("kind"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req ToggleReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondMalformed(c, err)
		return
	}

	ctx := c.Request.Context()
	if len(catalog.Items()) == 0 {
		if _, err := catalog.Load(ctx); err != nil {
			h.respondError(c, err)
			return
		}
	}

	a, err := catalog.Toggle(ctx, c.Param("id"), *req.Enabled)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Message: a.Message, Data: catalog.Items()})
}

// DefaultForm handles GET /desk/forms/default
func (h *Handlers) DefaultForm(c *gin.Context) {
	form, err := h.services.Forms.LoadDefaultForm(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, form)
}

// RecoveryForm handles GET /desk/forms/recovery
func (h *Handlers) RecoveryForm(c *gin.Context) {
	form, err := h.services.Forms.LoadRecoveryForm(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, form)
}

// CreateDefaultApplication handles POST /desk/default-applications
func (h *Handlers) CreateDefaultApplication(c *gin.Context) {
	var in entity.DefaultApplicationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.respondMalformed(c, err)
		return
	}

	a, err := h.services.DefaultApplications.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ack(c, a)
}

func (h *Handlers) listDefaultApplications(c *gin.Context) ([]entity.DefaultApplication, bool) {
	var filter entity.ApplicationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.respondMalformed(c, err)
		return nil, false
	}

	apps, err := h.services.DefaultApplications.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}
	return apps, true
}

// ListDefaultApplications handles GET /desk/default-applications
func (h *Handlers) ListDefaultApplications(c *gin.Context) {
	if apps, listed := h.listDefaultApplications(c); listed {
		ok(c, apps)
	}
}

// PendingDefaultApplications handles GET /desk/default-applications/pending
func (h *Handlers) PendingDefaultApplications(c *gin.Context) {
	board := h.services.DefaultApplications.Board()
	if err := board.RefreshPending(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, board.Pending())
}

// ExportDefaultApplications handles GET /desk/default-applications/export
func (h *Handlers) ExportDefaultApplications(c *gin.Context) {
	apps, listed := h.listDefaultApplications(c)
	if !listed {
		return
	}

	var buf bytes.Buffer
	if err := h.services.Statistics.ExportDefaultApplications(&buf, apps); err != nil {
		h.respondError(c, err)
		return
	}
	attachment(c, "default-applications.xlsx", &buf)
}

// AuditDefaultApplication handles POST /desk/default-applications/:id/audit
func (h *Handlers) AuditDefaultApplication(c *gin.Context) {
	var in entity.AuditInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.respondMalformed(c, err)
		return
	}

	a, err := h.services.DefaultApplications.Audit(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ack(c, a)
}

// CreateRecoveryApplication handles POST /desk/recovery-applications
func (h *Handlers) CreateRecoveryApplication(c *gin.Context) {
	var in entity.RecoveryApplicationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.respondMalformed(c, err)
		return
	}

	a, err := h.services.RecoveryApplications.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ack(c, a)
}

func (h *Handlers) listRecoveryApplications(c *gin.Context) ([]entity.RecoveryApplication, bool) {
	var filter entity.ApplicationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.respondMalformed(c, err)
		return nil, false
	}

	apps, err := h.services.RecoveryApplications.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}
	return apps, true
}

// ListRecoveryApplications handles GET /desk/recovery-applications
func (h *Handlers) ListRecoveryApplications(c *gin.Context) {
	if apps, listed := h.listRecoveryApplications(c); listed {
		ok(c, apps)
	}
}

// PendingRecoveryApplications handles GET /desk/recovery-applications/pending
func (h *Handlers) PendingRecoveryApplications(c *gin.Context) {
	board := h.services.RecoveryApplications.Board()
	if err := board.RefreshPending(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, board.Pending())
}

// ExportRecoveryApplications handles GET /desk/recovery-applications/export
func (h *Handlers) ExportRecoveryApplications(c *gin.Context) {
	apps, listed := h.listRecoveryApplications(c)
	if !listed {
		return
	}

	var buf bytes.Buffer
	if err := h.services.Statistics.ExportRecoveryApplications(&buf, apps); err != nil {
		h.respondError(c, err)
		return
	}
	attachment(c, "recovery-applications.xlsx", &buf)
}

// AuditRecoveryApplication handles POST /desk/recovery-applications/:id/audit
func (h *Handlers) AuditRecoveryApplication(c *gin.Context) {
	var in entity.AuditInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.respondMalformed(c, err)
		return
	}

	a, err := h.services.RecoveryApplications.Audit(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ack(c, a)
}

// GetStatistics handles GET /desk/statistics
func (h *Handlers) GetStatistics(c *gin.Context) {
	stats, err := h.services.Statistics.Get(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, stats)
}

// ExportStatistics handles GET /desk/statistics/export
func (h *Handlers) ExportStatistics(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.services.Statistics.ExportStatistics(c.Request.Context(), &buf); err != nil {
		h.respondError(c, err)
		return
	}
	attachment(c, "statistics.xlsx", &buf)
}
