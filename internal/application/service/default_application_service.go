package service

import (
	"context"
	"fmt"

	"github.com/garyjia/default-desk/internal/application/port"
	"github.com/garyjia/default-desk/internal/domain/apperr"
	"github.com/garyjia/default-desk/internal/domain/entity"
	"github.com/garyjia/default-desk/internal/domain/workflow"
)

// DefaultApplicationService submits, queries and audits default applications
type DefaultApplicationService interface {
	Create(ctx context.Context, in entity.DefaultApplicationInput) (entity.Ack, error)
	List(ctx context.Context, filter entity.ApplicationFilter) ([]entity.DefaultApplication, error)
	Audit(ctx context.Context, applicationID string, in entity.AuditInput) (entity.Ack, error)
	Board() *ReviewBoard[entity.DefaultApplication]
}

type defaultApplicationServiceImpl struct {
	api      port.DefaultApplicationAPI
	session  port.SessionStore
	notifier port.Notifier
	board    *ReviewBoard[entity.DefaultApplication]
	logger   Logger
}

// NewDefaultApplicationService creates a new DefaultApplicationService
func NewDefaultApplicationService(
	api port.DefaultApplicationAPI,
	session port.SessionStore,
	notifier port.Notifier,
	logger Logger,
) DefaultApplicationService {
	return &defaultApplicationServiceImpl{
		api:      api,
		session:  session,
		notifier: notifier,
		board:    NewDefaultReviewBoard(api, logger),
		logger:   logger,
	}
}

// Create validates the form and submits it. The caller's input is never modified,
// so a rejected submission leaves the form as it was.
func (s *defaultApplicationServiceImpl) Create(ctx context.Context, in entity.DefaultApplicationInput) (entity.Ack, error) {
	payload := in
	payload.AttachmentURLs = append([]string(nil), in.AttachmentURLs...)

	if payload.CustomerID == "" {
		return entity.Ack{}, apperr.NewValidation("customerId", "请选择客户")
	}
	if payload.ReasonID == "" {
		return entity.Ack{}, apperr.NewValidation("reasonId", "请选择违约原因")
	}
	if payload.Severity == "" {
		return entity.Ack{}, apperr.NewValidation("severity", "请选择严重程度")
	}
	if !payload.Severity.IsValid() {
		return entity.Ack{}, apperr.NewValidation("severity", "严重程度只能是高、中或低")
	}
	if payload.ApplicantID == "" {
		payload.ApplicantID = s.session.CurrentUserID(ctx)
	}
	if payload.ApplicantID == "" {
		return entity.Ack{}, apperr.NewValidation("applicantId", "请先登录")
	}

	ack, err := s.api.CreateDefaultApplication(ctx, payload)
	if err != nil {
		s.logger.Error("Failed to create default application", "customer_id", payload.CustomerID, "error", err)
		return entity.Ack{}, err
	}

	s.logger.Info("Default application submitted", "customer_id", payload.CustomerID, "applicant_id", payload.ApplicantID)
	s.notify(ctx, fmt.Sprintf("新的违约认定申请待审核：客户 %s，严重程度 %s", payload.CustomerID, payload.Severity))
	s.board.refreshAfterMutation(ctx)

	return ack, nil
}

// List queries default applications in server order
func (s *defaultApplicationServiceImpl) List(ctx context.Context, filter entity.ApplicationFilter) ([]entity.DefaultApplication, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	return s.board.Load(ctx, filter)
}

// Audit sends the reviewer's decision. Terminal applications are not guarded here;
// the backend rejects them and that rejection is returned as is.
func (s *defaultApplicationServiceImpl) Audit(ctx context.Context, applicationID string, in entity.AuditInput) (entity.Ack, error) {
	payload, err := resolveAudit(ctx, s.session, applicationID, in)
	if err != nil {
		return entity.Ack{}, err
	}

	ack, err := s.api.AuditDefaultApplication(ctx, applicationID, payload)
	if err != nil {
		s.logger.Error("Failed to audit default application", "app_id", applicationID, "error", err)
		return entity.Ack{}, err
	}

	s.logger.Info("Default application audited", "app_id", applicationID, "status", expectedStatus(payload.Decision), "auditor_id", payload.AuditorID)
	s.notify(ctx, fmt.Sprintf("违约认定申请 %s 已审核：%s", applicationID, decisionLabel(payload.Decision)))
	s.board.refreshAfterMutation(ctx)

	return ack, nil
}

// Board returns the list state backing List
func (s *defaultApplicationServiceImpl) Board() *ReviewBoard[entity.DefaultApplication] {
	return s.board
}

func (s *defaultApplicationServiceImpl) notify(ctx context.Context, text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, text); err != nil {
		s.logger.Warn("Failed to notify reviewers", "error", err)
	}
}

// expectedStatus is the status a pending application moves to under decision
func expectedStatus(decision entity.AuditDecision) entity.ApplicationStatus {
	status, err := workflow.Outcome(entity.StatusPending, decision)
	if err != nil {
		return entity.StatusPending
	}
	return status
}

func resolveAudit(ctx context.Context, session port.SessionStore, applicationID string, in entity.AuditInput) (entity.AuditInput, error) {
	if applicationID == "" {
		return in, apperr.NewValidation("id", "缺少申请编号")
	}
	if !in.Decision.IsValid() {
		return in, apperr.NewValidation("decision", "审核结果只能是同意或拒绝")
	}

	payload := in
	if payload.AuditorID == "" {
		payload.AuditorID = session.CurrentUserID(ctx)
	}
	if payload.AuditorID == "" {
		return in, apperr.NewValidation("auditorId", "请先登录")
	}
	return payload, nil
}

func validateFilter(filter entity.ApplicationFilter) error {
	if filter.Status != "" && !filter.Status.IsValid() {
		return apperr.NewValidation("status", "未知的审核状态")
	}
	return nil
}

func decisionLabel(decision entity.AuditDecision) string {
	if decision == entity.DecisionApproved {
		return "同意"
	}
	return "拒绝"
}
