package service

import (
	"context"
	"fmt"

	"github.com/garyjia/default-desk/internal/application/port"
	"github.com/garyjia/default-desk/internal/domain/apperr"
	"github.com/garyjia/default-desk/internal/domain/entity"
)

// RecoveryApplicationService submits, queries and audits recovery applications
type RecoveryApplicationService interface {
	Create(ctx context.Context, in entity.RecoveryApplicationInput) (entity.Ack, error)
	List(ctx context.Context, filter entity.ApplicationFilter) ([]entity.RecoveryApplication, error)
	Audit(ctx context.Context, applicationID string, in entity.AuditInput) (entity.Ack, error)
	Board() *ReviewBoard[entity.RecoveryApplication]
}

type recoveryApplicationServiceImpl struct {
	api      port.RecoveryApplicationAPI
	session  port.SessionStore
	notifier port.Notifier
	board    *ReviewBoard[entity.RecoveryApplication]
	logger   Logger
}

// NewRecoveryApplicationService creates a new RecoveryApplicationService
func NewRecoveryApplicationService(
	api port.RecoveryApplicationAPI,
	session port.SessionStore,
	notifier port.Notifier,
	logger Logger,
) RecoveryApplicationService {
	return &recoveryApplicationServiceImpl{
		api:      api,
		session:  session,
		notifier: notifier,
		board:    NewRecoveryReviewBoard(api, logger),
		logger:   logger,
	}
}

// Create validates the form and submits it. An empty OriginalDefaultApplicationID
// lets the backend link the customer's latest default application.
func (s *recoveryApplicationServiceImpl) Create(ctx context.Context, in entity.RecoveryApplicationInput) (entity.Ack, error) {
	payload := in

	if payload.CustomerID == "" {
		return entity.Ack{}, apperr.NewValidation("customerId", "请选择客户")
	}
	if payload.RecoveryReasonID == "" {
		return entity.Ack{}, apperr.NewValidation("recoveryReasonId", "请选择重生原因")
	}
	if payload.ApplicantID == "" {
		payload.ApplicantID = s.session.CurrentUserID(ctx)
	}
	if payload.ApplicantID == "" {
		return entity.Ack{}, apperr.NewValidation("applicantId", "请先登录")
	}

	ack, err := s.api.CreateRecoveryApplication(ctx, payload)
	if err != nil {
		s.logger.Error("Failed to create recovery application", "customer_id", payload.CustomerID, "error", err)
		return entity.Ack{}, err
	}

	s.logger.Info("Recovery application submitted", "customer_id", payload.CustomerID, "applicant_id", payload.ApplicantID)
	s.notify(ctx, fmt.Sprintf("新的违约重生申请待审核：客户 %s", payload.CustomerID))
	s.board.refreshAfterMutation(ctx)

	return ack, nil
}

// List queries recovery applications in server order
func (s *recoveryApplicationServiceImpl) List(ctx context.Context, filter entity.ApplicationFilter) ([]entity.RecoveryApplication, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	return s.board.Load(ctx, filter)
}

// Audit sends the reviewer's decision
func (s *recoveryApplicationServiceImpl) Audit(ctx context.Context, applicationID string, in entity.AuditInput) (entity.Ack, error) {
	payload, err := resolveAudit(ctx, s.session, applicationID, in)
	if err != nil {
		return entity.Ack{}, err
	}

	ack, err := s.api.AuditRecoveryApplication(ctx, applicationID, payload)
	if err != nil {
		s.logger.Error("Failed to audit recovery application", "recovery_app_id", applicationID, "error", err)
		return entity.Ack{}, err
	}

	s.logger.Info("Recovery application audited", "recovery_app_id", applicationID, "status", expectedStatus(payload.Decision), "auditor_id", payload.AuditorID)
	s.notify(ctx, fmt.Sprintf("违约重生申请 %s 已审核：%s", applicationID, decisionLabel(payload.Decision)))
	s.board.refreshAfterMutation(ctx)

	return ack, nil
}

// Board returns the list state backing List
func (s *recoveryApplicationServiceImpl) Board() *ReviewBoard[entity.RecoveryApplication] {
	return s.board
}

func (s *recoveryApplicationServiceImpl) notify(ctx context.Context, text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, text); err != nil {
		s.logger.Warn("Failed to notify reviewers", "error", err)
	}
}
