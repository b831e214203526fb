package service

import (
	"context"

	"github.com/garyjia/default-desk/internal/application/optimistic"
	"github.com/garyjia/default-desk/internal/application/port"
	"github.com/garyjia/default-desk/internal/domain/apperr"
	"github.com/garyjia/default-desk/internal/domain/entity"
)

// ReasonService reads and toggles the default and recovery reason catalogues
type ReasonService interface {
	List(ctx context.Context, kind entity.ReasonKind) ([]entity.Reason, error)
	Get(ctx context.Context, kind entity.ReasonKind, id string) (*entity.Reason, error)
	SetEnabled(ctx context.Context, kind entity.ReasonKind, id string, enabled bool) (entity.Ack, error)
}

type reasonServiceImpl struct {
	api    port.ReasonAPI
	logger Logger
}

// NewReasonService creates a new ReasonService
func NewReasonService(api port.ReasonAPI, logger Logger) ReasonService {
	return &reasonServiceImpl{api: api, logger: logger}
}

func validateKind(kind entity.ReasonKind) error {
	if !kind.IsValid() {
		return apperr.NewValidation("kind", "未知的原因类型")
	}
	return nil
}

// List returns the catalogue in server order
func (s *reasonServiceImpl) List(ctx context.Context, kind entity.ReasonKind) ([]entity.Reason, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	return s.api.ListReasons(ctx, kind)
}

// Get returns one reason
func (s *reasonServiceImpl) Get(ctx context.Context, kind entity.ReasonKind, id string) (*entity.Reason, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apperr.NewValidation("id", "缺少原因编号")
	}
	return s.api.GetReason(ctx, kind, id)
}

// SetEnabled enables or disables a reason
func (s *reasonServiceImpl) SetEnabled(ctx context.Context, kind entity.ReasonKind, id string, enabled bool) (entity.Ack, error) {
	if err := validateKind(kind); err != nil {
		return entity.Ack{}, err
	}
	if id == "" {
		return entity.Ack{}, apperr.NewValidation("id", "缺少原因编号")
	}

	ack, err := s.api.SetReasonEnabled(ctx, kind, id, enabled)
	if err != nil {
		s.logger.Error("Failed to update reason", "kind", kind, "reason_id", id, "enabled", enabled, "error", err)
		return entity.Ack{}, err
	}

	s.logger.Info("Reason updated", "kind", kind, "reason_id", id, "enabled", enabled)
	return ack, nil
}

// ReasonCatalog is the list state of one reason kind. Toggles show immediately and
// are rolled back when the backend does not confirm them.
type ReasonCatalog struct {
	kind    entity.ReasonKind
	service ReasonService
	items   *optimistic.Slice[entity.Reason]
}

// NewReasonCatalog creates an empty catalogue of the given kind
func NewReasonCatalog(kind entity.ReasonKind, service ReasonService) *ReasonCatalog {
	return &ReasonCatalog{
		kind:    kind,
		service: service,
		items:   optimistic.NewSlice[entity.Reason](nil),
	}
}

// Kind returns the catalogue kind
func (c *ReasonCatalog) Kind() entity.ReasonKind {
	return c.kind
}

// Load fetches the catalogue and replaces the local list
func (c *ReasonCatalog) Load(ctx context.Context) ([]entity.Reason, error) {
	reasons, err := c.service.List(ctx, c.kind)
	if err != nil {
		return nil, err
	}
	c.items.Replace(reasons)
	return reasons, nil
}

// Items returns the local list
func (c *ReasonCatalog) Items() []entity.Reason {
	return c.items.Snapshot()
}

// Enabled returns the selectable reasons
func (c *ReasonCatalog) Enabled() []entity.Reason {
	return entity.EnabledReasons(c.items.Snapshot())
}

// Toggle flips one reason locally, then asks the backend to persist it.
// Any failure restores the list as it was before the toggle.
func (c *ReasonCatalog) Toggle(ctx context.Context, id string, enabled bool) (entity.Ack, error) {
	found := false
	for _, r := range c.items.Snapshot() {
		if r.ID == id {
			found = true
			break
		}
	}
	if !found {
		return entity.Ack{}, apperr.NewValidation("id", "未找到该原因")
	}

	var ack entity.Ack
	err := optimistic.Apply(ctx, c.items,
		optimistic.UpdateWhere(
			func(r entity.Reason) bool { return r.ID == id },
			func(r *entity.Reason) { r.IsEnabled = enabled },
		),
		func(ctx context.Context) error {
			var err error
			ack, err = c.service.SetEnabled(ctx, c.kind, id, enabled)
			return err
		},
	)
	if err != nil {
		return entity.Ack{}, err
	}
	return ack, nil
}
