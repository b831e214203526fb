package service

import (
	"context"

	"github.com/garyjia/default-desk/internal/application/port"
)

// HealthService checks that the backend is reachable
type HealthService interface {
	Check(ctx context.Context) error
}

type healthServiceImpl struct {
	api port.HealthAPI
}

// NewHealthService creates a new HealthService
func NewHealthService(api port.HealthAPI) HealthService {
	return &healthServiceImpl{api: api}
}

// Check calls the backend health endpoint
func (s *healthServiceImpl) Check(ctx context.Context) error {
	return s.api.Health(ctx)
}
