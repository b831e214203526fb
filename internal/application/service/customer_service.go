package service

import (
	"context"

	"github.com/garyjia/default-desk/internal/application/port"
	"github.com/garyjia/default-desk/internal/domain/entity"
)

// CustomerService lists customers
type CustomerService interface {
	List(ctx context.Context) ([]entity.Customer, error)
	ListDefaulted(ctx context.Context) ([]entity.Customer, error)
}

type customerServiceImpl struct {
	api port.CustomerAPI
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(api port.CustomerAPI) CustomerService {
	return &customerServiceImpl{api: api}
}

// List returns all customers
func (s *customerServiceImpl) List(ctx context.Context) ([]entity.Customer, error) {
	return s.api.ListCustomers(ctx)
}

// ListDefaulted returns customers currently marked as defaulted
func (s *customerServiceImpl) ListDefaulted(ctx context.Context) ([]entity.Customer, error) {
	return s.api.ListDefaultedCustomers(ctx)
}
