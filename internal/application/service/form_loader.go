package service

import (
	"context"

	"github.com/garyjia/default-desk/internal/domain/entity"
	"golang.org/x/sync/errgroup"
)

// DefaultForm holds the options of the default application form
type DefaultForm struct {
	Customers  []entity.Customer `json:"customers"`
	Reasons    []entity.Reason   `json:"reasons"`
	Severities []entity.Severity `json:"severities"`
}

// RecoveryForm holds the options of the recovery application form
type RecoveryForm struct {
	Customers []entity.Customer `json:"customers"`
	Reasons   []entity.Reason   `json:"reasons"`
}

// FormLoader fetches form options concurrently
type FormLoader struct {
	customers CustomerService
	reasons   ReasonService
}

// NewFormLoader creates a new FormLoader
func NewFormLoader(customers CustomerService, reasons ReasonService) *FormLoader {
	return &FormLoader{customers: customers, reasons: reasons}
}

// LoadDefaultForm returns non-defaulted customers and enabled default reasons
func (l *FormLoader) LoadDefaultForm(ctx context.Context) (*DefaultForm, error) {
	var customers []entity.Customer
	var reasons []entity.Reason

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		all, err := l.customers.List(gctx)
		if err != nil {
			return err
		}
		customers = entity.FilterCustomers(all, false)
		return nil
	})
	g.Go(func() error {
		all, err := l.reasons.List(gctx, entity.ReasonKindDefault)
		if err != nil {
			return err
		}
		reasons = entity.EnabledReasons(all)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &DefaultForm{
		Customers:  customers,
		Reasons:    reasons,
		Severities: []entity.Severity{entity.SeverityHigh, entity.SeverityMedium, entity.SeverityLow},
	}, nil
}

// LoadRecoveryForm returns defaulted customers and enabled recovery reasons
func (l *FormLoader) LoadRecoveryForm(ctx context.Context) (*RecoveryForm, error) {
	var customers []entity.Customer
	var reasons []entity.Reason

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		customers, err = l.customers.ListDefaulted(gctx)
		return err
	})
	g.Go(func() error {
		all, err := l.reasons.List(gctx, entity.ReasonKindRecovery)
		if err != nil {
			return err
		}
		reasons = entity.EnabledReasons(all)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if customers == nil {
		customers = []entity.Customer{}
	}
	return &RecoveryForm{Customers: customers, Reasons: reasons}, nil
}
