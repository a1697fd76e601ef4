package invoices

import (
	"context"
	"fmt"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Service holds pre-invoice rules. The renderer is optional, without it
// PDF generation answers with a validation error.
type Service struct {
	repo     Repository
	renderer Renderer
}

// NewService constructs a Service.
func NewService(repo Repository, renderer Renderer) *Service {
	return &Service{repo: repo, renderer: renderer}
}

func (s *Service) List(ctx context.Context, window shared.ListWindow) ([]PreInvoice, error) {
	return s.repo.List(ctx, window)
}

func (s *Service) Get(ctx context.Context, id int64) (*PreInvoice, error) {
	return s.repo.Get(ctx, id)
}

// Create computes the total from its parts, client supplied totals are
// ignored.
func (s *Service) Create(ctx context.Context, invoice PreInvoice) (*PreInvoice, error) {
	if err := validateCosts(invoice); err != nil {
		return nil, err
	}
	invoice.TotalCost = invoice.VehicleCost + invoice.ExtraCost
	id, err := s.repo.Create(ctx, invoice)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, invoice PreInvoice) (*PreInvoice, error) {
	if err := validateCosts(invoice); err != nil {
		return nil, err
	}
	invoice.TotalCost = invoice.VehicleCost + invoice.ExtraCost
	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, invoice.ID)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func validateCosts(invoice PreInvoice) error {
	if invoice.VehicleCost < 0 || invoice.ExtraCost < 0 {
		return fmt.Errorf("%w: los costos no pueden ser negativos", shared.ErrValidation)
	}
	return nil
}
