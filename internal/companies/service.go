package companies

import (
	"context"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Service holds corporate client rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, window shared.ListWindow) ([]Company, error) {
	return s.repo.List(ctx, window)
}

func (s *Service) Get(ctx context.Context, id int64) (*Company, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, company Company) (*Company, error) {
	id, err := s.repo.Create(ctx, company)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, company Company) (*Company, error) {
	if err := s.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, company.ID)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
