package employees

import (
	"context"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Service holds employee linkage rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, window shared.ListWindow) ([]Employee, error) {
	return s.repo.List(ctx, window)
}

func (s *Service) Get(ctx context.Context, id int64) (*Employee, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, employee Employee) (*Employee, error) {
	id, err := s.repo.Create(ctx, employee)
	if err != nil {
		return nil, err
	}
	employee.ID = id
	return &employee, nil
}

func (s *Service) Update(ctx context.Context, employee Employee) (*Employee, error) {
	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
