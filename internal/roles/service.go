package roles

import (
	"context"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Service holds role catalog rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, window shared.ListWindow) ([]Role, error) {
	return s.repo.List(ctx, window)
}

func (s *Service) Get(ctx context.Context, id int64) (*Role, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, role Role) (*Role, error) {
	id, err := s.repo.Create(ctx, role)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, role Role) (*Role, error) {
	if err := s.repo.Update(ctx, role); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, role.ID)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
