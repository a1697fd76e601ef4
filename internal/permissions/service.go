package permissions

import (
	"context"

	"github.com/cqtrails/cqtrails-admin/internal/authz"
	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Service holds permission catalog rules. Renames and deletions change what
// the matrix resolves, so cached decisions are flushed on those writes.
type Service struct {
	repo        Repository
	invalidator authz.Invalidator
}

// NewService constructs a Service. invalidator may be nil.
func NewService(repo Repository, invalidator authz.Invalidator) *Service {
	return &Service{repo: repo, invalidator: invalidator}
}

func (s *Service) List(ctx context.Context, window shared.ListWindow) ([]Permission, error) {
	return s.repo.List(ctx, window)
}

func (s *Service) Get(ctx context.Context, id int64) (*Permission, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, permission Permission) (*Permission, error) {
	id, err := s.repo.Create(ctx, permission)
	if err != nil {
		return nil, err
	}
	permission.ID = id
	return &permission, nil
}

func (s *Service) Update(ctx context.Context, permission Permission) (*Permission, error) {
	if err := s.repo.Update(ctx, permission); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &permission, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateCache(ctx)
	}
}
