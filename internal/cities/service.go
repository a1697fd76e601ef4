package cities

import (
	"context"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Service holds the city catalog rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, window shared.ListWindow) ([]City, error) {
	return s.repo.List(ctx, window)
}

func (s *Service) Get(ctx context.Context, id int64) (*City, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, city City) (*City, error) {
	id, err := s.repo.Create(ctx, city)
	if err != nil {
		return nil, err
	}
	city.ID = id
	return &city, nil
}

func (s *Service) Update(ctx context.Context, city City) (*City, error) {
	if err := s.repo.Update(ctx, city); err != nil {
		return nil, err
	}
	return &city, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
