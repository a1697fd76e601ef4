package vehicles

import (
	"context"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Service holds fleet rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, window shared.ListWindow) ([]Vehicle, error) {
	return s.repo.List(ctx, window)
}

func (s *Service) Get(ctx context.Context, id int64) (*Vehicle, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, vehicle Vehicle) (*Vehicle, error) {
	id, err := s.repo.Create(ctx, vehicle)
	if err != nil {
		return nil, err
	}
	vehicle.ID = id
	return &vehicle, nil
}

func (s *Service) Update(ctx context.Context, vehicle Vehicle) (*Vehicle, error) {
	if err := s.repo.Update(ctx, vehicle); err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// SetAvailability flips the availability flag without touching the rest of
// the record.
func (s *Service) SetAvailability(ctx context.Context, id int64, available bool) (*Vehicle, error) {
	if err := s.repo.SetAvailability(ctx, id, available); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
