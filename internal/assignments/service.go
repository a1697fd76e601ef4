package assignments

import (
	"context"
	"fmt"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Service holds assignment rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, window shared.ListWindow) ([]Assignment, error) {
	return s.repo.List(ctx, window)
}

func (s *Service) Get(ctx context.Context, vehicleID, reservationID int64) (*Assignment, error) {
	return s.repo.Get(ctx, vehicleID, reservationID)
}

func (s *Service) Create(ctx context.Context, vehicleID, reservationID int64) (*Assignment, error) {
	return s.repo.Create(ctx, vehicleID, reservationID)
}

// UpdateStatus changes the assignment status to one of the known values.
func (s *Service) UpdateStatus(ctx context.Context, vehicleID, reservationID int64, status string) (*Assignment, error) {
	if status != StatusActive && status != StatusCancelled {
		return nil, fmt.Errorf("%w: estatus de asignación desconocido", shared.ErrValidation)
	}
	if err := s.repo.UpdateStatus(ctx, vehicleID, reservationID, status); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, vehicleID, reservationID)
}

func (s *Service) Delete(ctx context.Context, vehicleID, reservationID int64) error {
	return s.repo.Delete(ctx, vehicleID, reservationID)
}
