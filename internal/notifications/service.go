package notifications

import (
	"context"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Service holds notification record rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns notifications, filtered by reservation when reservationID is
// positive.
func (s *Service) List(ctx context.Context, window shared.ListWindow, reservationID int64) ([]Notification, error) {
	return s.repo.List(ctx, window, reservationID)
}

func (s *Service) Get(ctx context.Context, id int64) (*Notification, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, notification Notification) (*Notification, error) {
	id, err := s.repo.Create(ctx, notification)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, notification Notification) (*Notification, error) {
	if err := s.repo.Update(ctx, notification); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, notification.ID)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
