package users

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Service holds account administration rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, window shared.ListWindow) ([]User, error) {
	return s.repo.List(ctx, window)
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.Get(ctx, id)
}

// Create hashes the plaintext password before it reaches storage.
func (s *Service) Create(ctx context.Context, user User, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	id, err := s.repo.Create(ctx, user, string(hash))
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Update rewrites an account. password is optional; when empty the stored
// hash is kept.
func (s *Service) Update(ctx context.Context, user User, password string) (*User, error) {
	var hash string
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash = string(h)
	}
	if err := s.repo.Update(ctx, user, hash); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, user.ID)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
