package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cqtrails/cqtrails-admin/internal/authz"
	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Service wraps authentication business rules: credential checks, account
// registration and token issuance. The authorization core only verifies
// tokens; this is the issuing side.
type Service struct {
	repo     Repository
	verifier *authz.Verifier
	tokenTTL time.Duration
}

// NewService constructs a Service.
func NewService(repo Repository, verifier *authz.Verifier, tokenTTL time.Duration) *Service {
	return &Service{repo: repo, verifier: verifier, tokenTTL: tokenTTL}
}

// Login validates credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.ErrInactiveAccount
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return s.issue(ctx, user)
}

// Register creates a new account under the given role and logs it in.
func (s *Service) Register(ctx context.Context, email, password, firstName, lastName, roleName string) (*TokenResponse, error) {
	roleID, err := s.repo.RoleIDByName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		RoleID:       roleID,
		IsActive:     true,
	}
	id, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id
	return s.issue(ctx, &user)
}

func (s *Service) issue(ctx context.Context, user *User) (*TokenResponse, error) {
	roleName, err := s.repo.RoleNameByID(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}
	permissions, err := s.repo.PermissionNamesForRole(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}

	token, err := s.verifier.Sign(authz.Claims{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        roleName,
		Permissions: permissions,
	}, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
		UserID:      user.ID,
		Role:        roleName,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Permissions: permissions,
	}, nil
}
