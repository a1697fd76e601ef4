package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cqtrails/cqtrails-admin/internal/authz"
	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

type stubRepo struct {
	users       map[string]*User
	roles       map[int64]string
	permissions map[int64][]string
	nextID      int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		users:       map[string]*User{},
		roles:       map[int64]string{1: "Administrador", 2: "Empleado"},
		permissions: map[int64][]string{2: {"Ciudades", "Vehiculos"}},
		nextID:      100,
	}
}

func (s *stubRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *stubRepo) CreateUser(_ context.Context, user User) (int64, error) {
	if _, ok := s.users[user.Email]; ok {
		return 0, shared.ErrDuplicate
	}
	s.nextID++
	user.ID = s.nextID
	s.users[user.Email] = &user
	return user.ID, nil
}

func (s *stubRepo) RoleNameByID(_ context.Context, roleID int64) (string, error) {
	name, ok := s.roles[roleID]
	if !ok {
		return "", shared.ErrNotFound
	}
	return name, nil
}

func (s *stubRepo) RoleIDByName(_ context.Context, name string) (int64, error) {
	for id, n := range s.roles {
		if authz.Fold(n) == authz.Fold(name) {
			return id, nil
		}
	}
	return 0, shared.ErrNotFound
}

func (s *stubRepo) PermissionNamesForRole(_ context.Context, roleID int64) ([]string, error) {
	return s.permissions[roleID], nil
}

func (s *stubRepo) IsActive(_ context.Context, userID int64) (bool, error) {
	for _, user := range s.users {
		if user.ID == userID {
			return user.IsActive, nil
		}
	}
	return false, nil
}

func (s *stubRepo) addUser(t *testing.T, email, password string, roleID int64, active bool) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	s.nextID++
	user := &User{
		ID:           s.nextID,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Ana",
		LastName:     "Lopez",
		RoleID:       roleID,
		IsActive:     active,
	}
	s.users[email] = user
	return user
}

func newTestService(repo Repository) (*Service, *authz.Verifier) {
	verifier, err := authz.NewVerifier("test-secret", "", "")
	if err != nil {
		panic(err)
	}
	return NewService(repo, verifier, 8*time.Hour), verifier
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	repo := newStubRepo()
	user := repo.addUser(t, "ana@cqtrails.mx", "s3cretpass", 2, true)
	service, verifier := newTestService(repo)

	resp, err := service.Login(context.Background(), "ana@cqtrails.mx", "s3cretpass")
	require.NoError(t, err)

	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, int64((8 * time.Hour).Seconds()), resp.ExpiresIn)
	assert.Equal(t, user.ID, resp.UserID)
	assert.Equal(t, "Empleado", resp.Role)
	assert.Equal(t, []string{"Ciudades", "Vehiculos"}, resp.Permissions)

	principal, err := verifier.Verify(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)
	assert.Equal(t, "Empleado", principal.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newStubRepo()
	repo.addUser(t, "ana@cqtrails.mx", "s3cretpass", 2, true)
	service, _ := newTestService(repo)

	_, err := service.Login(context.Background(), "ana@cqtrails.mx", "wrong")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLoginUnknownEmailLooksLikeBadCredentials(t *testing.T) {
	service, _ := newTestService(newStubRepo())

	_, err := service.Login(context.Background(), "nadie@cqtrails.mx", "whatever")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	repo := newStubRepo()
	repo.addUser(t, "baja@cqtrails.mx", "s3cretpass", 2, false)
	service, _ := newTestService(repo)

	_, err := service.Login(context.Background(), "baja@cqtrails.mx", "s3cretpass")
	assert.ErrorIs(t, err, shared.ErrInactiveAccount)
}

func TestRegisterCreatesActiveUserAndLogsIn(t *testing.T) {
	repo := newStubRepo()
	service, verifier := newTestService(repo)

	resp, err := service.Register(context.Background(), "nuevo@cqtrails.mx", "s3cretpass", "Luis", "Mora", "empleado")
	require.NoError(t, err)
	assert.Equal(t, "Empleado", resp.Role)
	assert.Equal(t, "Luis", resp.FirstName)

	principal, err := verifier.Verify(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, principal.UserID)

	stored := repo.users["nuevo@cqtrails.mx"]
	require.NotNil(t, stored)
	assert.True(t, stored.IsActive)
	assert.NotEqual(t, "s3cretpass", stored.PasswordHash)
}

func TestRegisterUnknownRole(t *testing.T) {
	service, _ := newTestService(newStubRepo())

	_, err := service.Register(context.Background(), "x@cqtrails.mx", "s3cretpass", "X", "Y", "Gerente")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newStubRepo()
	repo.addUser(t, "ana@cqtrails.mx", "s3cretpass", 2, true)
	service, _ := newTestService(repo)

	_, err := service.Register(context.Background(), "ana@cqtrails.mx", "otherpass", "Ana", "Lopez", "Empleado")
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}
