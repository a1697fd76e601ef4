package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

type memRepo struct {
	rows   map[int64]User
	hashes map[int64]string
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[int64]User{}, hashes: map[int64]string{}}
}

func (m *memRepo) List(_ context.Context, window shared.ListWindow) ([]User, error) {
	var out []User
	for id := int64(1); id <= m.nextID; id++ {
		if u, ok := m.rows[id]; ok {
			out = append(out, u)
		}
	}
	if window.Skip >= len(out) {
		return nil, nil
	}
	out = out[window.Skip:]
	if len(out) > window.Limit {
		out = out[:window.Limit]
	}
	return out, nil
}

func (m *memRepo) Get(_ context.Context, id int64) (*User, error) {
	u, ok := m.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &u, nil
}

func (m *memRepo) Create(_ context.Context, user User, passwordHash string) (int64, error) {
	for _, u := range m.rows {
		if u.Email == user.Email {
			return 0, shared.ErrDuplicate
		}
	}
	m.nextID++
	user.ID = m.nextID
	m.rows[user.ID] = user
	m.hashes[user.ID] = passwordHash
	return user.ID, nil
}

func (m *memRepo) Update(_ context.Context, user User, passwordHash string) error {
	if _, ok := m.rows[user.ID]; !ok {
		return shared.ErrNotFound
	}
	m.rows[user.ID] = user
	if passwordHash != "" {
		m.hashes[user.ID] = passwordHash
	}
	return nil
}

func (m *memRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.rows, id)
	delete(m.hashes, id)
	return nil
}

func TestCreateHashesPassword(t *testing.T) {
	repo := newMemRepo()
	service := NewService(repo)

	created, err := service.Create(context.Background(),
		User{Email: "ana@cqtrails.mx", FirstName: "Ana", LastName: "Lopez", RoleID: 2, IsActive: true},
		"s3cretpass")
	require.NoError(t, err)

	hash := repo.hashes[created.ID]
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "s3cretpass", hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cretpass")))
}

func TestUpdateWithoutPasswordKeepsHash(t *testing.T) {
	repo := newMemRepo()
	service := NewService(repo)

	created, err := service.Create(context.Background(),
		User{Email: "ana@cqtrails.mx", FirstName: "Ana", LastName: "Lopez", RoleID: 2, IsActive: true},
		"s3cretpass")
	require.NoError(t, err)
	before := repo.hashes[created.ID]

	updated, err := service.Update(context.Background(),
		User{ID: created.ID, Email: "ana@cqtrails.mx", FirstName: "Ana María", LastName: "Lopez", RoleID: 2, IsActive: true},
		"")
	require.NoError(t, err)
	assert.Equal(t, "Ana María", updated.FirstName)
	assert.Equal(t, before, repo.hashes[created.ID])
}

func TestUpdateWithPasswordRotatesHash(t *testing.T) {
	repo := newMemRepo()
	service := NewService(repo)

	created, err := service.Create(context.Background(),
		User{Email: "ana@cqtrails.mx", FirstName: "Ana", LastName: "Lopez", RoleID: 2, IsActive: true},
		"s3cretpass")
	require.NoError(t, err)
	before := repo.hashes[created.ID]

	_, err = service.Update(context.Background(),
		User{ID: created.ID, Email: "ana@cqtrails.mx", FirstName: "Ana", LastName: "Lopez", RoleID: 2, IsActive: true},
		"otherpass99")
	require.NoError(t, err)
	assert.NotEqual(t, before, repo.hashes[created.ID])
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.hashes[created.ID]), []byte("otherpass99")))
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := newMemRepo()
	service := NewService(repo)

	_, err := service.Create(context.Background(),
		User{Email: "ana@cqtrails.mx", FirstName: "Ana", LastName: "Lopez", RoleID: 2, IsActive: true},
		"s3cretpass")
	require.NoError(t, err)

	_, err = service.Create(context.Background(),
		User{Email: "ana@cqtrails.mx", FirstName: "Otra", LastName: "Persona", RoleID: 2, IsActive: true},
		"s3cretpass")
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}
