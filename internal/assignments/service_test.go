package assignments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

type pairKey struct {
	vehicle, reservation int64
}

type memRepo struct {
	rows map[pairKey]Assignment
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[pairKey]Assignment{}}
}

func (m *memRepo) List(_ context.Context, _ shared.ListWindow) ([]Assignment, error) {
	var out []Assignment
	for _, a := range m.rows {
		out = append(out, a)
	}
	return out, nil
}

func (m *memRepo) Get(_ context.Context, vehicleID, reservationID int64) (*Assignment, error) {
	a, ok := m.rows[pairKey{vehicleID, reservationID}]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &a, nil
}

func (m *memRepo) Create(_ context.Context, vehicleID, reservationID int64) (*Assignment, error) {
	key := pairKey{vehicleID, reservationID}
	if _, ok := m.rows[key]; ok {
		return nil, shared.ErrDuplicate
	}
	a := Assignment{
		VehicleID:        vehicleID,
		ReservationID:    reservationID,
		AssignedAt:       time.Now(),
		AssignmentStatus: StatusActive,
	}
	m.rows[key] = a
	return &a, nil
}

func (m *memRepo) UpdateStatus(_ context.Context, vehicleID, reservationID int64, status string) error {
	key := pairKey{vehicleID, reservationID}
	a, ok := m.rows[key]
	if !ok {
		return shared.ErrNotFound
	}
	a.AssignmentStatus = status
	m.rows[key] = a
	return nil
}

func (m *memRepo) Delete(_ context.Context, vehicleID, reservationID int64) error {
	key := pairKey{vehicleID, reservationID}
	if _, ok := m.rows[key]; !ok {
		return shared.ErrNotFound
	}
	delete(m.rows, key)
	return nil
}

func TestAssignmentStatusTransitions(t *testing.T) {
	service := NewService(newMemRepo())
	ctx := context.Background()

	created, err := service.Create(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, created.AssignmentStatus)

	updated, err := service.UpdateStatus(ctx, 1, 2, StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, updated.AssignmentStatus)
}

func TestAssignmentRejectsUnknownStatus(t *testing.T) {
	service := NewService(newMemRepo())
	ctx := context.Background()

	_, err := service.Create(ctx, 1, 2)
	require.NoError(t, err)

	_, err = service.UpdateStatus(ctx, 1, 2, "Pausada")
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestAssignmentDuplicatePair(t *testing.T) {
	service := NewService(newMemRepo())
	ctx := context.Background()

	_, err := service.Create(ctx, 1, 2)
	require.NoError(t, err)

	_, err = service.Create(ctx, 1, 2)
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}
