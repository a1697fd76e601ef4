package reservations

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
	"github.com/cqtrails/cqtrails-admin/jobs"
)

type memRepo struct {
	rows   map[int64]Reservation
	emails map[int64]string
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[int64]Reservation{}, emails: map[int64]string{}}
}

func (m *memRepo) List(_ context.Context, window shared.ListWindow) ([]Reservation, error) {
	var out []Reservation
	for id := int64(1); id <= m.nextID; id++ {
		if r, ok := m.rows[id]; ok {
			out = append(out, r)
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

func (m *memRepo) Get(_ context.Context, id int64) (*Reservation, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &r, nil
}

func (m *memRepo) Create(_ context.Context, reservation Reservation) (int64, error) {
	m.nextID++
	reservation.ID = m.nextID
	reservation.ReservedAt = time.Now()
	m.rows[reservation.ID] = reservation
	return reservation.ID, nil
}

func (m *memRepo) Update(_ context.Context, reservation Reservation) error {
	existing, ok := m.rows[reservation.ID]
	if !ok {
		return shared.ErrNotFound
	}
	existing.StartDate = reservation.StartDate
	existing.EndDate = reservation.EndDate
	existing.CustomRoute = reservation.CustomRoute
	existing.ExtraRequirements = reservation.ExtraRequirements
	m.rows[reservation.ID] = existing
	return nil
}

func (m *memRepo) SetStatus(_ context.Context, id int64, status string, confirmedAt *time.Time) error {
	r, ok := m.rows[id]
	if !ok {
		return shared.ErrNotFound
	}
	r.Status = status
	r.ConfirmedAt = confirmedAt
	m.rows[id] = r
	return nil
}

func (m *memRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memRepo) RecipientEmail(_ context.Context, id int64) (string, error) {
	if _, ok := m.rows[id]; !ok {
		return "", shared.ErrNotFound
	}
	return m.emails[id], nil
}

type recordingNotifier struct {
	records []string
}

func (n *recordingNotifier) Record(_ context.Context, _ int64, notificationType string) error {
	n.records = append(n.records, notificationType)
	return nil
}

type recordingQueue struct {
	sent []jobs.SendEmailPayload
}

func (q *recordingQueue) EnqueueSendEmail(_ context.Context, payload jobs.SendEmailPayload) error {
	q.sent = append(q.sent, payload)
	return nil
}

func newTestService(repo *memRepo) (*Service, *recordingNotifier, *recordingQueue) {
	notifier := &recordingNotifier{}
	queue := &recordingQueue{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, notifier, queue, logger), notifier, queue
}

func individualBooking() Reservation {
	userID := int64(7)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	return Reservation{
		StartDate: start,
		EndDate:   start.Add(48 * time.Hour),
		UserID:    &userID,
	}
}

func TestCreateStampsCodeAndPendingStatus(t *testing.T) {
	service, _, _ := newTestService(newMemRepo())

	created, err := service.Create(context.Background(), individualBooking())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, created.Status)
	assert.NotEmpty(t, created.ConfirmationCode)
}

func TestCreateRejectsMixedClient(t *testing.T) {
	service, _, _ := newTestService(newMemRepo())

	booking := individualBooking()
	companyID := int64(3)
	booking.CompanyID = &companyID
	_, err := service.Create(context.Background(), booking)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRejectsMissingClient(t *testing.T) {
	service, _, _ := newTestService(newMemRepo())

	booking := individualBooking()
	booking.UserID = nil
	_, err := service.Create(context.Background(), booking)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRejectsInvertedDates(t *testing.T) {
	service, _, _ := newTestService(newMemRepo())

	booking := individualBooking()
	booking.EndDate = booking.StartDate.Add(-time.Hour)
	_, err := service.Create(context.Background(), booking)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestApproveConfirmsAndNotifies(t *testing.T) {
	repo := newMemRepo()
	service, notifier, queue := newTestService(repo)

	created, err := service.Create(context.Background(), individualBooking())
	require.NoError(t, err)
	repo.emails[created.ID] = "cliente@cqtrails.mx"

	approved, err := service.Approve(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, approved.Status)
	require.NotNil(t, approved.ConfirmedAt)

	require.Equal(t, []string{"Confirmación"}, notifier.records)
	require.Len(t, queue.sent, 1)
	assert.Equal(t, "cliente@cqtrails.mx", queue.sent[0].To)
	assert.Contains(t, queue.sent[0].Body, created.ConfirmationCode)
}

func TestApproveRejectsNonPending(t *testing.T) {
	repo := newMemRepo()
	service, _, _ := newTestService(repo)

	created, err := service.Create(context.Background(), individualBooking())
	require.NoError(t, err)
	_, err = service.Approve(context.Background(), created.ID)
	require.NoError(t, err)

	_, err = service.Approve(context.Background(), created.ID)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestDenyCancelsWithoutConfirmationTimestamp(t *testing.T) {
	repo := newMemRepo()
	service, notifier, _ := newTestService(repo)

	created, err := service.Create(context.Background(), individualBooking())
	require.NoError(t, err)

	denied, err := service.Deny(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, denied.Status)
	assert.Nil(t, denied.ConfirmedAt)
	assert.Equal(t, []string{"Cancelación"}, notifier.records)
}

func TestMissingRecipientSkipsEmailButKeepsStatus(t *testing.T) {
	repo := newMemRepo()
	service, _, queue := newTestService(repo)

	created, err := service.Create(context.Background(), individualBooking())
	require.NoError(t, err)

	approved, err := service.Approve(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, approved.Status)
	assert.Empty(t, queue.sent)
}
