package reservations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
	"github.com/cqtrails/cqtrails-admin/jobs"
)

// Notifier records a lifecycle notification row for a reservation.
type Notifier interface {
	Record(ctx context.Context, reservationID int64, notificationType string) error
}

// Enqueuer submits background email jobs. Satisfied by jobs.Client.
type Enqueuer interface {
	EnqueueSendEmail(ctx context.Context, payload jobs.SendEmailPayload) error
}

// Service holds the booking lifecycle rules.
type Service struct {
	repo     Repository
	notifier Notifier
	queue    Enqueuer
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a Service. notifier and queue may be nil, lifecycle
// changes then skip the corresponding side effect.
func NewService(repo Repository, notifier Notifier, queue Enqueuer, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		queue:    queue,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) List(ctx context.Context, window shared.ListWindow) ([]Reservation, error) {
	return s.repo.List(ctx, window)
}

func (s *Service) Get(ctx context.Context, id int64) (*Reservation, error) {
	return s.repo.Get(ctx, id)
}

// Create validates the client shape, stamps a confirmation code and stores
// the booking as pending.
func (s *Service) Create(ctx context.Context, reservation Reservation) (*Reservation, error) {
	if err := validateClient(reservation); err != nil {
		return nil, err
	}
	if !reservation.EndDate.After(reservation.StartDate) {
		return nil, fmt.Errorf("%w: la fecha final debe ser posterior a la inicial", shared.ErrValidation)
	}
	reservation.Status = StatusPending
	reservation.ConfirmationCode = uuid.NewString()
	id, err := s.repo.Create(ctx, reservation)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, reservation Reservation) (*Reservation, error) {
	if !reservation.EndDate.After(reservation.StartDate) {
		return nil, fmt.Errorf("%w: la fecha final debe ser posterior a la inicial", shared.ErrValidation)
	}
	if err := s.repo.Update(ctx, reservation); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, reservation.ID)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Approve confirms a pending reservation, records the notification and
// queues the confirmation email.
func (s *Service) Approve(ctx context.Context, id int64) (*Reservation, error) {
	reservation, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.Status != StatusPending {
		return nil, fmt.Errorf("%w: la reservación no está pendiente", shared.ErrValidation)
	}
	now := s.now()
	if err := s.repo.SetStatus(ctx, id, StatusConfirmed, &now); err != nil {
		return nil, err
	}
	s.notify(ctx, id, "Confirmación",
		"Reservación confirmada",
		fmt.Sprintf("Su reservación %s ha sido confirmada.", reservation.ConfirmationCode))
	return s.repo.Get(ctx, id)
}

// Deny cancels a pending reservation and notifies likewise.
func (s *Service) Deny(ctx context.Context, id int64) (*Reservation, error) {
	reservation, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.Status != StatusPending {
		return nil, fmt.Errorf("%w: la reservación no está pendiente", shared.ErrValidation)
	}
	if err := s.repo.SetStatus(ctx, id, StatusCancelled, nil); err != nil {
		return nil, err
	}
	s.notify(ctx, id, "Cancelación",
		"Reservación cancelada",
		fmt.Sprintf("Su reservación %s ha sido cancelada.", reservation.ConfirmationCode))
	return s.repo.Get(ctx, id)
}

// notify records the notification row and queues the email. Failures are
// logged, the status change already committed and stands.
func (s *Service) notify(ctx context.Context, id int64, notificationType, subject, body string) {
	if s.notifier != nil {
		if err := s.notifier.Record(ctx, id, notificationType); err != nil {
			s.logger.Error("record notification failed", "reservation", id, "error", err)
		}
	}
	if s.queue == nil {
		return
	}
	to, err := s.repo.RecipientEmail(ctx, id)
	if err != nil || to == "" {
		s.logger.Warn("no recipient for reservation notification", "reservation", id, "error", err)
		return
	}
	payload := jobs.SendEmailPayload{To: to, Subject: subject, Body: body}
	if err := s.queue.EnqueueSendEmail(ctx, payload); err != nil {
		s.logger.Error("enqueue notification email failed", "reservation", id, "error", err)
	}
}

func validateClient(reservation Reservation) error {
	individual := reservation.UserID != nil
	corporate := reservation.EmployeeID != nil && reservation.CompanyID != nil
	switch {
	case individual && (reservation.EmployeeID != nil || reservation.CompanyID != nil):
		return fmt.Errorf("%w: la reservación no puede ser individual y empresarial", shared.ErrValidation)
	case !individual && !corporate:
		return fmt.Errorf("%w: se requiere usuario, o empleado y empresa", shared.ErrValidation)
	}
	return nil
}
