package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Repository abstracts notification persistence. It also serves as the
// reservations Notifier through Record.
type Repository interface {
	List(ctx context.Context, window shared.ListWindow, reservationID int64) ([]Notification, error)
	Get(ctx context.Context, id int64) (*Notification, error)
	Create(ctx context.Context, notification Notification) (int64, error)
	Update(ctx context.Context, notification Notification) error
	Delete(ctx context.Context, id int64) error
	Record(ctx context.Context, reservationID int64, notificationType string) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

// List returns notifications, optionally filtered by reservation.
func (r *pgRepository) List(ctx context.Context, window shared.ListWindow, reservationID int64) ([]Notification, error) {
	query := `SELECT id, reservation_id, notification_type, sent_at FROM notifications`
	args := []any{window.Skip, window.Limit}
	if reservationID > 0 {
		query += ` WHERE reservation_id = $3`
		args = append(args, reservationID)
	}
	query += ` ORDER BY id OFFSET $1 LIMIT $2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.ReservationID, &n.NotificationType, &n.SentAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *pgRepository) Get(ctx context.Context, id int64) (*Notification, error) {
	var n Notification
	err := r.pool.QueryRow(ctx,
		`SELECT id, reservation_id, notification_type, sent_at FROM notifications WHERE id = $1`, id).
		Scan(&n.ID, &n.ReservationID, &n.NotificationType, &n.SentAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *pgRepository) Create(ctx context.Context, notification Notification) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO notifications (reservation_id, notification_type) VALUES ($1, $2) RETURNING id`,
		notification.ReservationID, notification.NotificationType).Scan(&id)
	if shared.IsForeignKeyViolation(err) {
		return 0, fmt.Errorf("%w: reservación inexistente", shared.ErrValidation)
	}
	return id, err
}

func (r *pgRepository) Update(ctx context.Context, notification Notification) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET notification_type = $2 WHERE id = $1`,
		notification.ID, notification.NotificationType)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *pgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Record inserts a lifecycle notification row.
func (r *pgRepository) Record(ctx context.Context, reservationID int64, notificationType string) error {
	_, err := r.Create(ctx, Notification{ReservationID: reservationID, NotificationType: notificationType})
	return err
}
