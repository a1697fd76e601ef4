package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Repository abstracts reservation persistence.
type Repository interface {
	List(ctx context.Context, window shared.ListWindow) ([]Reservation, error)
	Get(ctx context.Context, id int64) (*Reservation, error)
	Create(ctx context.Context, reservation Reservation) (int64, error)
	Update(ctx context.Context, reservation Reservation) error
	SetStatus(ctx context.Context, id int64, status string, confirmedAt *time.Time) error
	Delete(ctx context.Context, id int64) error
	// RecipientEmail resolves where lifecycle notifications should go:
	// the booking user's email, or the company contact for corporate
	// bookings.
	RecipientEmail(ctx context.Context, id int64) (string, error)
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const reservationColumns = `id, start_date, end_date, user_id, employee_id, company_id,
	COALESCE(custom_route, ''), COALESCE(extra_requirements, ''), status,
	reserved_at, confirmed_at, confirmation_code`

func scanReservation(row pgx.Row) (*Reservation, error) {
	var res Reservation
	err := row.Scan(&res.ID, &res.StartDate, &res.EndDate, &res.UserID, &res.EmployeeID,
		&res.CompanyID, &res.CustomRoute, &res.ExtraRequirements, &res.Status,
		&res.ReservedAt, &res.ConfirmedAt, &res.ConfirmationCode)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *pgRepository) List(ctx context.Context, window shared.ListWindow) ([]Reservation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+reservationColumns+` FROM reservations ORDER BY id OFFSET $1 LIMIT $2`,
		window.Skip, window.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reservation
	for rows.Next() {
		var res Reservation
		if err := rows.Scan(&res.ID, &res.StartDate, &res.EndDate, &res.UserID, &res.EmployeeID,
			&res.CompanyID, &res.CustomRoute, &res.ExtraRequirements, &res.Status,
			&res.ReservedAt, &res.ConfirmedAt, &res.ConfirmationCode); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *pgRepository) Get(ctx context.Context, id int64) (*Reservation, error) {
	return scanReservation(r.pool.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id))
}

func (r *pgRepository) Create(ctx context.Context, reservation Reservation) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO reservations
		   (start_date, end_date, user_id, employee_id, company_id, custom_route,
		    extra_requirements, status, confirmation_code)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		reservation.StartDate, reservation.EndDate, reservation.UserID, reservation.EmployeeID,
		reservation.CompanyID, reservation.CustomRoute, reservation.ExtraRequirements,
		reservation.Status, reservation.ConfirmationCode).Scan(&id)
	if shared.IsForeignKeyViolation(err) {
		return 0, fmt.Errorf("%w: cliente inexistente", shared.ErrValidation)
	}
	return id, err
}

func (r *pgRepository) Update(ctx context.Context, reservation Reservation) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reservations
		    SET start_date = $2, end_date = $3, custom_route = $4, extra_requirements = $5
		  WHERE id = $1`,
		reservation.ID, reservation.StartDate, reservation.EndDate,
		reservation.CustomRoute, reservation.ExtraRequirements)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *pgRepository) SetStatus(ctx context.Context, id int64, status string, confirmedAt *time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reservations SET status = $2, confirmed_at = $3 WHERE id = $1`,
		id, status, confirmedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *pgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *pgRepository) RecipientEmail(ctx context.Context, id int64) (string, error) {
	var email string
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(u.email, c.contact_email, '')
		   FROM reservations res
		   LEFT JOIN users u ON u.id = res.user_id
		   LEFT JOIN companies c ON c.id = res.company_id
		  WHERE res.id = $1`, id).Scan(&email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", shared.ErrNotFound
	}
	return email, err
}
