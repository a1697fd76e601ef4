package assignments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cqtrails/cqtrails-admin/internal/platform/db"
	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Repository abstracts assignment persistence.
type Repository interface {
	List(ctx context.Context, window shared.ListWindow) ([]Assignment, error)
	Get(ctx context.Context, vehicleID, reservationID int64) (*Assignment, error)
	Create(ctx context.Context, vehicleID, reservationID int64) (*Assignment, error)
	UpdateStatus(ctx context.Context, vehicleID, reservationID int64, status string) error
	Delete(ctx context.Context, vehicleID, reservationID int64) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) List(ctx context.Context, window shared.ListWindow) ([]Assignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT vehicle_id, reservation_id, assigned_at, assignment_status
		   FROM vehicle_reservations
		  ORDER BY assigned_at OFFSET $1 LIMIT $2`, window.Skip, window.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.VehicleID, &a.ReservationID, &a.AssignedAt, &a.AssignmentStatus); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *pgRepository) Get(ctx context.Context, vehicleID, reservationID int64) (*Assignment, error) {
	var a Assignment
	err := r.pool.QueryRow(ctx,
		`SELECT vehicle_id, reservation_id, assigned_at, assignment_status
		   FROM vehicle_reservations
		  WHERE vehicle_id = $1 AND reservation_id = $2`, vehicleID, reservationID).
		Scan(&a.VehicleID, &a.ReservationID, &a.AssignedAt, &a.AssignmentStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create assigns a vehicle inside a single transaction: the vehicle row is
// locked while availability and reservation status are checked, then the
// vehicle is taken out of the available pool.
func (r *pgRepository) Create(ctx context.Context, vehicleID, reservationID int64) (*Assignment, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var available bool
		err := tx.QueryRow(ctx,
			`SELECT is_available FROM vehicles WHERE id = $1 FOR UPDATE`, vehicleID).
			Scan(&available)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: vehículo inexistente", shared.ErrValidation)
		}
		if err != nil {
			return err
		}
		if !available {
			return fmt.Errorf("%w: el vehículo no está disponible", shared.ErrValidation)
		}

		var status string
		err = tx.QueryRow(ctx,
			`SELECT status FROM reservations WHERE id = $1`, reservationID).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: reservación inexistente", shared.ErrValidation)
		}
		if err != nil {
			return err
		}
		if status == "Cancelada" {
			return fmt.Errorf("%w: la reservación está cancelada", shared.ErrValidation)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO vehicle_reservations (vehicle_id, reservation_id, assignment_status)
			 VALUES ($1, $2, $3)`, vehicleID, reservationID, StatusActive); err != nil {
			if shared.IsUniqueViolation(err) {
				return shared.ErrDuplicate
			}
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE vehicles SET is_available = FALSE WHERE id = $1`, vehicleID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, vehicleID, reservationID)
}

func (r *pgRepository) UpdateStatus(ctx context.Context, vehicleID, reservationID int64, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE vehicle_reservations SET assignment_status = $3
		  WHERE vehicle_id = $1 AND reservation_id = $2`, vehicleID, reservationID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes the assignment and releases the vehicle back to the
// available pool in the same transaction.
func (r *pgRepository) Delete(ctx context.Context, vehicleID, reservationID int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM vehicle_reservations WHERE vehicle_id = $1 AND reservation_id = $2`,
			vehicleID, reservationID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		_, err = tx.Exec(ctx,
			`UPDATE vehicles SET is_available = TRUE WHERE id = $1`, vehicleID)
		return err
	})
}
