package vehicles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Repository abstracts fleet persistence.
type Repository interface {
	List(ctx context.Context, window shared.ListWindow) ([]Vehicle, error)
	Get(ctx context.Context, id int64) (*Vehicle, error)
	Create(ctx context.Context, vehicle Vehicle) (int64, error)
	Update(ctx context.Context, vehicle Vehicle) error
	SetAvailability(ctx context.Context, id int64, available bool) error
	Delete(ctx context.Context, id int64) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const vehicleColumns = `id, plate, model, vehicle_type, capacity, year, price, is_available`

func (r *pgRepository) List(ctx context.Context, window shared.ListWindow) ([]Vehicle, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles ORDER BY id OFFSET $1 LIMIT $2`,
		window.Skip, window.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.Plate, &v.Model, &v.VehicleType, &v.Capacity, &v.Year, &v.Price, &v.IsAvailable); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *pgRepository) Get(ctx context.Context, id int64) (*Vehicle, error) {
	var v Vehicle
	err := r.pool.QueryRow(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id).
		Scan(&v.ID, &v.Plate, &v.Model, &v.VehicleType, &v.Capacity, &v.Year, &v.Price, &v.IsAvailable)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *pgRepository) Create(ctx context.Context, vehicle Vehicle) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO vehicles (plate, model, vehicle_type, capacity, year, price, is_available)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		vehicle.Plate, vehicle.Model, vehicle.VehicleType, vehicle.Capacity,
		vehicle.Year, vehicle.Price, vehicle.IsAvailable).Scan(&id)
	if shared.IsUniqueViolation(err) {
		return 0, shared.ErrDuplicate
	}
	return id, err
}

func (r *pgRepository) Update(ctx context.Context, vehicle Vehicle) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE vehicles SET plate = $2, model = $3, vehicle_type = $4, capacity = $5,
		        year = $6, price = $7, is_available = $8
		  WHERE id = $1`,
		vehicle.ID, vehicle.Plate, vehicle.Model, vehicle.VehicleType, vehicle.Capacity,
		vehicle.Year, vehicle.Price, vehicle.IsAvailable)
	if shared.IsUniqueViolation(err) {
		return shared.ErrDuplicate
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *pgRepository) SetAvailability(ctx context.Context, id int64, available bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE vehicles SET is_available = $2 WHERE id = $1`, id, available)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *pgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
