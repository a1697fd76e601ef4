package cities

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Repository abstracts city persistence.
type Repository interface {
	List(ctx context.Context, window shared.ListWindow) ([]City, error)
	Get(ctx context.Context, id int64) (*City, error)
	Create(ctx context.Context, city City) (int64, error)
	Update(ctx context.Context, city City) error
	Delete(ctx context.Context, id int64) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) List(ctx context.Context, window shared.ListWindow) ([]City, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, state FROM cities ORDER BY id OFFSET $1 LIMIT $2`,
		window.Skip, window.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []City
	for rows.Next() {
		var c City
		if err := rows.Scan(&c.ID, &c.Name, &c.State); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *pgRepository) Get(ctx context.Context, id int64) (*City, error) {
	var c City
	err := r.pool.QueryRow(ctx, `SELECT id, name, state FROM cities WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.State)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *pgRepository) Create(ctx context.Context, city City) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO cities (name, state) VALUES ($1, $2) RETURNING id`,
		city.Name, city.State).Scan(&id)
	if shared.IsUniqueViolation(err) {
		return 0, shared.ErrDuplicate
	}
	return id, err
}

func (r *pgRepository) Update(ctx context.Context, city City) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cities SET name = $2, state = $3 WHERE id = $1`,
		city.ID, city.Name, city.State)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *pgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
