package permissions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Repository abstracts permission persistence.
type Repository interface {
	List(ctx context.Context, window shared.ListWindow) ([]Permission, error)
	Get(ctx context.Context, id int64) (*Permission, error)
	Create(ctx context.Context, permission Permission) (int64, error)
	Update(ctx context.Context, permission Permission) error
	Delete(ctx context.Context, id int64) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) List(ctx context.Context, window shared.ListWindow) ([]Permission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, COALESCE(description, '')
		   FROM permissions ORDER BY id OFFSET $1 LIMIT $2`, window.Skip, window.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Description); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *pgRepository) Get(ctx context.Context, id int64) (*Permission, error) {
	var p Permission
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, COALESCE(description, '') FROM permissions WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pgRepository) Create(ctx context.Context, permission Permission) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO permissions (name, description) VALUES ($1, $2) RETURNING id`,
		permission.Name, permission.Description).Scan(&id)
	if shared.IsUniqueViolation(err) {
		return 0, shared.ErrDuplicate
	}
	return id, err
}

func (r *pgRepository) Update(ctx context.Context, permission Permission) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE permissions SET name = $2, description = $3 WHERE id = $1`,
		permission.ID, permission.Name, permission.Description)
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

func (r *pgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM permissions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
