package employees

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Repository abstracts employee persistence.
type Repository interface {
	List(ctx context.Context, window shared.ListWindow) ([]Employee, error)
	Get(ctx context.Context, id int64) (*Employee, error)
	Create(ctx context.Context, employee Employee) (int64, error)
	Update(ctx context.Context, employee Employee) error
	Delete(ctx context.Context, id int64) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) List(ctx context.Context, window shared.ListWindow) ([]Employee, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, company_id, user_id FROM employees ORDER BY id OFFSET $1 LIMIT $2`,
		window.Skip, window.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.UserID); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *pgRepository) Get(ctx context.Context, id int64) (*Employee, error) {
	var e Employee
	err := r.pool.QueryRow(ctx,
		`SELECT id, company_id, user_id FROM employees WHERE id = $1`, id).
		Scan(&e.ID, &e.CompanyID, &e.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *pgRepository) Create(ctx context.Context, employee Employee) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO employees (company_id, user_id) VALUES ($1, $2) RETURNING id`,
		employee.CompanyID, employee.UserID).Scan(&id)
	if shared.IsUniqueViolation(err) {
		return 0, shared.ErrDuplicate
	}
	if shared.IsForeignKeyViolation(err) {
		return 0, fmt.Errorf("%w: empresa o usuario inexistente", shared.ErrValidation)
	}
	return id, err
}

func (r *pgRepository) Update(ctx context.Context, employee Employee) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE employees SET company_id = $2, user_id = $3 WHERE id = $1`,
		employee.ID, employee.CompanyID, employee.UserID)
	if shared.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: empresa o usuario inexistente", shared.ErrValidation)
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
