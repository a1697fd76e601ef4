package companies

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Repository abstracts company persistence.
type Repository interface {
	List(ctx context.Context, window shared.ListWindow) ([]Company, error)
	Get(ctx context.Context, id int64) (*Company, error)
	Create(ctx context.Context, company Company) (int64, error)
	Update(ctx context.Context, company Company) error
	Delete(ctx context.Context, id int64) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const companyColumns = `id, name, COALESCE(contact_email, ''), COALESCE(contact_phone, ''), registered_at, is_active`

func (r *pgRepository) List(ctx context.Context, window shared.ListWindow) ([]Company, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+companyColumns+` FROM companies ORDER BY id OFFSET $1 LIMIT $2`,
		window.Skip, window.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name, &c.ContactEmail, &c.ContactPhone, &c.RegisteredAt, &c.IsActive); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *pgRepository) Get(ctx context.Context, id int64) (*Company, error) {
	var c Company
	err := r.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.ContactEmail, &c.ContactPhone, &c.RegisteredAt, &c.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *pgRepository) Create(ctx context.Context, company Company) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO companies (name, contact_email, contact_phone, is_active)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		company.Name, company.ContactEmail, company.ContactPhone, company.IsActive).Scan(&id)
	if shared.IsUniqueViolation(err) {
		return 0, shared.ErrDuplicate
	}
	return id, err
}

func (r *pgRepository) Update(ctx context.Context, company Company) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE companies SET name = $2, contact_email = $3, contact_phone = $4, is_active = $5
		  WHERE id = $1`,
		company.ID, company.Name, company.ContactEmail, company.ContactPhone, company.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *pgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
