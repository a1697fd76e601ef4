package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Repository abstracts account persistence for the admin CRUD.
type Repository interface {
	List(ctx context.Context, window shared.ListWindow) ([]User, error)
	Get(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, user User, passwordHash string) (int64, error)
	Update(ctx context.Context, user User, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const userColumns = `id, email, first_name, last_name, role_id, registered_at, is_active`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.RoleID, &u.RegisteredAt, &u.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *pgRepository) List(ctx context.Context, window shared.ListWindow) ([]User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id OFFSET $1 LIMIT $2`,
		window.Skip, window.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.RoleID, &u.RegisteredAt, &u.IsActive); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *pgRepository) Get(ctx context.Context, id int64) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *pgRepository) Create(ctx context.Context, user User, passwordHash string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, role_id, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		user.Email, passwordHash, user.FirstName, user.LastName, user.RoleID, user.IsActive).Scan(&id)
	if shared.IsUniqueViolation(err) {
		return 0, shared.ErrDuplicate
	}
	return id, err
}

// Update rewrites the mutable account fields. An empty passwordHash keeps
// the stored hash.
func (r *pgRepository) Update(ctx context.Context, user User, passwordHash string) error {
	var tagRows int64
	if passwordHash != "" {
		tag, err := r.pool.Exec(ctx,
			`UPDATE users SET email = $2, first_name = $3, last_name = $4, role_id = $5,
			        is_active = $6, password_hash = $7
			  WHERE id = $1`,
			user.ID, user.Email, user.FirstName, user.LastName, user.RoleID, user.IsActive, passwordHash)
		if shared.IsUniqueViolation(err) {
			return shared.ErrDuplicate
		}
		if err != nil {
			return err
		}
		tagRows = tag.RowsAffected()
	} else {
		tag, err := r.pool.Exec(ctx,
			`UPDATE users SET email = $2, first_name = $3, last_name = $4, role_id = $5,
			        is_active = $6
			  WHERE id = $1`,
			user.ID, user.Email, user.FirstName, user.LastName, user.RoleID, user.IsActive)
		if shared.IsUniqueViolation(err) {
			return shared.ErrDuplicate
		}
		if err != nil {
			return err
		}
		tagRows = tag.RowsAffected()
	}
	if tagRows == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *pgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
