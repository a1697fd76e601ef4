package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Repository abstracts user persistence for the auth flows.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, user User) (int64, error)
	RoleNameByID(ctx context.Context, roleID int64) (string, error)
	RoleIDByName(ctx context.Context, name string) (int64, error)
	PermissionNamesForRole(ctx context.Context, roleID int64) ([]string, error)
	IsActive(ctx context.Context, userID int64) (bool, error)
}

// PostgresRepository is the pgx backed Repository. It also serves as the
// authorization gate's user directory through IsActive.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgresRepository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FindByEmail fetches a user by email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, first_name, last_name, role_id, is_active, registered_at
		   FROM users WHERE LOWER(email) = LOWER($1)`, email).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
			&user.RoleID, &user.IsActive, &user.RegisteredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new account and returns its id.
func (r *PostgresRepository) CreateUser(ctx context.Context, user User) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, role_id, is_active)
		 VALUES ($1, $2, $3, $4, $5, TRUE) RETURNING id`,
		user.Email, user.PasswordHash, user.FirstName, user.LastName, user.RoleID).Scan(&id)
	if shared.IsUniqueViolation(err) {
		return 0, shared.ErrDuplicate
	}
	return id, err
}

// RoleNameByID resolves a role name.
func (r *PostgresRepository) RoleNameByID(ctx context.Context, roleID int64) (string, error) {
	var name string
	err := r.pool.QueryRow(ctx, `SELECT name FROM roles WHERE id = $1`, roleID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", shared.ErrNotFound
	}
	return name, err
}

// RoleIDByName resolves a role id case-insensitively.
func (r *PostgresRepository) RoleIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `SELECT id FROM roles WHERE LOWER(name) = LOWER($1)`, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, shared.ErrNotFound
	}
	return id, err
}

// PermissionNamesForRole flattens the permission names granted to a role,
// for embedding in token claims.
func (r *PostgresRepository) PermissionNamesForRole(ctx context.Context, roleID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.name FROM permissions p
		   JOIN role_permissions rp ON rp.permission_id = p.id
		  WHERE rp.role_id = $1 ORDER BY p.name`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// IsActive reports whether the account exists and is enabled.
func (r *PostgresRepository) IsActive(ctx context.Context, userID int64) (bool, error) {
	var active bool
	err := r.pool.QueryRow(ctx, `SELECT is_active FROM users WHERE id = $1`, userID).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return active, err
}
