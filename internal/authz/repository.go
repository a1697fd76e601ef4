package authz

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed access to the permission matrix.
// It implements MatrixStore for the checker and the write operations the
// admin endpoints use.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RoleIDByName resolves a role name case-insensitively.
func (r *Repository) RoleIDByName(ctx context.Context, name string) (int64, bool, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM roles WHERE LOWER(name) = LOWER($1)`, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// PermissionByName resolves a permission row case-insensitively.
func (r *Repository) PermissionByName(ctx context.Context, name string) (Permission, bool, error) {
	var perm Permission
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description FROM permissions WHERE LOWER(name) = LOWER($1)`, name).
		Scan(&perm.ID, &perm.Name, &perm.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return Permission{}, false, nil
	}
	if err != nil {
		return Permission{}, false, err
	}
	return perm, true, nil
}

// EntryFor fetches the matrix row for a (role, permission) pair.
func (r *Repository) EntryFor(ctx context.Context, roleID, permissionID int64) (Entry, bool, error) {
	entry := Entry{RoleID: roleID, PermissionID: permissionID}
	err := r.pool.QueryRow(ctx,
		`SELECT can_create, can_read, can_edit, can_delete
		   FROM role_permissions WHERE role_id = $1 AND permission_id = $2`,
		roleID, permissionID).
		Scan(&entry.CanCreate, &entry.CanRead, &entry.CanEdit, &entry.CanDelete)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}

// MatrixRow is an Entry joined with its role and permission names, as the
// admin listings present it.
type MatrixRow struct {
	Entry
	RoleName       string `json:"role_name"`
	PermissionName string `json:"permission_name"`
}

// ListEntries returns the whole matrix ordered by role then permission.
func (r *Repository) ListEntries(ctx context.Context) ([]MatrixRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT rp.role_id, rp.permission_id, rp.can_create, rp.can_read, rp.can_edit, rp.can_delete,
		        ro.name, pe.name
		   FROM role_permissions rp
		   JOIN roles ro ON ro.id = rp.role_id
		   JOIN permissions pe ON pe.id = rp.permission_id
		  ORDER BY ro.name, pe.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMatrixRows(rows)
}

// EntriesForRole returns the matrix rows for one role.
func (r *Repository) EntriesForRole(ctx context.Context, roleID int64) ([]MatrixRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT rp.role_id, rp.permission_id, rp.can_create, rp.can_read, rp.can_edit, rp.can_delete,
		        ro.name, pe.name
		   FROM role_permissions rp
		   JOIN roles ro ON ro.id = rp.role_id
		   JOIN permissions pe ON pe.id = rp.permission_id
		  WHERE rp.role_id = $1
		  ORDER BY pe.name`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMatrixRows(rows)
}

func scanMatrixRows(rows pgx.Rows) ([]MatrixRow, error) {
	var out []MatrixRow
	for rows.Next() {
		var row MatrixRow
		if err := rows.Scan(&row.RoleID, &row.PermissionID, &row.CanCreate, &row.CanRead,
			&row.CanEdit, &row.CanDelete, &row.RoleName, &row.PermissionName); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// UpsertEntry creates or replaces the matrix row for (role, permission).
// At most one entry per pair is guaranteed by the composite primary key.
func (r *Repository) UpsertEntry(ctx context.Context, entry Entry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO role_permissions (role_id, permission_id, can_create, can_read, can_edit, can_delete)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (role_id, permission_id)
		 DO UPDATE SET can_create = EXCLUDED.can_create, can_read = EXCLUDED.can_read,
		               can_edit = EXCLUDED.can_edit, can_delete = EXCLUDED.can_delete`,
		entry.RoleID, entry.PermissionID, entry.CanCreate, entry.CanRead, entry.CanEdit, entry.CanDelete)
	return err
}

// UpdateEntry updates an existing matrix row. Reports whether a row matched.
func (r *Repository) UpdateEntry(ctx context.Context, entry Entry) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE role_permissions
		    SET can_create = $3, can_read = $4, can_edit = $5, can_delete = $6
		  WHERE role_id = $1 AND permission_id = $2`,
		entry.RoleID, entry.PermissionID, entry.CanCreate, entry.CanRead, entry.CanEdit, entry.CanDelete)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteEntry removes a matrix row. Reports whether a row matched.
func (r *Repository) DeleteEntry(ctx context.Context, roleID, permissionID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2`,
		roleID, permissionID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
