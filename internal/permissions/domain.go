// Package permissions manages the permission catalog. Each permission name
// matches a controller resource, e.g. "usuarios" or "vehiculos".
package permissions

// Permission is a grantable resource entry.
type Permission struct {
	ID          int64  `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
}
