// Package users exposes the administrative account CRUD. Login and token
// issuance live in internal/auth.
package users

import "time"

// User is the API view of an account. The password hash never leaves the
// repository layer.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"nombre"`
	LastName     string    `json:"apellido"`
	RoleID       int64     `json:"id_rol"`
	RegisteredAt time.Time `json:"fecha_registro"`
	IsActive     bool      `json:"activo"`
}
