// Package companies manages the corporate client catalog. Companies book
// through their registered employees.
package companies

import "time"

// Company is a corporate client.
type Company struct {
	ID           int64     `json:"id"`
	Name         string    `json:"nombre"`
	ContactEmail string    `json:"email_contacto"`
	ContactPhone string    `json:"telefono_contacto"`
	RegisteredAt time.Time `json:"fecha_registro"`
	IsActive     bool      `json:"activo"`
}
