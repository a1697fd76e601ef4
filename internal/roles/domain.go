// Package roles manages the role catalog backing authorization decisions.
package roles

import "time"

// Role groups permission grants under a name like "Administrador".
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion"`
	CreatedAt   time.Time `json:"fecha_creacion"`
	UpdatedAt   time.Time `json:"fecha_actualizacion"`
}
