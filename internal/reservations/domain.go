// Package reservations manages trip bookings, their lifecycle and the
// notifications that lifecycle changes produce.
package reservations

import "time"

// Reservation statuses. Stored as-is, the legacy clients match on the
// Spanish literals.
const (
	StatusPending   = "Pendiente"
	StatusConfirmed = "Confirmada"
	StatusCancelled = "Cancelada"
)

// Reservation is a trip booking. Either UserID is set (individual client)
// or EmployeeID and CompanyID are both set (corporate booking).
type Reservation struct {
	ID                int64      `json:"id"`
	StartDate         time.Time  `json:"fecha_inicio"`
	EndDate           time.Time  `json:"fecha_fin"`
	UserID            *int64     `json:"id_usuario,omitempty"`
	EmployeeID        *int64     `json:"id_empleado,omitempty"`
	CompanyID         *int64     `json:"id_empresa,omitempty"`
	CustomRoute       string     `json:"ruta_personalizada,omitempty"`
	ExtraRequirements string     `json:"requerimientos_extra,omitempty"`
	Status            string     `json:"estatus"`
	ReservedAt        time.Time  `json:"fecha_reservacion"`
	ConfirmedAt       *time.Time `json:"fecha_confirmacion,omitempty"`
	ConfirmationCode  string     `json:"codigo_confirmacion"`
}

// IsIndividual reports whether the booking belongs to an individual client.
func (r *Reservation) IsIndividual() bool {
	return r.UserID != nil
}
