// Package assignments links vehicles to reservations. The pair of ids is
// the primary key.
package assignments

import "time"

// Assignment statuses.
const (
	StatusActive    = "Activa"
	StatusCancelled = "Cancelada"
)

// Assignment pairs a vehicle with a reservation.
type Assignment struct {
	VehicleID        int64     `json:"id_vehiculo"`
	ReservationID    int64     `json:"id_reservacion"`
	AssignedAt       time.Time `json:"fecha_asignacion"`
	AssignmentStatus string    `json:"estatus_asignacion"`
}
