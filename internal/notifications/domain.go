// Package notifications tracks the lifecycle messages sent for
// reservations.
package notifications

import "time"

// Notification is a record of a message sent for a reservation.
type Notification struct {
	ID               int64     `json:"id"`
	ReservationID    int64     `json:"id_reservacion"`
	NotificationType string    `json:"tipo_notificacion"`
	SentAt           time.Time `json:"fecha_envio"`
}
