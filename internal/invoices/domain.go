// Package invoices manages pre-invoices generated for reservations. The
// total is always derived server side from vehicle and extra costs.
package invoices

import "time"

// PreInvoice is the billing preview for a reservation.
type PreInvoice struct {
	ID            int64     `json:"id"`
	ReservationID int64     `json:"id_reservacion"`
	VehicleCost   float64   `json:"costo_vehiculo"`
	ExtraCost     float64   `json:"costo_adicional"`
	TotalCost     float64   `json:"costo_total"`
	GeneratedAt   time.Time `json:"fecha_generacion"`
	PDFFile       *string   `json:"archivo_pdf,omitempty"`
}
