// Package vehicles manages the fleet catalog and availability flags.
package vehicles

// Vehicle is a fleet unit available for reservations.
type Vehicle struct {
	ID          int64   `json:"id"`
	Plate       string  `json:"placa"`
	Model       string  `json:"modelo"`
	VehicleType string  `json:"tipo_vehiculo"`
	Capacity    int     `json:"capacidad"`
	Year        int     `json:"anio"`
	Price       float64 `json:"precio"`
	IsAvailable bool    `json:"disponible"`
}
