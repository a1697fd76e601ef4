// Package cities manages the city catalog used for routing reservations.
package cities

// City is a pickup/destination catalog entry.
type City struct {
	ID    int64  `json:"id"`
	Name  string `json:"nombre"`
	State string `json:"estado"`
}
