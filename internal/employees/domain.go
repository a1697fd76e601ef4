// Package employees links user accounts to the company they book for.
package employees

// Employee ties an account to a corporate client.
type Employee struct {
	ID        int64 `json:"id"`
	CompanyID int64 `json:"id_empresa"`
	UserID    int64 `json:"id_usuario"`
}
