package auth

import "time"

// User represents an authenticated user account.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	RoleID       int64
	IsActive     bool
	RegisteredAt time.Time
}

// TokenResponse is the login/token payload returned to clients.
type TokenResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	UserID      int64    `json:"user_id"`
	Role        string   `json:"role"`
	Email       string   `json:"email"`
	FirstName   string   `json:"nombre"`
	LastName    string   `json:"apellido"`
	Permissions []string `json:"permissions"`
}
