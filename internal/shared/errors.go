package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness conflict.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInactiveAccount indicates the backing user account is disabled.
	ErrInactiveAccount = errors.New("inactive account")
	// ErrValidation indicates request payload validation failure.
	ErrValidation = errors.New("validation failed")
)

// UserSafeMessage returns a message suitable for API clients. Internal
// errors collapse to a generic string so they never leak detail.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "Recurso no encontrado"
	case errors.Is(err, ErrDuplicate):
		return "El registro ya existe"
	case errors.Is(err, ErrInvalidCredentials):
		return "Credenciales inválidas"
	case errors.Is(err, ErrInactiveAccount):
		return "Usuario inactivo. Contacte al administrador."
	case errors.Is(err, ErrValidation):
		return "Datos de entrada incorrectos"
	default:
		return "Error interno del servidor"
	}
}
