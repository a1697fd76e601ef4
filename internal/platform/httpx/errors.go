package httpx

import (
	"errors"
	"net/http"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// RespondError maps domain errors to HTTP failure responses.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Fail(w, http.StatusNotFound, shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrDuplicate):
		Fail(w, http.StatusConflict, shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrValidation):
		Fail(w, http.StatusBadRequest, shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrInvalidCredentials), errors.Is(err, shared.ErrInactiveAccount):
		Fail(w, http.StatusUnauthorized, shared.UserSafeMessage(err))
	default:
		Fail(w, http.StatusInternalServerError, shared.UserSafeMessage(err))
	}
}
