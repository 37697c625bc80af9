package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Sentinel errors shared by every service layer. Handlers translate
// them to HTTP statuses with Status; stores and services wrap them with
// fmt.Errorf("...: %w", ...) so errors.Is still matches.
var (
	// ErrUnauthenticated covers missing, malformed, unknown, expired and
	// revoked session tokens alike. Callers must not be able to tell the
	// cases apart.
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation failed")
)

// Status maps a service error to an HTTP status code. Unrecognized
// errors map to 500; the caller is expected to log them and return a
// generic message.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, ErrValidation):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
