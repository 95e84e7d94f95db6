package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/arkield/campus-api/internal/service"
)

// statusForDomainError maps the sentinel failure kinds onto HTTP statuses.
// Dangling references map to 422 here; read paths that prefer 404 handle
// the sentinel before calling this.
func statusForDomainError(err error) (int, bool) {
	switch {
	case isValidationError(err):
		return fiber.StatusBadRequest, true
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, true
	case errors.Is(err, service.ErrInsufficientRole),
		errors.Is(err, service.ErrNotOwner),
		errors.Is(err, service.ErrNotEnrolled):
		return fiber.StatusForbidden, true
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrDuplicateEnrollment),
		errors.Is(err, service.ErrCapacityExceeded),
		errors.Is(err, service.ErrAlreadyGraded):
		return fiber.StatusConflict, true
	case errors.Is(err, service.ErrDanglingReference):
		return fiber.StatusUnprocessableEntity, true
	case errors.Is(err, service.ErrPersistenceFailed):
		return fiber.StatusInternalServerError, true
	default:
		return 0, false
	}
}
