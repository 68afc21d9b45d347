// file: internals/features/scholarship/registrations/service/enrollment.go
package service

import (
	"github.com/gofiber/fiber/v2"

	model "instituteku_backend/internals/features/scholarship/registrations/model"
)

// ValidateEnrollmentTransition guards a staff-driven status edit.
// Any non-terminal state may move to any other non-terminal state;
// converted can never be the source (the registration is already a
// student) or the target (only the conversion service sets it).
func ValidateEnrollmentTransition(current, next model.EnrollmentStatus) error {
	if !next.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown enrollment status")
	}
	if current.IsTerminal() {
		return fiber.NewError(fiber.StatusConflict, "Registration already converted; status is final")
	}
	if next.IsTerminal() {
		return fiber.NewError(fiber.StatusConflict, "converted is set by admission conversion, not by status edit")
	}
	return nil
}
