// file: internals/route/details/scholarship_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	ExamRoutes "instituteku_backend/internals/features/scholarship/exams/route"
	RegistrationRoutes "instituteku_backend/internals/features/scholarship/registrations/route"
)

// Public routes without token.
// Example access: /exam/:code, /exam/:code/register
func ScholarshipPublicRoutes(app fiber.Router, db *gorm.DB) {
	RegistrationRoutes.RegistrationPublicRoutes(app, db)
}

// Public API group routes.
// Example access: /api/p/results/:examCode/:registrationNumber
func ScholarshipPublicAPIRoutes(api fiber.Router, db *gorm.DB) {
	RegistrationRoutes.RegistrationResultRoutes(api, db)
}

// Admin routes (token + staff/admin role checks inside controllers).
// Example access: /api/a/scholarship-exams
func ScholarshipAdminRoutes(api fiber.Router, db *gorm.DB) {
	ExamRoutes.ExamAdminRoutes(api, db)
	RegistrationRoutes.RegistrationAdminRoutes(api, db)
}
