// file: internals/features/scholarship/registrations/route/exam_registration_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	regController "instituteku_backend/internals/features/scholarship/registrations/controller"
	middleware "instituteku_backend/internals/middlewares"
)

// RegistrationAdminRoutes mounts registration management under the admin
// group: exam-nested listing/upload/export plus per-registration edits.
// Example access: /api/a/scholarship-exams/:examId/registrations
func RegistrationAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctl := regController.NewExamRegistrationController(db)

	exams := api.Group("/scholarship-exams/:examId")
	exams.Get("/registrations", ctl.List)
	exams.Post("/results/upload", middleware.UploadRateLimiter(), ctl.UploadResults)
	exams.Get("/results/export", ctl.Export)

	regs := api.Group("/registrations")
	regs.Get("/:id", ctl.GetByID)
	regs.Patch("/:id", ctl.Patch)
	regs.Patch("/:id/result", ctl.EditResult)
	regs.Patch("/:id/enrollment-status", ctl.SetEnrollmentStatus)
	regs.Post("/:id/convert", ctl.Convert)
}

// RegistrationPublicRoutes mounts the unauthenticated surface: exam
// landing, self-registration and the published result lookup.
func RegistrationPublicRoutes(app fiber.Router, db *gorm.DB) {
	ctl := regController.NewPublicRegistrationController(db)

	app.Get("/exam/:code", ctl.ExamLanding)
	app.Post("/exam/:code/register", middleware.RegisterRateLimiter(), ctl.Register)
}

// RegistrationResultRoutes mounts the student-facing result lookup under
// the public API group.
// Example access: /api/p/results/:examCode/:registrationNumber
func RegistrationResultRoutes(api fiber.Router, db *gorm.DB) {
	ctl := regController.NewPublicRegistrationController(db)

	api.Get("/results/:examCode/:registrationNumber", ctl.ResultLookup)
}
