// file: internals/features/scholarship/exams/route/scholarship_exam_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	examController "instituteku_backend/internals/features/scholarship/exams/controller"
)

// ExamAdminRoutes mounts exam lifecycle management under the admin group.
// Example access: /api/a/scholarship-exams
func ExamAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctl := examController.NewScholarshipExamController(db)

	r := api.Group("/scholarship-exams")
	r.Post("/", ctl.Create)
	r.Get("/", ctl.List)
	r.Get("/:id", ctl.GetByID)
	r.Patch("/:id", ctl.Patch)
	r.Delete("/:id", ctl.Delete)
	r.Post("/:id/publish", ctl.PublishResults)
	r.Get("/:id/stats", ctl.Stats)
}
