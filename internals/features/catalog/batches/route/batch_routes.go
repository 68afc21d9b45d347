// file: internals/features/catalog/batches/route/batch_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	batchController "instituteku_backend/internals/features/catalog/batches/controller"
)

// BatchAdminRoutes mounts the batch catalog CRUD under the admin group.
// Example access: /api/a/batches
func BatchAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctl := batchController.NewBatchController(db)

	r := api.Group("/batches")
	r.Post("/", ctl.Create)
	r.Get("/", ctl.List)
	r.Get("/:id", ctl.GetByID)
	r.Patch("/:id", ctl.Patch)
	r.Delete("/:id", ctl.Delete)
}
