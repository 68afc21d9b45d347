// file: internals/route/details/catalog_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	BatchRoutes "instituteku_backend/internals/features/catalog/batches/route"
)

// Admin routes for the institute catalog.
// Example access: /api/a/batches
func CatalogAdminRoutes(api fiber.Router, db *gorm.DB) {
	BatchRoutes.BatchAdminRoutes(api, db)
}
