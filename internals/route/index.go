// file: internals/route/index.go
package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authMiddleware "instituteku_backend/internals/middlewares/auth"
	routeDetails "instituteku_backend/internals/route/details"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// ===================== PUBLIC (no token) =====================
	log.Println("[INFO] Setting up PUBLIC routes...")
	routeDetails.ScholarshipPublicRoutes(app, db)

	publicAPI := app.Group("/api/p")
	routeDetails.ScholarshipPublicAPIRoutes(publicAPI, db)

	// ===================== ADMIN (per tenant) =====================
	log.Println("[INFO] Setting up ADMIN group (JWT + tenant scope)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
	)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting Catalog routes...")
	routeDetails.CatalogAdminRoutes(admin, db)

	log.Println("[INFO] Mounting Scholarship routes...")
	routeDetails.ScholarshipAdminRoutes(admin, db)
}
