package adminRoutes

import (
	controllers "rau/controllers/admin"
	"rau/middleware"
	"rau/models"
	validators "rau/validators/admin"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up system configuration routes (Admin only)
func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))

	adminGroup.Get("/config", controllers.GetSystemConfig)
	adminGroup.Put("/config", validators.UpdateSystemConfig(), controllers.UpdateSystemConfig)
}
