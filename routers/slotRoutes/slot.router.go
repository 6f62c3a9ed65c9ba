package slotRoutes

import (
	controllers "rau/controllers/slot"
	"rau/middleware"
	"rau/models"
	validators "rau/validators/slot"

	"github.com/gofiber/fiber/v2"
)

// SetupSlotRoutes sets up availability routes
func SetupSlotRoutes(app *fiber.App) {
	slotGroup := app.Group("/slot")

	slotGroup.Get("/list", middleware.JWTMiddleware, controllers.ListSlots)
	slotGroup.Get("/calendar", middleware.JWTMiddleware, controllers.Calendar)

	slotGroup.Post("/generate", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.GenerateBulk(), controllers.GenerateForSalesman)
	slotGroup.Put("/availability", middleware.JWTMiddleware, middleware.RequireRole(models.RoleSalesman), validators.UpdateAvailability(), controllers.UpdateAvailability)
}
