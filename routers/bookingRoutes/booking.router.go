package bookingRoutes

import (
	controllers "rau/controllers/booking"
	"rau/middleware"
	"rau/models"
	validators "rau/validators/booking"

	"github.com/gofiber/fiber/v2"
)

// SetupBookingRoutes sets up booking lifecycle routes
func SetupBookingRoutes(app *fiber.App) {
	bookingGroup := app.Group("/booking")

	bookingGroup.Post("/create", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAgent, models.RoleAdmin), validators.CreateBooking(), controllers.CreateBooking)
	bookingGroup.Get("/list", middleware.JWTMiddleware, controllers.ListBookings)
	bookingGroup.Get("/:id", middleware.JWTMiddleware, controllers.GetBooking)

	// Admin-only lifecycle transitions
	bookingGroup.Post("/:id/approve", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), controllers.ApproveBooking)
	bookingGroup.Post("/:id/decline", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.DeclineBooking(), controllers.DeclineBooking)
	bookingGroup.Post("/:id/complete", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin, models.RoleSalesman), controllers.CompleteBooking)
	bookingGroup.Post("/:id/no-show", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin, models.RoleSalesman), controllers.MarkNoShow)

	// Agents can cancel their own bookings; ownership is checked in the controller
	bookingGroup.Post("/:id/cancel", middleware.JWTMiddleware, controllers.CancelBooking)
}
