package payrollRoutes

import (
	controllers "rau/controllers/payroll"
	"rau/middleware"
	"rau/models"

	"github.com/gofiber/fiber/v2"
)

// SetupPayrollRoutes sets up payroll period routes (Admin only)
func SetupPayrollRoutes(app *fiber.App) {
	payrollGroup := app.Group("/payroll", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))

	payrollGroup.Get("/periods", controllers.ListPeriods)
	payrollGroup.Get("/periods/:id", controllers.PeriodBookings)
	payrollGroup.Post("/periods/:id/finalize", controllers.FinalizePeriod)
}
