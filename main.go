package main

import (
	"log"

	"rau/config"
	"rau/database"
	adminRoutes "rau/routers/adminRoutes"
	authRoutes "rau/routers/authRoutes"
	bookingRoutes "rau/routers/bookingRoutes"
	payrollRoutes "rau/routers/payrollRoutes"
	slotRoutes "rau/routers/slotRoutes"
	"rau/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	// Post-commit booking events drive notifications, audit, drip campaigns
	// and the sheet mirror; wire them before any request can create a booking.
	utils.RegisterBookingSubscribers()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	bookingRoutes.SetupBookingRoutes(app)
	slotRoutes.SetupSlotRoutes(app)
	payrollRoutes.SetupPayrollRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	if !config.AppConfig.SchedulersDisabled {
		utils.InitializeSchedulers()
	}

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
