package slotValidator

import (
	"time"

	"rau/middleware"
	"rau/models"

	"github.com/gofiber/fiber/v2"
)

// GenerateBulk validates onboarding bulk-generation requests.
func GenerateBulk() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			SalesmanID uint   `json:"salesmanId"`
			StartDate  string `json:"startDate"`
			EndDate    string `json:"endDate"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.SalesmanID == 0 {
			errors["salesmanId"] = "Salesman ID is required!"
		}

		start, startErr := time.Parse(models.DateLayout, reqData.StartDate)
		if startErr != nil {
			errors["startDate"] = "Start date must be in YYYY-MM-DD format!"
		}
		end, endErr := time.Parse(models.DateLayout, reqData.EndDate)
		if endErr != nil {
			errors["endDate"] = "End date must be in YYYY-MM-DD format!"
		}
		if startErr == nil && endErr == nil && end.Before(start) {
			errors["endDate"] = "End date must not be before start date!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGenerateBulk", reqData)
		return c.Next()
	}
}

// UpdateAvailability validates a salesman's booking-window settings.
func UpdateAvailability() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			BookingAdvanceDays *int    `json:"bookingAdvanceDays"`
			BookingWeekdays    *string `json:"bookingWeekdays"`
			BookingStartTime   *string `json:"bookingStartTime"`
			BookingEndTime     *string `json:"bookingEndTime"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.BookingAdvanceDays != nil && (*reqData.BookingAdvanceDays < 1 || *reqData.BookingAdvanceDays > 90) {
			errors["bookingAdvanceDays"] = "Advance days must be between 1 and 90!"
		}
		if reqData.BookingStartTime != nil {
			if _, err := time.Parse(models.TimeLayout, *reqData.BookingStartTime); err != nil {
				errors["bookingStartTime"] = "Start time must be in HH:MM format!"
			}
		}
		if reqData.BookingEndTime != nil {
			if _, err := time.Parse(models.TimeLayout, *reqData.BookingEndTime); err != nil {
				errors["bookingEndTime"] = "End time must be in HH:MM format!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdateAvailability", reqData)
		return c.Next()
	}
}
