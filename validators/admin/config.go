package adminValidator

import (
	"rau/middleware"

	"github.com/gofiber/fiber/v2"
)

// UpdateSystemConfig validates org-wide setting updates. All fields are
// optional; only the ones present are applied.
func UpdateSystemConfig() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			ZoomEnabled       *bool   `json:"zoomEnabled"`
			InPersonEnabled   *bool   `json:"inPersonEnabled"`
			BufferTimeMinutes *int    `json:"bufferTimeMinutes"`
			CompanyName       *string `json:"companyName"`
			ReminderHours     *int    `json:"reminderHours"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.BufferTimeMinutes != nil && *reqData.BufferTimeMinutes < 0 {
			errors["bufferTimeMinutes"] = "Buffer time must not be negative!"
		}
		if reqData.ReminderHours != nil && (*reqData.ReminderHours < 1 || *reqData.ReminderHours > 168) {
			errors["reminderHours"] = "Reminder hours must be between 1 and 168!"
		}
		if reqData.CompanyName != nil && *reqData.CompanyName == "" {
			errors["companyName"] = "Company name must not be empty!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdateSystemConfig", reqData)
		return c.Next()
	}
}
