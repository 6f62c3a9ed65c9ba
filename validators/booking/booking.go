package bookingValidator

import (
	"strings"
	"time"

	"rau/middleware"
	"rau/models"

	"github.com/gofiber/fiber/v2"
)

// CreateBookingRequest is the validated shape stored in c.Locals. A client can
// be referenced by id or created inline from the contact fields.
type CreateBookingRequest struct {
	SalesmanID      uint   `json:"salesmanId"`
	ClientID        *uint  `json:"clientId"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	BusinessName    string `json:"businessName"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
	AppointmentType string `json:"appointmentType"`
	DurationMinutes int    `json:"durationMinutes"`
	MeetingAddress  string `json:"meetingAddress"`
	ZoomLink        string `json:"zoomLink"`
	Notes           string `json:"notes"`
}

// CreateBooking validates booking creation requests.
func CreateBooking() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateBookingRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.SalesmanID == 0 {
			errors["salesmanId"] = "Salesman ID is required!"
		}

		validTypes := map[string]bool{
			models.AppointmentZoom:         true,
			models.AppointmentInPerson:     true,
			models.AppointmentLiveTransfer: true,
		}
		if !validTypes[reqData.AppointmentType] {
			errors["appointmentType"] = "Appointment type must be zoom, in_person or live_transfer!"
		}

		if _, err := time.Parse(models.DateLayout, reqData.AppointmentDate); err != nil {
			errors["appointmentDate"] = "Appointment date must be in YYYY-MM-DD format!"
		}
		if _, err := time.Parse(models.TimeLayout, reqData.AppointmentTime); err != nil {
			errors["appointmentTime"] = "Appointment time must be in HH:MM format!"
		}

		if reqData.DurationMinutes < 0 {
			errors["durationMinutes"] = "Duration must be a positive number of minutes!"
		}
		if reqData.DurationMinutes == 0 {
			reqData.DurationMinutes = 30
		}

		if reqData.ClientID == nil && strings.TrimSpace(reqData.FirstName) == "" {
			errors["firstName"] = "Client first name is required when no client ID is given!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreateBooking", reqData)
		return c.Next()
	}
}

// DeclineBooking validates decline requests; a reason is mandatory so the
// agent always learns why.
func DeclineBooking() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Reason string `json:"reason"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if strings.TrimSpace(reqData.Reason) == "" {
			errors["reason"] = "A decline reason is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedDeclineBooking", reqData)
		return c.Next()
	}
}
