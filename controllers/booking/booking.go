package bookingController

import (
	"log"
	"strconv"
	"time"

	"rau/database"
	"rau/middleware"
	"rau/models"
	"rau/payroll"
	"rau/scheduling"
	"rau/utils"
	bookingValidator "rau/validators/booking"

	"github.com/gofiber/fiber/v2"
)

// schedulingErrorResponse maps the scheduling error taxonomy onto HTTP
// statuses: validation 422, conflict 409, configuration 500.
func schedulingErrorResponse(c *fiber.Ctx, err error) error {
	if scheduling.IsValidation(err) {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
	}
	if scheduling.IsConflict(err) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, err.Error(), nil)
	}
	log.Printf("Error committing booking: %v", err)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process booking!", nil)
}

func resolveClient(reqData *bookingValidator.CreateBookingRequest, createdByID uint) (*uint, error) {
	db := database.Database.Db

	if reqData.ClientID != nil {
		var client models.Client
		if err := db.Where("id = ? AND is_deleted = false", *reqData.ClientID).First(&client).Error; err != nil {
			return nil, err
		}
		return reqData.ClientID, nil
	}
	if reqData.FirstName == "" {
		return nil, nil
	}

	phone := reqData.PhoneNumber
	if phone != "" {
		phone = utils.NormalizePhoneNumber(phone)
	}

	// Reuse an existing client when the phone number matches.
	if phone != "" {
		var existing models.Client
		if err := db.Where("phone_number = ? AND is_deleted = false", phone).First(&existing).Error; err == nil {
			return &existing.ID, nil
		}
	}

	client := models.Client{
		FirstName:    reqData.FirstName,
		LastName:     reqData.LastName,
		BusinessName: reqData.BusinessName,
		Email:        reqData.Email,
		PhoneNumber:  phone,
		Notes:        reqData.Notes,
		CreatedByID:  &createdByID,
	}
	if err := db.Create(&client).Error; err != nil {
		return nil, err
	}
	return &client.ID, nil
}

// CreateBooking commits a booking against an available slot (or directly for
// live transfers).
func CreateBooking(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedCreateBooking").(*bookingValidator.CreateBookingRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var salesman models.User
	err := db.Where("id = ? AND role = ? AND is_deleted = false", reqData.SalesmanID, models.RoleSalesman).
		First(&salesman).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Salesman not found!", nil)
	}

	clientID, err := resolveClient(reqData, userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Client not found!", nil)
	}

	var slotID *uint
	if reqData.AppointmentType != models.AppointmentLiveTransfer {
		var slot models.AvailableTimeSlot
		err := db.Where(
			"salesman_id = ? AND date = ? AND start_time = ? AND appointment_type = ? AND is_active = true AND is_booked = false",
			reqData.SalesmanID, reqData.AppointmentDate, reqData.AppointmentTime, reqData.AppointmentType,
		).First(&slot).Error
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "The selected time slot is no longer available!", nil)
		}
		slotID = &slot.ID
	}

	booking, err := scheduling.CommitBooking(db, scheduling.BookingRequest{
		ClientID:        clientID,
		SalesmanID:      reqData.SalesmanID,
		AppointmentDate: reqData.AppointmentDate,
		AppointmentTime: reqData.AppointmentTime,
		DurationMinutes: reqData.DurationMinutes,
		AppointmentType: reqData.AppointmentType,
		AvailableSlotID: slotID,
		MeetingAddress:  reqData.MeetingAddress,
		ZoomLink:        reqData.ZoomLink,
		CreatedByID:     &userId,
	}, time.Now().In(payroll.Location()))
	if err != nil {
		return schedulingErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Booking created successfully!", fiber.Map{
		"id":              booking.ID,
		"reference":       booking.Reference,
		"status":          booking.Status,
		"appointmentDate": booking.AppointmentDate,
		"appointmentTime": booking.AppointmentTime,
		"appointmentType": booking.AppointmentType,
		"payrollPeriodId": booking.PayrollPeriodID,
	})
}

func transitionBooking(c *fiber.Ctx, newStatus, reason, successMessage string) error {
	userId := c.Locals("userId").(uint)

	bookingID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid booking ID!", nil)
	}

	booking, err := scheduling.UpdateBookingStatus(
		database.Database.Db, uint(bookingID), newStatus, &userId, reason,
		time.Now().In(payroll.Location()),
	)
	if err != nil {
		return schedulingErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, successMessage, fiber.Map{
		"id":     booking.ID,
		"status": booking.Status,
	})
}

// ApproveBooking confirms a pending booking (Admin only).
func ApproveBooking(c *fiber.Ctx) error {
	return transitionBooking(c, models.BookingStatusConfirmed, "", "Booking approved!")
}

// DeclineBooking declines a pending booking with a reason (Admin only).
func DeclineBooking(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedDeclineBooking").(*struct {
		Reason string `json:"reason"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	return transitionBooking(c, models.BookingStatusDeclined, reqData.Reason, "Booking declined!")
}

// CancelBooking cancels a pending or confirmed booking. Agents can only
// cancel bookings they created; admins can cancel any.
func CancelBooking(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	userRole, _ := c.Locals("userRole").(string)

	if userRole != models.RoleAdmin {
		bookingID, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid booking ID!", nil)
		}
		var booking models.Booking
		if err := database.Database.Db.First(&booking, uint(bookingID)).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Booking not found!", nil)
		}
		if booking.CreatedByID == nil || *booking.CreatedByID != userId {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
		}
	}

	return transitionBooking(c, models.BookingStatusCanceled, "", "Booking canceled!")
}

// CompleteBooking marks a confirmed booking as completed, which enrolls the
// client into the attended follow-up sequence.
func CompleteBooking(c *fiber.Ctx) error {
	return transitionBooking(c, models.BookingStatusCompleted, "", "Booking completed!")
}

// MarkNoShow enrolls the client of a confirmed booking into the no-show
// follow-up sequence. The booking status is left as is; the slot has already
// passed.
func MarkNoShow(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	bookingID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid booking ID!", nil)
	}

	db := database.Database.Db

	var booking models.Booking
	if err := db.First(&booking, uint(bookingID)).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Booking not found!", nil)
	}
	if booking.Status != models.BookingStatusConfirmed {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Only confirmed bookings can be marked as no-show!", nil)
	}
	if booking.ClientID == nil {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Booking has no client to follow up with!", nil)
	}

	campaign, err := utils.StartDripCampaign(&booking, models.CampaignDidNotShow, time.Now().In(payroll.Location()))
	if err != nil {
		log.Printf("Error starting no-show campaign for booking %d: %v", booking.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start follow-up campaign!", nil)
	}

	utils.CreateAuditLog(&userId, "booking_no_show", "booking", booking.ID, map[string]interface{}{
		"campaignType": models.CampaignDidNotShow,
	})

	var campaignID *uint
	if campaign != nil {
		campaignID = &campaign.ID
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "No-show recorded, follow-up campaign started!", fiber.Map{
		"id":             booking.ID,
		"dripCampaignId": campaignID,
	})
}

// ListBookings returns bookings filtered by status, salesman and date range,
// newest first, paginated.
func ListBookings(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	userRole, _ := c.Locals("userRole").(string)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	db := database.Database.Db
	query := db.Model(&models.Booking{})

	// Agents only see their own bookings; salesmen only bookings assigned to
	// them; admins see everything.
	switch userRole {
	case models.RoleAgent:
		query = query.Where("created_by_id = ?", userId)
	case models.RoleSalesman:
		query = query.Where("salesman_id = ?", userId)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if salesmanID := c.Query("salesmanId"); salesmanID != "" {
		query = query.Where("salesman_id = ?", salesmanID)
	}
	if from := c.Query("from"); from != "" {
		query = query.Where("appointment_date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("appointment_date <= ?", to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("Error counting bookings: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch bookings!", nil)
	}

	var bookings []models.Booking
	err := query.Preload("Client").Preload("Salesman").Preload("PayrollPeriod").
		Order("appointment_date DESC, appointment_time DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&bookings).Error
	if err != nil {
		log.Printf("Error fetching bookings: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch bookings!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bookings fetched successfully!", fiber.Map{
		"bookings": bookings,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// GetBooking returns one booking with its associations.
func GetBooking(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	userRole, _ := c.Locals("userRole").(string)

	bookingID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid booking ID!", nil)
	}

	var booking models.Booking
	err = database.Database.Db.
		Preload("Client").Preload("Salesman").Preload("PayrollPeriod").
		First(&booking, uint(bookingID)).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Booking not found!", nil)
	}

	if userRole == models.RoleAgent && (booking.CreatedByID == nil || *booking.CreatedByID != userId) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}
	if userRole == models.RoleSalesman && booking.SalesmanID != userId {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Booking fetched successfully!", fiber.Map{
		"booking": booking,
	})
}
