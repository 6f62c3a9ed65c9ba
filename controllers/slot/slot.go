package slotController

import (
	"log"
	"time"

	"rau/database"
	"rau/middleware"
	"rau/models"
	"rau/payroll"
	"rau/scheduling"
	"rau/utils"

	"github.com/gofiber/fiber/v2"
)

// ListSlots returns bookable slots for a salesman, optionally filtered by
// date range and appointment type. Elapsed slots are swept before the read so
// clients never see times that already passed.
func ListSlots(c *fiber.Ctx) error {
	salesmanID := c.Query("salesmanId")
	if salesmanID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "salesmanId query parameter is required!", nil)
	}

	db := database.Database.Db
	now := time.Now().In(payroll.Location())

	if _, err := scheduling.RunPastSlotCleanup(db, now); err != nil {
		log.Printf("Error sweeping elapsed slots: %v", err)
	}

	query := db.Where("salesman_id = ? AND is_active = true AND is_booked = false", salesmanID)
	if from := c.Query("from"); from != "" {
		query = query.Where("date >= ?", from)
	} else {
		query = query.Where("date >= ?", now.Format(models.DateLayout))
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("date <= ?", to)
	}
	if appointmentType := c.Query("type"); appointmentType != "" {
		query = query.Where("appointment_type = ?", appointmentType)
	}

	var slots []models.AvailableTimeSlot
	if err := query.Order("date ASC, start_time ASC").Find(&slots).Error; err != nil {
		log.Printf("Error fetching slots: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch slots!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Slots fetched successfully!", fiber.Map{
		"slots": slots,
		"count": len(slots),
	})
}

// Calendar returns the salesman's slots grouped by date, each date carrying
// its open times per appointment type.
func Calendar(c *fiber.Ctx) error {
	salesmanID := c.Query("salesmanId")
	if salesmanID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "salesmanId query parameter is required!", nil)
	}

	db := database.Database.Db
	now := time.Now().In(payroll.Location())

	if _, err := scheduling.RunPastSlotCleanup(db, now); err != nil {
		log.Printf("Error sweeping elapsed slots: %v", err)
	}

	query := db.Where("salesman_id = ? AND is_active = true AND is_booked = false AND date >= ?",
		salesmanID, now.Format(models.DateLayout))
	if to := c.Query("to"); to != "" {
		query = query.Where("date <= ?", to)
	}

	var slots []models.AvailableTimeSlot
	if err := query.Order("date ASC, start_time ASC").Find(&slots).Error; err != nil {
		log.Printf("Error fetching calendar: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch calendar!", nil)
	}

	calendar := make(map[string]map[string][]string)
	dates := make([]string, 0)
	for i := range slots {
		slot := &slots[i]
		if _, ok := calendar[slot.Date]; !ok {
			calendar[slot.Date] = make(map[string][]string)
			dates = append(dates, slot.Date)
		}
		calendar[slot.Date][slot.AppointmentType] = append(calendar[slot.Date][slot.AppointmentType], slot.StartTime)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Calendar fetched successfully!", fiber.Map{
		"dates":    dates,
		"calendar": calendar,
	})
}

// GenerateForSalesman bulk-generates slots for a date range, used when
// onboarding a salesman mid-cycle (Admin only).
func GenerateForSalesman(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedGenerateBulk").(*struct {
		SalesmanID uint   `json:"salesmanId"`
		StartDate  string `json:"startDate"`
		EndDate    string `json:"endDate"`
	})
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
	if !salesman.IsActiveSalesman {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Salesman is not active for scheduling!", nil)
	}

	cfg, err := models.GetSystemConfig(db)
	if err != nil {
		log.Printf("Error loading system config: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate slots!", nil)
	}
	enabledTypes := scheduling.EnabledAppointmentTypes(cfg)
	if len(enabledTypes) == 0 {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "No appointment types are enabled!", nil)
	}

	cycle, err := scheduling.EnsureCycleForDate(db, reqData.StartDate)
	if err != nil {
		log.Printf("Error resolving cycle: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate slots!", nil)
	}

	from, _ := time.ParseInLocation(models.DateLayout, reqData.StartDate, payroll.Location())
	to, _ := time.ParseInLocation(models.DateLayout, reqData.EndDate, payroll.Location())

	created, err := scheduling.GenerateBulk(db, &salesman, cycle, from, to, enabledTypes)
	if err != nil {
		log.Printf("Error bulk-generating slots: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate slots!", nil)
	}

	userId := c.Locals("userId").(uint)
	utils.CreateAuditLog(&userId, "slots_generated", "user", salesman.ID, map[string]interface{}{
		"startDate": reqData.StartDate,
		"endDate":   reqData.EndDate,
		"created":   created,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Slots generated successfully!", fiber.Map{
		"created":   created,
		"startDate": reqData.StartDate,
		"endDate":   reqData.EndDate,
	})
}

// UpdateAvailability lets a salesman change their booking window. Future
// unbooked slots falling outside the new window stay until cleanup; the next
// daily run generates against the new settings.
func UpdateAvailability(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedUpdateAvailability").(*struct {
		BookingAdvanceDays *int    `json:"bookingAdvanceDays"`
		BookingWeekdays    *string `json:"bookingWeekdays"`
		BookingStartTime   *string `json:"bookingStartTime"`
		BookingEndTime     *string `json:"bookingEndTime"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var salesman models.User
	err := db.Where("id = ? AND role = ? AND is_deleted = false", userId, models.RoleSalesman).
		First(&salesman).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only salesmen can update availability!", nil)
	}

	updates := make(map[string]interface{})
	if reqData.BookingAdvanceDays != nil {
		updates["booking_advance_days"] = *reqData.BookingAdvanceDays
	}
	if reqData.BookingWeekdays != nil {
		updates["booking_weekdays"] = *reqData.BookingWeekdays
	}
	if reqData.BookingStartTime != nil {
		updates["booking_start_time"] = *reqData.BookingStartTime
	}
	if reqData.BookingEndTime != nil {
		updates["booking_end_time"] = *reqData.BookingEndTime
	}
	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	if err := db.Model(&salesman).Updates(updates).Error; err != nil {
		log.Printf("Error updating availability for salesman %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update availability!", nil)
	}

	utils.CreateAuditLog(&userId, "availability_updated", "user", salesman.ID, map[string]interface{}{
		"updates": updates,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Availability updated successfully!", fiber.Map{
		"bookingAdvanceDays": salesman.BookingAdvanceDays,
		"bookingWeekdays":    salesman.BookingWeekdays,
		"bookingStartTime":   salesman.BookingStartTime,
		"bookingEndTime":     salesman.BookingEndTime,
	})
}
