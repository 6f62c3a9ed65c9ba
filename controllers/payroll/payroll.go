package payrollController

import (
	"log"
	"strconv"
	"time"

	"rau/database"
	"rau/middleware"
	"rau/models"
	"rau/payroll"
	"rau/utils"

	"github.com/gofiber/fiber/v2"
)

// ListPeriods returns the recent payroll weeks, newest first, merged with any
// persisted period rows so finalization status shows alongside computed weeks
// that have no bookings yet.
func ListPeriods(c *fiber.Ctx) error {
	weeks, _ := strconv.Atoi(c.Query("weeks", "8"))
	if weeks < 1 || weeks > 52 {
		weeks = 8
	}

	db := database.Database.Db
	now := time.Now().In(payroll.Location())
	computed := payroll.RecentPeriods(now, weeks)

	type periodView struct {
		ID          uint   `json:"id"`
		StartDate   string `json:"startDate"`
		EndDate     string `json:"endDate"`
		Label       string `json:"label"`
		Status      string `json:"status"`
		IsCurrent   bool   `json:"isCurrent"`
		Bookings    int64  `json:"bookings"`
		FinalizedAt string `json:"finalizedAt,omitempty"`
	}

	current := payroll.CurrentPayrollPeriod(now)
	views := make([]periodView, 0, len(computed))
	for _, period := range computed {
		view := periodView{
			StartDate: period.StartDate,
			EndDate:   period.EndDate,
			Label:     period.StartDate + " to " + period.EndDate,
			Status:    models.PayrollStatusOpen,
			IsCurrent: period.StartDate == current.StartDate,
		}

		var stored models.PayrollPeriod
		err := db.Where("start_date = ? AND end_date = ?", period.StartDate, period.EndDate).
			First(&stored).Error
		if err == nil {
			view.ID = stored.ID
			view.Status = stored.Status
			if stored.FinalizedAt != nil {
				view.FinalizedAt = stored.FinalizedAt.Format(time.RFC3339)
			}
			db.Model(&models.Booking{}).
				Where("payroll_period_id = ?", stored.ID).
				Count(&view.Bookings)
		}
		views = append(views, view)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payroll periods fetched successfully!", fiber.Map{
		"periods": views,
	})
}

// PeriodBookings returns all bookings assigned to one payroll period, grouped
// per salesman with commission totals.
func PeriodBookings(c *fiber.Ctx) error {
	periodID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid period ID!", nil)
	}

	db := database.Database.Db

	var period models.PayrollPeriod
	if err := db.First(&period, uint(periodID)).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payroll period not found!", nil)
	}

	var bookings []models.Booking
	err = db.Where("payroll_period_id = ?", period.ID).
		Preload("Client").Preload("Salesman").
		Order("salesman_id ASC, appointment_date ASC, appointment_time ASC").
		Find(&bookings).Error
	if err != nil {
		log.Printf("Error fetching period bookings: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch bookings!", nil)
	}

	type salesmanSummary struct {
		SalesmanID   uint    `json:"salesmanId"`
		SalesmanName string  `json:"salesmanName"`
		Bookings     int     `json:"bookings"`
		Completed    int     `json:"completed"`
		Commission   float64 `json:"commission"`
	}

	summaries := make(map[uint]*salesmanSummary)
	order := make([]uint, 0)
	for i := range bookings {
		booking := &bookings[i]
		summary, ok := summaries[booking.SalesmanID]
		if !ok {
			summary = &salesmanSummary{SalesmanID: booking.SalesmanID}
			if booking.Salesman != nil {
				summary.SalesmanName = booking.Salesman.FullName()
			}
			summaries[booking.SalesmanID] = summary
			order = append(order, booking.SalesmanID)
		}
		summary.Bookings++
		if booking.Status == models.BookingStatusCompleted {
			summary.Completed++
			summary.Commission += booking.CommissionAmount
		}
	}

	ordered := make([]*salesmanSummary, 0, len(order))
	for _, id := range order {
		ordered = append(ordered, summaries[id])
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Period bookings fetched successfully!", fiber.Map{
		"period":    period,
		"bookings":  bookings,
		"summaries": ordered,
	})
}

// FinalizePeriod transitions a payroll period open→finalized exactly once
// (Admin only). Finalized periods reject any later status change.
func FinalizePeriod(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	periodID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid period ID!", nil)
	}

	db := database.Database.Db

	var period models.PayrollPeriod
	if err := db.First(&period, uint(periodID)).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payroll period not found!", nil)
	}
	if period.Status == models.PayrollStatusFinalized {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Payroll period is already finalized!", nil)
	}

	// Conditional update so two concurrent finalizations cannot both win.
	now := time.Now()
	result := db.Model(&models.PayrollPeriod{}).
		Where("id = ? AND status = ?", period.ID, models.PayrollStatusOpen).
		Updates(map[string]interface{}{
			"status":          models.PayrollStatusFinalized,
			"finalized_by_id": &userId,
			"finalized_at":    &now,
		})
	if result.Error != nil {
		log.Printf("Error finalizing period %d: %v", period.ID, result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to finalize period!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Payroll period is already finalized!", nil)
	}

	utils.CreateAuditLog(&userId, "payroll_finalized", "payroll_period", period.ID, map[string]interface{}{
		"startDate": period.StartDate,
		"endDate":   period.EndDate,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payroll period finalized!", fiber.Map{
		"id":        period.ID,
		"startDate": period.StartDate,
		"endDate":   period.EndDate,
		"status":    models.PayrollStatusFinalized,
	})
}
