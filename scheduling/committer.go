package scheduling

import (
	"fmt"
	"time"

	"rau/models"
	"rau/payroll"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BufferSlots is how many 30-minute ticks a booking blocks out: the booked
// tick plus three trailing ones, a two-hour window covering the appointment
// and wrap-up/travel time.
const BufferSlots = 4

// BookingRequest is the input to CommitBooking. For zoom/in_person bookings
// AvailableSlotID selects the slot; live transfers carry no slot and bypass
// all slot logic.
type BookingRequest struct {
	ClientID        *uint
	SalesmanID      uint
	AppointmentDate string
	AppointmentTime string
	DurationMinutes int
	AppointmentType string
	AvailableSlotID *uint
	MeetingAddress  string
	ZoomLink        string
	CreatedByID     *uint
}

func validAppointmentType(appointmentType string) bool {
	switch appointmentType {
	case models.AppointmentZoom, models.AppointmentInPerson, models.AppointmentLiveTransfer:
		return true
	}
	return false
}

func minutesOfDay(timeStr string) (int, error) {
	t, err := time.Parse(models.TimeLayout, timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// HasBookingConflict reports whether [start, start+duration+buffer) overlaps
// any confirmed or completed booking for the salesman on the date, each
// existing booking widened by the same buffer. Half-open interval test.
func HasBookingConflict(db *gorm.DB, salesmanID uint, date, startTime string, durationMinutes, bufferMinutes int, excludeBookingID uint) (bool, *models.Booking, error) {
	newStart, err := minutesOfDay(startTime)
	if err != nil {
		return false, nil, &ValidationError{Field: "appointmentTime", Message: "invalid time " + startTime}
	}
	newEnd := newStart + durationMinutes + bufferMinutes

	var existing []models.Booking
	query := db.Where("salesman_id = ? AND appointment_date = ? AND status IN ?",
		salesmanID, date, []string{models.BookingStatusConfirmed, models.BookingStatusCompleted})
	if excludeBookingID != 0 {
		query = query.Where("id <> ?", excludeBookingID)
	}
	if err := query.Find(&existing).Error; err != nil {
		return false, nil, fmt.Errorf("failed to load bookings for conflict check: %w", err)
	}

	for i := range existing {
		existingStart, err := minutesOfDay(existing[i].AppointmentTime)
		if err != nil {
			continue
		}
		existingEnd := existingStart + existing[i].DurationMinutes + bufferMinutes
		if newStart < existingEnd && existingStart < newEnd {
			return true, &existing[i], nil
		}
	}
	return false, nil, nil
}

// bufferTicks returns the booked start time plus the next BufferSlots-1
// 30-minute ticks.
func bufferTicks(startTime string) ([]string, error) {
	start, err := time.Parse(models.TimeLayout, startTime)
	if err != nil {
		return nil, err
	}
	ticks := make([]string, 0, BufferSlots)
	for i := 0; i < BufferSlots; i++ {
		ticks = append(ticks, start.Add(time.Duration(i)*SlotIntervalMinutes*time.Minute).Format(models.TimeLayout))
	}
	return ticks, nil
}

// CommitBooking creates a booking in a single transaction:
//
//	conflict check → slot reservation → payroll assignment → buffer
//	application → booking row.
//
// Any failure rolls the whole sequence back; no booking is ever left
// half-applied. Slot reservation is a conditional update gated on its
// affected row count, so of two concurrent commits for the same slot exactly
// one wins and the other gets a ConflictError.
func CommitBooking(db *gorm.DB, req BookingRequest, now time.Time) (*models.Booking, error) {
	cfg, err := models.GetSystemConfig(db)
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}

	if !validAppointmentType(req.AppointmentType) {
		return nil, &ValidationError{Field: "appointmentType", Message: "unknown appointment type " + req.AppointmentType}
	}
	if req.DurationMinutes <= 0 {
		return nil, &ValidationError{Field: "durationMinutes", Message: "duration must be positive"}
	}
	if cfg.BufferTimeMinutes < 0 {
		return nil, &ValidationError{Field: "bufferTimeMinutes", Message: "buffer time is misconfigured"}
	}
	if _, err := time.Parse(models.DateLayout, req.AppointmentDate); err != nil {
		return nil, &ValidationError{Field: "appointmentDate", Message: "invalid date " + req.AppointmentDate}
	}
	if _, err := time.Parse(models.TimeLayout, req.AppointmentTime); err != nil {
		return nil, &ValidationError{Field: "appointmentTime", Message: "invalid time " + req.AppointmentTime}
	}
	isLiveTransfer := req.AppointmentType == models.AppointmentLiveTransfer
	if isLiveTransfer && req.AvailableSlotID != nil {
		return nil, &ValidationError{Field: "availableSlotId", Message: "live transfer bookings carry no slot"}
	}
	if !isLiveTransfer && req.AvailableSlotID == nil {
		return nil, &ValidationError{Field: "availableSlotId", Message: "a slot is required for zoom and in-person bookings"}
	}

	var booking *models.Booking
	err = db.Transaction(func(tx *gorm.DB) error {
		conflict, other, err := HasBookingConflict(tx, req.SalesmanID, req.AppointmentDate, req.AppointmentTime,
			req.DurationMinutes, cfg.BufferTimeMinutes, 0)
		if err != nil {
			return err
		}
		if conflict {
			return &ConflictError{Message: fmt.Sprintf("salesman already has a booking at %s overlapping %s",
				other.AppointmentTime, req.AppointmentTime)}
		}

		if !isLiveTransfer {
			if err := reserveSlot(tx, req); err != nil {
				return err
			}
		}

		period := payroll.CurrentPayrollPeriod(now)
		var payrollPeriod models.PayrollPeriod
		if err := tx.Where("start_date = ? AND end_date = ?", period.StartDate, period.EndDate).
			FirstOrCreate(&payrollPeriod, models.PayrollPeriod{
				StartDate: period.StartDate,
				EndDate:   period.EndDate,
				Status:    models.PayrollStatusOpen,
			}).Error; err != nil {
			// No booking without a payroll period.
			return fmt.Errorf("failed to resolve payroll period %s: %w", period.StartDate, err)
		}

		if !isLiveTransfer {
			if err := applyBuffer(tx, req.SalesmanID, req.AppointmentDate, req.AppointmentTime); err != nil {
				return err
			}
		}

		booking = &models.Booking{
			Reference:       uuid.NewString(),
			ClientID:        req.ClientID,
			SalesmanID:      req.SalesmanID,
			AppointmentDate: req.AppointmentDate,
			AppointmentTime: req.AppointmentTime,
			DurationMinutes: req.DurationMinutes,
			AppointmentType: req.AppointmentType,
			Status:          models.BookingStatusPending,
			MeetingAddress:  req.MeetingAddress,
			ZoomLink:        req.ZoomLink,
			AvailableSlotID: req.AvailableSlotID,
			PayrollPeriodID: &payrollPeriod.ID,
			CreatedByID:     req.CreatedByID,
		}
		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(BookingEvent{
		Kind:      EventBookingCreated,
		Booking:   booking,
		NewStatus: booking.Status,
		ActorID:   req.CreatedByID,
	})
	return booking, nil
}

// reserveSlot takes the requested slot with a conditional update (only if
// still active) and deactivates the opposite-type sibling so the same
// wall-clock time cannot be offered twice.
func reserveSlot(tx *gorm.DB, req BookingRequest) error {
	var slot models.AvailableTimeSlot
	if err := tx.First(&slot, *req.AvailableSlotID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &ValidationError{Field: "availableSlotId", Message: "slot does not exist"}
		}
		return fmt.Errorf("failed to load slot %d: %w", *req.AvailableSlotID, err)
	}
	if slot.SalesmanID != req.SalesmanID || slot.Date != req.AppointmentDate ||
		slot.StartTime != req.AppointmentTime || slot.AppointmentType != req.AppointmentType {
		return &ValidationError{Field: "availableSlotId", Message: "slot does not match the requested appointment"}
	}

	result := tx.Model(&models.AvailableTimeSlot{}).
		Where("id = ? AND is_active = ?", slot.ID, true).
		Updates(map[string]interface{}{"is_active": false, "is_booked": true})
	if result.Error != nil {
		return fmt.Errorf("failed to reserve slot %d: %w", slot.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return &ConflictError{Message: fmt.Sprintf("slot %s %s (%s) is no longer available",
			slot.Date, slot.StartTime, slot.AppointmentType)}
	}

	// Deactivate, but do not mark booked, the sibling meeting type at the
	// same time.
	opposite := models.OppositeAppointmentType(slot.AppointmentType)
	if err := tx.Model(&models.AvailableTimeSlot{}).
		Where("salesman_id = ? AND date = ? AND start_time = ? AND appointment_type = ? AND is_active = ?",
			slot.SalesmanID, slot.Date, slot.StartTime, opposite, true).
		Update("is_active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate opposite-type slot: %w", err)
	}
	return nil
}

// applyBuffer blocks the booked tick and the next three across both meeting
// types, whether or not those slots were ever individually booked.
func applyBuffer(tx *gorm.DB, salesmanID uint, date, startTime string) error {
	ticks, err := bufferTicks(startTime)
	if err != nil {
		return &ValidationError{Field: "appointmentTime", Message: "invalid time " + startTime}
	}
	if err := tx.Model(&models.AvailableTimeSlot{}).
		Where("salesman_id = ? AND date = ? AND start_time IN ? AND is_active = ?", salesmanID, date, ticks, true).
		Updates(map[string]interface{}{"is_active": false, "is_booked": true}).Error; err != nil {
		return fmt.Errorf("failed to apply buffer window: %w", err)
	}
	return nil
}

// statusEventKinds maps a target status to its post-commit event.
var statusEventKinds = map[string]EventKind{
	models.BookingStatusConfirmed: EventBookingApproved,
	models.BookingStatusDeclined:  EventBookingDeclined,
	models.BookingStatusCanceled:  EventBookingCanceled,
	models.BookingStatusCompleted: EventBookingCompleted,
}

// UpdateBookingStatus transitions a booking and publishes an event carrying
// the explicit before/after statuses. The payroll period assigned at creation
// is never touched.
func UpdateBookingStatus(db *gorm.DB, bookingID uint, newStatus string, actorID *uint, reason string, now time.Time) (*models.Booking, error) {
	kind, ok := statusEventKinds[newStatus]
	if !ok {
		return nil, &ValidationError{Field: "status", Message: "unknown target status " + newStatus}
	}

	var booking models.Booking
	if err := db.Preload("Client").Preload("Salesman").First(&booking, bookingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ValidationError{Field: "bookingId", Message: "booking not found"}
		}
		return nil, fmt.Errorf("failed to load booking %d: %w", bookingID, err)
	}

	previous := booking.Status
	if previous == newStatus {
		return &booking, nil
	}

	updates := map[string]interface{}{"status": newStatus}
	switch newStatus {
	case models.BookingStatusConfirmed:
		updates["approved_by_id"] = actorID
		updates["approved_at"] = now
	case models.BookingStatusDeclined:
		updates["declined_by_id"] = actorID
		updates["declined_at"] = now
		updates["decline_reason"] = reason
	case models.BookingStatusCanceled:
		updates["canceled_at"] = now
	}

	if err := db.Model(&booking).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update booking %d status: %w", bookingID, err)
	}

	publish(BookingEvent{
		Kind:           kind,
		Booking:        &booking,
		PreviousStatus: previous,
		NewStatus:      newStatus,
		ActorID:        actorID,
	})
	return &booking, nil
}
