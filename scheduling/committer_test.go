package scheduling

import (
	"testing"
	"time"

	"rau/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedDay creates both-type slots at the given start times for one date.
func seedDay(t *testing.T, db *gorm.DB, salesman *models.User, date string, times ...string) {
	t.Helper()
	for _, startTime := range times {
		for _, appointmentType := range []string{models.AppointmentZoom, models.AppointmentInPerson} {
			require.NoError(t, db.Create(&models.AvailableTimeSlot{
				SalesmanID:      salesman.ID,
				Date:            date,
				StartTime:       startTime,
				AppointmentType: appointmentType,
				IsActive:        true,
				CreatedByID:     salesman.ID,
			}).Error)
		}
	}
}

func findSlot(t *testing.T, db *gorm.DB, salesmanID uint, date, startTime, appointmentType string) *models.AvailableTimeSlot {
	t.Helper()
	var slot models.AvailableTimeSlot
	require.NoError(t, db.Where("salesman_id = ? AND date = ? AND start_time = ? AND appointment_type = ?",
		salesmanID, date, startTime, appointmentType).First(&slot).Error)
	return &slot
}

func commitAt(t *testing.T, db *gorm.DB, salesman *models.User, date, startTime, appointmentType string, now time.Time) (*models.Booking, error) {
	t.Helper()
	slot := findSlot(t, db, salesman.ID, date, startTime, appointmentType)
	return CommitBooking(db, BookingRequest{
		SalesmanID:      salesman.ID,
		AppointmentDate: date,
		AppointmentTime: startTime,
		DurationMinutes: 30,
		AppointmentType: appointmentType,
		AvailableSlotID: &slot.ID,
	}, now)
}

func TestCommitBookingBufferAndOppositeType(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestSalesman(t, db, "buffer@example.com")
	const date = "2026-03-11"
	seedDay(t, db, salesman, date, "08:30", "09:00", "09:30", "10:00", "10:30", "11:00")

	now := easternDate(2026, time.March, 10, 10, 0)
	booking, err := commitAt(t, db, salesman, date, "09:00", models.AppointmentZoom, now)
	require.NoError(t, err)
	require.NotNil(t, booking.AvailableSlotID)

	// The booked slot is taken.
	bookedSlot := findSlot(t, db, salesman.ID, date, "09:00", models.AppointmentZoom)
	assert.False(t, bookedSlot.IsActive)
	assert.True(t, bookedSlot.IsBooked)

	// The opposite type at the same time is hidden but was never booked.
	opposite := findSlot(t, db, salesman.ID, date, "09:00", models.AppointmentInPerson)
	assert.False(t, opposite.IsActive)
	assert.False(t, opposite.IsBooked)

	// The next three ticks are blocked across both types.
	for _, tick := range []string{"09:30", "10:00", "10:30"} {
		for _, appointmentType := range []string{models.AppointmentZoom, models.AppointmentInPerson} {
			slot := findSlot(t, db, salesman.ID, date, tick, appointmentType)
			assert.False(t, slot.IsActive, "%s %s should be blocked", tick, appointmentType)
			assert.True(t, slot.IsBooked, "%s %s should be marked booked", tick, appointmentType)
		}
	}

	// Neighbors outside the two-hour window are untouched.
	for _, tick := range []string{"08:30", "11:00"} {
		for _, appointmentType := range []string{models.AppointmentZoom, models.AppointmentInPerson} {
			slot := findSlot(t, db, salesman.ID, date, tick, appointmentType)
			assert.True(t, slot.IsActive, "%s %s should remain bookable", tick, appointmentType)
		}
	}
}

func TestCommitBookingSlotRace(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestSalesman(t, db, "race@example.com")
	const date = "2026-03-11"
	seedDay(t, db, salesman, date, "09:00")

	now := easternDate(2026, time.March, 10, 10, 0)
	_, err := commitAt(t, db, salesman, date, "09:00", models.AppointmentZoom, now)
	require.NoError(t, err)

	_, err = commitAt(t, db, salesman, date, "09:00", models.AppointmentZoom, now)
	require.Error(t, err)
	assert.True(t, IsConflict(err), "second taker must observe a conflict, got %v", err)

	var count int64
	require.NoError(t, db.Model(&models.Booking{}).Where("appointment_date = ?", date).Count(&count).Error)
	assert.EqualValues(t, 1, count, "loser must not leave a booking row behind")
}

func TestCommitBookingOverlapConflict(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestSalesman(t, db, "overlap@example.com")
	const date = "2026-03-11"
	seedDay(t, db, salesman, date, "10:00", "11:00")

	// A confirmed 09:00 booking with the default 90-minute buffer occupies
	// 09:00-11:00.
	require.NoError(t, db.Create(&models.Booking{
		Reference:       "existing",
		SalesmanID:      salesman.ID,
		AppointmentDate: date,
		AppointmentTime: "09:00",
		DurationMinutes: 30,
		AppointmentType: models.AppointmentZoom,
		Status:          models.BookingStatusConfirmed,
	}).Error)

	now := easternDate(2026, time.March, 10, 10, 0)
	_, err := commitAt(t, db, salesman, date, "10:00", models.AppointmentZoom, now)
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	// 11:00 starts exactly where the widened window ends (half-open).
	booking, err := commitAt(t, db, salesman, date, "11:00", models.AppointmentZoom, now)
	require.NoError(t, err)
	assert.Equal(t, "11:00", booking.AppointmentTime)
}

func TestCommitBookingPayrollCutoff(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestSalesman(t, db, "payroll@example.com")
	seedDay(t, db, salesman, "2026-03-16", "09:00", "13:00")

	// Thursday 2026-03-12 before the 3 PM cutoff: period ends that Thursday.
	before, err := commitAt(t, db, salesman, "2026-03-16", "09:00", models.AppointmentZoom,
		easternDate(2026, time.March, 12, 14, 59))
	require.NoError(t, err)

	var beforePeriod models.PayrollPeriod
	require.NoError(t, db.First(&beforePeriod, *before.PayrollPeriodID).Error)
	assert.Equal(t, "2026-03-06", beforePeriod.StartDate)
	assert.Equal(t, "2026-03-12", beforePeriod.EndDate)

	// Same appointment date, created at 15:00 sharp: next week's period.
	after, err := commitAt(t, db, salesman, "2026-03-16", "13:00", models.AppointmentZoom,
		easternDate(2026, time.March, 12, 15, 0))
	require.NoError(t, err)

	var afterPeriod models.PayrollPeriod
	require.NoError(t, db.First(&afterPeriod, *after.PayrollPeriodID).Error)
	assert.Equal(t, "2026-03-13", afterPeriod.StartDate)
	assert.Equal(t, "2026-03-19", afterPeriod.EndDate)
}

func TestCommitBookingReusesPayrollPeriod(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestSalesman(t, db, "reuse@example.com")
	seedDay(t, db, salesman, "2026-03-16", "09:00", "13:00")

	now := easternDate(2026, time.March, 10, 10, 0)
	first, err := commitAt(t, db, salesman, "2026-03-16", "09:00", models.AppointmentZoom, now)
	require.NoError(t, err)
	second, err := commitAt(t, db, salesman, "2026-03-16", "13:00", models.AppointmentZoom, now)
	require.NoError(t, err)

	assert.Equal(t, *first.PayrollPeriodID, *second.PayrollPeriodID)
	var count int64
	require.NoError(t, db.Model(&models.PayrollPeriod{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "get-or-create must not duplicate the week")
}

func TestPayrollPeriodImmutableAfterDateEdit(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestSalesman(t, db, "immutable@example.com")
	seedDay(t, db, salesman, "2026-03-16", "09:00")

	booking, err := commitAt(t, db, salesman, "2026-03-16", "09:00", models.AppointmentZoom,
		easternDate(2026, time.March, 10, 10, 0))
	require.NoError(t, err)
	originalPeriod := *booking.PayrollPeriodID

	// Rescheduling the appointment never re-evaluates the period.
	require.NoError(t, db.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Update("appointment_date", "2026-03-27").Error)
	_, err = UpdateBookingStatus(db, booking.ID, models.BookingStatusConfirmed, nil, "",
		easternDate(2026, time.March, 20, 10, 0))
	require.NoError(t, err)

	var reloaded models.Booking
	require.NoError(t, db.First(&reloaded, booking.ID).Error)
	assert.Equal(t, originalPeriod, *reloaded.PayrollPeriodID)
}

func TestLiveTransferBypassesSlotLogic(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestSalesman(t, db, "transfer@example.com")
	const date = "2026-03-11"
	seedDay(t, db, salesman, date, "09:00", "09:30")

	now := easternDate(2026, time.March, 10, 10, 0)
	booking, err := CommitBooking(db, BookingRequest{
		SalesmanID:      salesman.ID,
		AppointmentDate: date,
		AppointmentTime: "09:00",
		DurationMinutes: 30,
		AppointmentType: models.AppointmentLiveTransfer,
	}, now)
	require.NoError(t, err)

	assert.Nil(t, booking.AvailableSlotID)
	assert.NotNil(t, booking.PayrollPeriodID, "live transfers still get a payroll period")
	assert.EqualValues(t, 4, countSlots(t, db, "salesman_id = ? AND is_active = ?", salesman.ID, true),
		"no slot is touched for a live transfer")
}

func TestCommitBookingValidation(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestSalesman(t, db, "validation@example.com")
	const date = "2026-03-11"
	seedDay(t, db, salesman, date, "09:00")
	slot := findSlot(t, db, salesman.ID, date, "09:00", models.AppointmentZoom)
	now := easternDate(2026, time.March, 10, 10, 0)

	base := BookingRequest{
		SalesmanID:      salesman.ID,
		AppointmentDate: date,
		AppointmentTime: "09:00",
		DurationMinutes: 30,
		AppointmentType: models.AppointmentZoom,
		AvailableSlotID: &slot.ID,
	}

	badDuration := base
	badDuration.DurationMinutes = -30
	_, err := CommitBooking(db, badDuration, now)
	assert.True(t, IsValidation(err))

	missingSlot := base
	missingSlot.AvailableSlotID = nil
	_, err = CommitBooking(db, missingSlot, now)
	assert.True(t, IsValidation(err))

	transferWithSlot := base
	transferWithSlot.AppointmentType = models.AppointmentLiveTransfer
	_, err = CommitBooking(db, transferWithSlot, now)
	assert.True(t, IsValidation(err))

	badType := base
	badType.AppointmentType = "carrier_pigeon"
	_, err = CommitBooking(db, badType, now)
	assert.True(t, IsValidation(err))

	// Slot/request mismatch fails before any mutation sticks.
	mismatch := base
	mismatch.AppointmentTime = "09:30"
	_, err = CommitBooking(db, mismatch, now)
	assert.True(t, IsValidation(err))

	var bookings int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&bookings).Error)
	assert.EqualValues(t, 0, bookings)
	assert.True(t, findSlot(t, db, salesman.ID, date, "09:00", models.AppointmentZoom).IsActive,
		"rejected requests leave the slot bookable")
}

func TestUpdateBookingStatusTransitions(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestSalesman(t, db, "status@example.com")
	seedDay(t, db, salesman, "2026-03-11", "09:00")
	now := easternDate(2026, time.March, 10, 10, 0)

	booking, err := commitAt(t, db, salesman, "2026-03-11", "09:00", models.AppointmentZoom, now)
	require.NoError(t, err)

	admin := uint(99)
	approved, err := UpdateBookingStatus(db, booking.ID, models.BookingStatusConfirmed, &admin, "", now)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, models.BookingStatusConfirmed, approved.Status)

	var reloaded models.Booking
	require.NoError(t, db.First(&reloaded, booking.ID).Error)
	assert.NotNil(t, reloaded.ApprovedAt)
	require.NotNil(t, reloaded.ApprovedByID)
	assert.Equal(t, admin, *reloaded.ApprovedByID)

	_, err = UpdateBookingStatus(db, booking.ID, "vaporized", &admin, "", now)
	assert.True(t, IsValidation(err))

	declined, err := UpdateBookingStatus(db, booking.ID, models.BookingStatusDeclined, &admin, "no budget", now)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusDeclined, declined.Status)
	require.NoError(t, db.First(&reloaded, booking.ID).Error)
	assert.Equal(t, "no budget", reloaded.DeclineReason)
	assert.NotNil(t, reloaded.DeclinedAt)
}

func TestPostCommitEventsArePublished(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestSalesman(t, db, "events@example.com")
	seedDay(t, db, salesman, "2026-03-11", "09:00")

	events := make(chan BookingEvent, 8)
	Subscribe(func(ev BookingEvent) { events <- ev })

	booking, err := commitAt(t, db, salesman, "2026-03-11", "09:00", models.AppointmentZoom,
		easternDate(2026, time.March, 10, 10, 0))
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, EventBookingCreated, ev.Kind)
		assert.Equal(t, booking.ID, ev.Booking.ID)
		assert.Equal(t, models.BookingStatusPending, ev.NewStatus)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a booking_created event")
	}

	_, err = UpdateBookingStatus(db, booking.ID, models.BookingStatusConfirmed, nil, "",
		easternDate(2026, time.March, 10, 11, 0))
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, EventBookingApproved, ev.Kind)
		assert.Equal(t, models.BookingStatusPending, ev.PreviousStatus)
		assert.Equal(t, models.BookingStatusConfirmed, ev.NewStatus)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a booking_approved event")
	}
}
