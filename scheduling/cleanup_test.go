package scheduling

import (
	"testing"
	"time"

	"rau/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedSlot(t *testing.T, db *gorm.DB, salesman *models.User, date, startTime string, booked bool) *models.AvailableTimeSlot {
	t.Helper()
	slot := &models.AvailableTimeSlot{
		SalesmanID:      salesman.ID,
		Date:            date,
		StartTime:       startTime,
		AppointmentType: models.AppointmentZoom,
		IsActive:        true,
		IsBooked:        booked,
		CreatedByID:     salesman.ID,
	}
	require.NoError(t, db.Create(slot).Error)
	return slot
}

func reloadSlot(t *testing.T, db *gorm.DB, id uint) *models.AvailableTimeSlot {
	t.Helper()
	var slot models.AvailableTimeSlot
	require.NoError(t, db.First(&slot, id).Error)
	return &slot
}

func TestDeactivatePastLeavesTodayActive(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestSalesman(t, db, "past@example.com")

	yesterday := seedSlot(t, db, salesman, "2026-03-09", "09:00", false)
	today := seedSlot(t, db, salesman, "2026-03-10", "09:00", false)
	bookedPast := seedSlot(t, db, salesman, "2026-03-08", "10:00", true)

	count, err := DeactivatePast(db, easternDate(2026, time.March, 10, 6, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 2, count, "yesterday's slot and the booked past slot")

	assert.False(t, reloadSlot(t, db, yesterday.ID).IsActive)
	assert.False(t, reloadSlot(t, db, bookedPast.ID).IsActive)
	assert.True(t, reloadSlot(t, db, today.ID).IsActive)
}

func TestDeactivateElapsedTodaySkipsBookedAndUpcoming(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestSalesman(t, db, "elapsed@example.com")

	elapsed := seedSlot(t, db, salesman, "2026-03-10", "09:00", false)
	upcoming := seedSlot(t, db, salesman, "2026-03-10", "15:00", false)
	elapsedBooked := seedSlot(t, db, salesman, "2026-03-10", "08:30", true)

	count, err := DeactivateElapsedToday(db, easternDate(2026, time.March, 10, 12, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	assert.False(t, reloadSlot(t, db, elapsed.ID).IsActive)
	assert.True(t, reloadSlot(t, db, upcoming.ID).IsActive)
	assert.True(t, reloadSlot(t, db, elapsedBooked.ID).IsActive, "booked slots are left to the daily sweep")
}

func TestDeactivateStaleUsesWeekCutoff(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestSalesman(t, db, "stale@example.com")

	ancient := seedSlot(t, db, salesman, "2026-02-01", "09:00", false)
	recent := seedSlot(t, db, salesman, "2026-03-01", "09:00", false)
	ancientBooked := seedSlot(t, db, salesman, "2026-02-01", "10:00", true)

	count, err := DeactivateStale(db, easternDate(2026, time.March, 10, 3, 0), 2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	assert.False(t, reloadSlot(t, db, ancient.ID).IsActive)
	assert.True(t, reloadSlot(t, db, recent.ID).IsActive, "inside the two-week horizon")
	assert.True(t, reloadSlot(t, db, ancientBooked.ID).IsActive, "booked history is preserved")
}

func TestSweepsAreIdempotent(t *testing.T) {
	db := setupTestDB(t)
	salesman := createTestSalesman(t, db, "idempotent@example.com")
	seedSlot(t, db, salesman, "2026-03-09", "09:00", false)

	now := easternDate(2026, time.March, 10, 6, 0)
	first, err := RunPastSlotCleanup(db, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, first)

	second, err := RunPastSlotCleanup(db, now)
	require.NoError(t, err)
	assert.EqualValues(t, 0, second, "re-running the sweep changes nothing")
}
