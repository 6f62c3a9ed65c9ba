package scheduling

import (
	"testing"
	"time"

	"rau/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCurrentCycleCreatesFourteenDayWindow(t *testing.T) {
	db := setupTestDB(t)
	now := easternDate(2026, time.March, 10, 8, 0)

	cycle, err := GetCurrentCycle(db, now)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", cycle.StartDate)
	assert.Equal(t, "2026-03-23", cycle.EndDate)
	assert.True(t, cycle.IsActive)
}

func TestGetCurrentCycleReusesCoveringCycle(t *testing.T) {
	db := setupTestDB(t)

	first, err := GetCurrentCycle(db, easternDate(2026, time.March, 10, 8, 0))
	require.NoError(t, err)

	// A call later inside the window returns the same row.
	second, err := GetCurrentCycle(db, easternDate(2026, time.March, 20, 8, 0))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.AvailabilityCycle{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetCurrentCycleRollsOverAfterWindowEnds(t *testing.T) {
	db := setupTestDB(t)

	first, err := GetCurrentCycle(db, easternDate(2026, time.March, 10, 8, 0))
	require.NoError(t, err)

	next, err := GetCurrentCycle(db, easternDate(2026, time.March, 24, 8, 0))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, next.ID)
	assert.Equal(t, "2026-03-24", next.StartDate)
}

func TestEnsureCycleForDateSynthesizesInactiveHistoricalCycle(t *testing.T) {
	db := setupTestDB(t)

	cycle, err := EnsureCycleForDate(db, "2025-01-06")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-06", cycle.StartDate)
	assert.Equal(t, "2025-01-19", cycle.EndDate)
	assert.False(t, cycle.IsActive, "repair-path cycles are historical")

	// A second restore for a date inside the synthesized window reuses it.
	again, err := EnsureCycleForDate(db, "2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, cycle.ID, again.ID)
}
