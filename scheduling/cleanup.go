package scheduling

import (
	"fmt"
	"time"

	"rau/models"
	"rau/payroll"

	"gorm.io/gorm"
)

// The three sweeps are bulk conditional updates, never deletes, so history
// survives and double application is harmless. They are safe to run
// concurrently with booking commits: last writer wins on is_active and every
// predicate is idempotent.

// DeactivatePast marks every active slot dated before today inactive,
// booked or not.
func DeactivatePast(db *gorm.DB, now time.Time) (int64, error) {
	today := now.In(payroll.Location()).Format(models.DateLayout)
	result := db.Model(&models.AvailableTimeSlot{}).
		Where("date < ? AND is_active = ?", today, true).
		Update("is_active", false)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to deactivate past slots: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeactivateElapsedToday marks today's unbooked slots whose start time has
// already passed on the local wall clock inactive.
func DeactivateElapsedToday(db *gorm.DB, now time.Time) (int64, error) {
	local := now.In(payroll.Location())
	today := local.Format(models.DateLayout)
	currentTime := local.Format(models.TimeLayout)

	result := db.Model(&models.AvailableTimeSlot{}).
		Where("date = ? AND start_time < ? AND is_active = ? AND is_booked = ?", today, currentTime, true, false).
		Update("is_active", false)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to deactivate elapsed slots: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeactivateStale marks active unbooked slots older than the cutoff inactive.
// Long-horizon sweep on its own weekly cadence, separate from the daily one.
func DeactivateStale(db *gorm.DB, now time.Time, weeks int) (int64, error) {
	cutoff := now.In(payroll.Location()).AddDate(0, 0, -7*weeks).Format(models.DateLayout)
	result := db.Model(&models.AvailableTimeSlot{}).
		Where("date < ? AND is_active = ? AND is_booked = ?", cutoff, true, false).
		Update("is_active", false)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to deactivate stale slots: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// RunPastSlotCleanup is the daily sweep: all past dates plus today's elapsed
// times. Returns the combined count for observability.
func RunPastSlotCleanup(db *gorm.DB, now time.Time) (int64, error) {
	past, err := DeactivatePast(db, now)
	if err != nil {
		return 0, err
	}
	elapsed, err := DeactivateElapsedToday(db, now)
	if err != nil {
		return past, err
	}
	return past + elapsed, nil
}
