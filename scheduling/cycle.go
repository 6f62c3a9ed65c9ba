package scheduling

import (
	"fmt"
	"time"

	"rau/models"
	"rau/payroll"

	"gorm.io/gorm"
)

// DefaultCycleDays is the length of a rolling availability cycle.
const DefaultCycleDays = 14

// GetCurrentCycle returns the cycle covering today, creating a fresh active
// 14-day cycle starting today when none exists. Two concurrent callers can
// both miss the lookup; the unique (start_date, end_date) index makes one
// insert lose, and the loser re-reads the winner's row.
func GetCurrentCycle(db *gorm.DB, now time.Time) (*models.AvailabilityCycle, error) {
	today := now.In(payroll.Location()).Format(models.DateLayout)
	return cycleCovering(db, today, true)
}

// EnsureCycleForDate is the historical-repair path: when restoring a slot
// whose original cycle is gone, reuse any cycle covering the slot's date or
// synthesize an inactive one for it.
func EnsureCycleForDate(db *gorm.DB, date string) (*models.AvailabilityCycle, error) {
	return cycleCovering(db, date, false)
}

func cycleCovering(db *gorm.DB, date string, active bool) (*models.AvailabilityCycle, error) {
	var cycle models.AvailabilityCycle
	err := db.Where("start_date <= ? AND end_date >= ?", date, date).
		Order("start_date DESC").
		First(&cycle).Error
	if err == nil {
		return &cycle, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to look up availability cycle for %s: %w", date, err)
	}

	start, err := time.ParseInLocation(models.DateLayout, date, payroll.Location())
	if err != nil {
		return nil, &ValidationError{Field: "date", Message: "invalid cycle date " + date}
	}
	cycle = models.AvailabilityCycle{
		StartDate: date,
		EndDate:   start.AddDate(0, 0, DefaultCycleDays-1).Format(models.DateLayout),
		IsActive:  active,
	}
	if createErr := db.Create(&cycle).Error; createErr != nil {
		// Lost a create race on the unique window index; take the winner.
		var existing models.AvailabilityCycle
		if err := db.Where("start_date <= ? AND end_date >= ?", date, date).
			Order("start_date DESC").
			First(&existing).Error; err == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("failed to create availability cycle for %s: %w", date, createErr)
	}
	return &cycle, nil
}
