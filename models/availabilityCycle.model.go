package models

import "gorm.io/gorm"

// AvailabilityCycle is a rolling generation window (14 days by default) that
// groups a batch of generated slots for reporting. Cycles are never deleted;
// only is_active is toggled. The (start_date, end_date) pair is unique so two
// concurrent get-or-create callers cannot both insert the same window.
type AvailabilityCycle struct {
	gorm.Model
	StartDate string `gorm:"not null;uniqueIndex:idx_cycle_window" json:"startDate"`
	EndDate   string `gorm:"not null;uniqueIndex:idx_cycle_window" json:"endDate"`
	IsActive  bool   `gorm:"default:true" json:"isActive"`
}

func (AvailabilityCycle) TableName() string {
	return "availability_cycles"
}
