package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PayrollStatusOpen      = "open"
	PayrollStatusFinalized = "finalized"
)

// PayrollPeriod is a Friday→Thursday accounting week. Rows are created lazily
// the first time a booking lands in the week (get-or-create on the unique
// date pair) and transition open→finalized exactly once.
type PayrollPeriod struct {
	gorm.Model
	StartDate     string `gorm:"not null;uniqueIndex:idx_payroll_window" json:"startDate"`
	EndDate       string `gorm:"not null;uniqueIndex:idx_payroll_window" json:"endDate"`
	Status        string `gorm:"default:'open'" json:"status"` // open, finalized
	FinalizedByID *uint  `json:"finalizedById"`
	FinalizedBy   *User  `gorm:"foreignKey:FinalizedByID" json:"-"`
	FinalizedAt   *time.Time
}

func (PayrollPeriod) TableName() string {
	return "payroll_periods"
}
