package models

import (
	"time"

	"gorm.io/gorm"
)

// Shared layouts for date-only and time-of-day columns. Both sort
// lexicographically in the same order as chronologically, so they are safe
// in WHERE comparisons and composite unique indexes.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

const (
	RoleAgent    = "AGENT"
	RoleSalesman = "SALESMAN"
	RoleAdmin    = "ADMIN"
)

type User struct {
	gorm.Model
	FirstName   string `gorm:"default:''"`
	LastName    string `gorm:"default:''"`
	Email       string `gorm:"unique;not null"`
	PhoneNumber string `gorm:"default:''"`
	Role        string `gorm:"default:'AGENT'"` // AGENT, SALESMAN, ADMIN
	Password    string `gorm:"not null"`
	LastLogin   *time.Time
	IsBlocked   bool `gorm:"default:false"`
	IsDeleted   bool `gorm:"default:false"`

	// Per-salesman scheduling configuration. Weekdays are a CSV of indices
	// 0-6 with 0 = Monday (empty or malformed falls back to Mon-Fri).
	IsActiveSalesman   bool   `gorm:"default:false"`
	BookingAdvanceDays int    `gorm:"default:14"`
	BookingWeekdays    string `gorm:"default:'0,1,2,3,4'"`
	BookingStartTime   string `gorm:"default:'09:00'"`
	BookingEndTime     string `gorm:"default:'19:00'"`
}

// FullName joins first and last name for notifications and audit entries.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
