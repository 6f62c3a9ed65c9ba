package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusDeclined  = "declined"
	BookingStatusCanceled  = "canceled"
	BookingStatusCompleted = "completed"
)

type Booking struct {
	gorm.Model
	Reference  string  `gorm:"uniqueIndex;not null" json:"reference"`
	ClientID   *uint   `json:"clientId"` // nullable for live transfer intake flows
	Client     *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	SalesmanID uint    `gorm:"not null" json:"salesmanId"`
	Salesman   *User   `gorm:"foreignKey:SalesmanID" json:"salesman,omitempty"`

	AppointmentDate string `gorm:"not null" json:"appointmentDate"`
	AppointmentTime string `gorm:"not null" json:"appointmentTime"`
	DurationMinutes int    `gorm:"default:30" json:"durationMinutes"`
	AppointmentType string `gorm:"not null" json:"appointmentType"` // zoom, in_person, live_transfer
	Status          string `gorm:"default:'pending'" json:"status"`
	MeetingAddress  string `gorm:"default:''" json:"meetingAddress"`
	ZoomLink        string `gorm:"default:''" json:"zoomLink"`
	DeclineReason   string `gorm:"default:''" json:"declineReason"`

	// Null iff appointment_type is live_transfer.
	AvailableSlotID *uint              `json:"availableSlotId"`
	AvailableSlot   *AvailableTimeSlot `gorm:"foreignKey:AvailableSlotID" json:"-"`

	// Assigned exactly once at creation from the creation instant, never
	// re-evaluated even if the appointment date is edited later.
	PayrollPeriodID *uint          `json:"payrollPeriodId"`
	PayrollPeriod   *PayrollPeriod `gorm:"foreignKey:PayrollPeriodID" json:"payrollPeriod,omitempty"`

	CommissionAmount float64 `gorm:"default:0" json:"commissionAmount"`

	CreatedByID  *uint `json:"createdById"`
	CreatedBy    *User `gorm:"foreignKey:CreatedByID" json:"-"`
	ApprovedByID *uint `json:"approvedById"`
	ApprovedBy   *User `gorm:"foreignKey:ApprovedByID" json:"-"`
	DeclinedByID *uint `json:"declinedById"`
	DeclinedBy   *User `gorm:"foreignKey:DeclinedByID" json:"-"`
	ApprovedAt   *time.Time
	DeclinedAt   *time.Time
	CanceledAt   *time.Time

	// Spreadsheet mirror bookkeeping, live transfer only. The sync hash
	// fingerprints the last written approval status to suppress redundant
	// writes and update loops.
	SheetRowNumber int    `gorm:"default:0" json:"sheetRowNumber"`
	SheetSyncHash  string `gorm:"default:''" json:"-"`
	LastSyncedAt   *time.Time
}
