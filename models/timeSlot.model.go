package models

import "gorm.io/gorm"

const (
	AppointmentZoom         = "zoom"
	AppointmentInPerson     = "in_person"
	AppointmentLiveTransfer = "live_transfer"
)

// AvailableTimeSlot is one bookable 30-minute unit for a salesman.
// (salesman_id, date, start_time, appointment_type) is unique so generation
// can re-run with insert-or-ignore semantics. A slot goes is_active true→false
// exactly once, in the booking flow or a cleanup sweep; is_booked is set only
// by the booking flow and never reverts.
type AvailableTimeSlot struct {
	gorm.Model
	SalesmanID      uint               `gorm:"not null;uniqueIndex:idx_slot_key" json:"salesmanId"`
	Salesman        *User              `gorm:"foreignKey:SalesmanID" json:"-"`
	CycleID         *uint              `json:"cycleId"`
	Cycle           *AvailabilityCycle `gorm:"foreignKey:CycleID" json:"-"`
	Date            string             `gorm:"not null;uniqueIndex:idx_slot_key" json:"date"`
	StartTime       string             `gorm:"not null;uniqueIndex:idx_slot_key" json:"startTime"`
	AppointmentType string             `gorm:"not null;uniqueIndex:idx_slot_key" json:"appointmentType"` // zoom, in_person
	IsActive        bool               `gorm:"default:true" json:"isActive"`
	IsBooked        bool               `gorm:"default:false" json:"isBooked"`
	CreatedByID     uint               `json:"createdById"`
}

func (AvailableTimeSlot) TableName() string {
	return "available_time_slots"
}

// OppositeAppointmentType returns the sibling meeting type sharing the same
// wall-clock time (zoom ↔ in_person).
func OppositeAppointmentType(appointmentType string) string {
	if appointmentType == AppointmentZoom {
		return AppointmentInPerson
	}
	return AppointmentZoom
}
