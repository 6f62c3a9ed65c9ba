package models

import "gorm.io/gorm"

const (
	CommunicationEmail = "email"
	CommunicationSMS   = "sms"

	CommunicationSent   = "sent"
	CommunicationFailed = "failed"
)

// CommunicationLog keeps one row per outbound email/SMS, successful or not.
type CommunicationLog struct {
	gorm.Model
	BookingID         *uint            `json:"bookingId"`
	Booking           *Booking         `gorm:"foreignKey:BookingID" json:"-"`
	RecipientEmail    string           `gorm:"default:''" json:"recipientEmail"`
	RecipientPhone    string           `gorm:"default:''" json:"recipientPhone"`
	CommunicationType string           `gorm:"not null" json:"communicationType"` // email, sms
	MessageTemplateID *uint            `json:"messageTemplateId"`
	MessageTemplate   *MessageTemplate `gorm:"foreignKey:MessageTemplateID" json:"-"`
	Subject           string           `gorm:"default:''" json:"subject"`
	Body              string           `gorm:"type:text" json:"body"`
	Status            string           `gorm:"not null" json:"status"` // sent, failed
	ErrorMessage      string           `gorm:"default:''" json:"errorMessage"`
}
