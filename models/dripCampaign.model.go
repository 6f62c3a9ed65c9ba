package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	CampaignAttended    = "attended"
	CampaignDidNotShow  = "did_not_attend"
	MessageStatusQueued = "pending"
	MessageStatusSent   = "sent"
	MessageStatusFailed = "failed"
)

// DripCampaign is a scheduled follow-up message sequence attached to a
// booking after it completes (attended) or is missed (did_not_attend).
type DripCampaign struct {
	gorm.Model
	BookingID    uint     `gorm:"not null" json:"bookingId"`
	Booking      *Booking `gorm:"foreignKey:BookingID" json:"-"`
	CampaignType string   `gorm:"not null" json:"campaignType"` // attended, did_not_attend
	IsActive     bool     `gorm:"default:true" json:"isActive"`
}

// ScheduledMessage is one pending send within a drip campaign.
type ScheduledMessage struct {
	gorm.Model
	DripCampaignID    uint             `gorm:"not null" json:"dripCampaignId"`
	DripCampaign      *DripCampaign    `gorm:"foreignKey:DripCampaignID" json:"-"`
	MessageTemplateID uint             `gorm:"not null" json:"messageTemplateId"`
	MessageTemplate   *MessageTemplate `gorm:"foreignKey:MessageTemplateID" json:"-"`
	RecipientEmail    string           `gorm:"default:''" json:"recipientEmail"`
	RecipientPhone    string           `gorm:"default:''" json:"recipientPhone"`
	ScheduledFor      time.Time        `gorm:"not null" json:"scheduledFor"`
	Status            string           `gorm:"default:'pending'" json:"status"` // pending, sent, failed
	SentAt            *time.Time
}
