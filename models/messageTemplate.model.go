package models

import (
	"strings"

	"gorm.io/gorm"
)

// MessageTemplate is an admin-editable email/SMS template. Bodies use
// {placeholder} tokens substituted from a per-booking context map.
type MessageTemplate struct {
	gorm.Model
	MessageType  string `gorm:"uniqueIndex;not null" json:"messageType"` // e.g. booking_created_agent, ad_day_7
	EmailSubject string `gorm:"default:''" json:"emailSubject"`
	EmailBody    string `gorm:"type:text" json:"emailBody"`
	SMSBody      string `gorm:"type:text" json:"smsBody"`
	IsActive     bool   `gorm:"default:true" json:"isActive"`
}

func renderTemplate(body string, context map[string]string) string {
	for key, value := range context {
		body = strings.ReplaceAll(body, "{"+key+"}", value)
	}
	return body
}

// RenderEmail substitutes the context into subject and body.
func (t *MessageTemplate) RenderEmail(context map[string]string) (string, string) {
	return renderTemplate(t.EmailSubject, context), renderTemplate(t.EmailBody, context)
}

// RenderSMS substitutes the context into the SMS body.
func (t *MessageTemplate) RenderSMS(context map[string]string) string {
	return renderTemplate(t.SMSBody, context)
}
