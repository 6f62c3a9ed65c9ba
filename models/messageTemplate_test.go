package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderEmailSubstitutesPlaceholders(t *testing.T) {
	template := MessageTemplate{
		EmailSubject: "Appointment with {salesman_name}",
		EmailBody:    "Hi {client_name}, see you on {appointment_date} at {appointment_time}.",
	}
	context := map[string]string{
		"salesman_name":    "Alex Stone",
		"client_name":      "Dana",
		"appointment_date": "2026-03-06",
		"appointment_time": "10:00",
	}

	subject, body := template.RenderEmail(context)
	assert.Equal(t, "Appointment with Alex Stone", subject)
	assert.Equal(t, "Hi Dana, see you on 2026-03-06 at 10:00.", body)
}

func TestRenderLeavesUnknownPlaceholders(t *testing.T) {
	template := MessageTemplate{SMSBody: "Reminder for {client_name}: {missing}"}
	got := template.RenderSMS(map[string]string{"client_name": "Dana"})
	assert.Equal(t, "Reminder for Dana: {missing}", got)
}
