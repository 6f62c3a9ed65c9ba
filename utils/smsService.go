package utils

import (
	"fmt"
	"log"
	"strings"

	"rau/config"
	"rau/database"
	"rau/models"

	"github.com/go-resty/resty/v2"
)

const smsMaxLength = 320

// NormalizePhoneNumber converts common US phone formats to E.164.
// "7025096502" and "702-509-6502" both become "+17025096502"; invalid input
// yields an empty string.
func NormalizePhoneNumber(phone string) string {
	if phone == "" {
		return ""
	}

	var cleaned strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' {
			cleaned.WriteRune(r)
		} else if r == '+' && i == 0 {
			cleaned.WriteRune(r)
		}
	}
	number := cleaned.String()

	if strings.HasPrefix(number, "+") {
		if len(number) >= 11 {
			return number
		}
		log.Printf("[SMS] invalid E.164 phone number: %s", number)
		return ""
	}
	if len(number) == 10 {
		return "+1" + number
	}
	if len(number) == 11 && strings.HasPrefix(number, "1") {
		return "+" + number
	}
	log.Printf("[SMS] invalid phone number length: %s", number)
	return ""
}

// ValidatePhoneNumber reports whether the number normalizes cleanly.
func ValidatePhoneNumber(phone string) bool {
	return NormalizePhoneNumber(phone) != ""
}

// SendSMS sends one text message through the Twilio REST API and logs the
// attempt in the communication log. Returns true only when Twilio accepted
// the message.
func SendSMS(toPhone, body string, bookingID *uint) bool {
	if toPhone == "" || body == "" {
		log.Println("[SMS] send skipped: missing phone number or body")
		return false
	}
	if !config.AppConfig.SMSEnabled {
		log.Println("[SMS] sending disabled in settings")
		return false
	}

	toPhone = NormalizePhoneNumber(toPhone)
	if toPhone == "" {
		return false
	}

	sid := config.AppConfig.TwilioAccountSID
	token := config.AppConfig.TwilioAuthToken
	from := config.AppConfig.TwilioFromNumber
	if sid == "" || token == "" || from == "" {
		log.Println("[SMS] Twilio credentials not configured")
		return false
	}

	if len(body) > smsMaxLength {
		body = body[:smsMaxLength]
	}

	client := resty.New()
	resp, err := client.R().
		SetBasicAuth(sid, token).
		SetFormData(map[string]string{
			"From": from,
			"To":   toPhone,
			"Body": body,
		}).
		Post(fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", sid))

	entry := models.CommunicationLog{
		BookingID:         bookingID,
		RecipientPhone:    toPhone,
		CommunicationType: models.CommunicationSMS,
		Body:              body,
	}
	if err != nil || resp.StatusCode() >= 400 {
		errMsg := ""
		if err != nil {
			errMsg = err.Error()
		} else {
			errMsg = fmt.Sprintf("twilio status %d: %s", resp.StatusCode(), resp.String())
		}
		log.Printf("[SMS] send failed to %s: %s", toPhone, errMsg)
		entry.Status = models.CommunicationFailed
		entry.ErrorMessage = errMsg
		database.Database.Db.Create(&entry)
		return false
	}

	entry.Status = models.CommunicationSent
	database.Database.Db.Create(&entry)
	log.Printf("[SMS] sent successfully to %s", toPhone)
	return true
}
