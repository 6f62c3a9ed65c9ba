package utils

import (
	"fmt"
	"log"
	"time"

	"rau/database"
	"rau/models"
)

// Drip follow-up sequences. Attended clients get a 4-touch sequence, no-shows
// a longer 5-touch one. Each touch maps to a message template keyed by the
// campaign type and day offset (ad_day_7, dna_day_30, ...).

var (
	attendedDripDays   = []int{1, 7, 14, 21}
	didNotShowDripDays = []int{1, 7, 30, 60, 90}
)

func dripTemplateType(campaignType string, day int) string {
	prefix := "ad"
	if campaignType == models.CampaignDidNotShow {
		prefix = "dna"
	}
	return fmt.Sprintf("%s_day_%d", prefix, day)
}

// StartDripCampaign creates a campaign with its scheduled messages for the
// booking's client. A booking with an active campaign of the same type is
// skipped so that repeated status flips never double-enroll a client.
func StartDripCampaign(booking *models.Booking, campaignType string, now time.Time) (*models.DripCampaign, error) {
	db := database.Database.Db

	if booking.ClientID == nil {
		return nil, nil
	}
	var client models.Client
	if err := db.First(&client, *booking.ClientID).Error; err != nil {
		return nil, err
	}

	var existing models.DripCampaign
	err := db.Where("booking_id = ? AND campaign_type = ? AND is_active = true", booking.ID, campaignType).
		First(&existing).Error
	if err == nil {
		log.Printf("[DRIP] booking %d already enrolled in %s campaign", booking.ID, campaignType)
		return &existing, nil
	}

	days := attendedDripDays
	if campaignType == models.CampaignDidNotShow {
		days = didNotShowDripDays
	}

	campaign := models.DripCampaign{
		BookingID:    booking.ID,
		CampaignType: campaignType,
		IsActive:     true,
	}
	if err := db.Create(&campaign).Error; err != nil {
		return nil, err
	}

	scheduled := 0
	for _, day := range days {
		templateType := dripTemplateType(campaignType, day)
		var template models.MessageTemplate
		if err := db.Where("message_type = ? AND is_active = true", templateType).First(&template).Error; err != nil {
			log.Printf("[DRIP] no template '%s', skipping touch", templateType)
			continue
		}
		message := models.ScheduledMessage{
			DripCampaignID:    campaign.ID,
			MessageTemplateID: template.ID,
			RecipientEmail:    client.Email,
			RecipientPhone:    client.PhoneNumber,
			ScheduledFor:      now.AddDate(0, 0, day),
			Status:            models.MessageStatusQueued,
		}
		if err := db.Create(&message).Error; err != nil {
			log.Printf("[DRIP] failed to schedule %s for booking %d: %v", templateType, booking.ID, err)
			continue
		}
		scheduled++
	}

	log.Printf("[DRIP] started %s campaign for booking %d with %d messages", campaignType, booking.ID, scheduled)
	return &campaign, nil
}

// StopDripCampaigns deactivates every active campaign for a booking and
// cancels its unsent messages. Called when a no-show client rebooks.
func StopDripCampaigns(bookingID uint) error {
	db := database.Database.Db

	var campaigns []models.DripCampaign
	if err := db.Where("booking_id = ? AND is_active = true", bookingID).Find(&campaigns).Error; err != nil {
		return err
	}
	for i := range campaigns {
		if err := db.Model(&campaigns[i]).Update("is_active", false).Error; err != nil {
			return err
		}
		db.Model(&models.ScheduledMessage{}).
			Where("drip_campaign_id = ? AND status = ?", campaigns[i].ID, models.MessageStatusQueued).
			Update("status", models.MessageStatusFailed)
	}
	if len(campaigns) > 0 {
		log.Printf("[DRIP] stopped %d campaign(s) for booking %d", len(campaigns), bookingID)
	}
	return nil
}

// activeCampaignBookingIDs returns booking ids with an active campaign for
// any of the client's bookings.
func activeCampaignBookingIDs(clientID uint) ([]uint, error) {
	var ids []uint
	err := database.Database.Db.Model(&models.DripCampaign{}).
		Joins("JOIN bookings ON bookings.id = drip_campaigns.booking_id").
		Where("bookings.client_id = ? AND drip_campaigns.is_active = true", clientID).
		Distinct().
		Pluck("drip_campaigns.booking_id", &ids).Error
	return ids, err
}

// ProcessScheduledMessages sends every due pending message whose campaign is
// still active. Returns the number of messages sent.
func ProcessScheduledMessages(now time.Time) int {
	db := database.Database.Db

	var due []models.ScheduledMessage
	err := db.Joins("JOIN drip_campaigns ON drip_campaigns.id = scheduled_messages.drip_campaign_id").
		Where("scheduled_messages.status = ? AND scheduled_messages.scheduled_for <= ? AND drip_campaigns.is_active = true",
			models.MessageStatusQueued, now).
		Find(&due).Error
	if err != nil {
		log.Printf("[DRIP] failed to load due messages: %v", err)
		return 0
	}

	sent := 0
	for i := range due {
		message := &due[i]

		var template models.MessageTemplate
		if err := db.First(&template, message.MessageTemplateID).Error; err != nil {
			db.Model(message).Update("status", models.MessageStatusFailed)
			continue
		}
		var campaign models.DripCampaign
		if err := db.First(&campaign, message.DripCampaignID).Error; err != nil {
			db.Model(message).Update("status", models.MessageStatusFailed)
			continue
		}
		var booking models.Booking
		if err := db.First(&booking, campaign.BookingID).Error; err != nil {
			db.Model(message).Update("status", models.MessageStatusFailed)
			continue
		}

		context := buildBookingContext(&booking)
		delivered := false
		if message.RecipientEmail != "" {
			if SendEmailWithTemplate(template.MessageType, message.RecipientEmail, context, &booking) {
				delivered = true
			}
		}
		if message.RecipientPhone != "" {
			if SendSMSWithTemplate(template.MessageType, message.RecipientPhone, context, &booking) {
				delivered = true
			}
		}

		if delivered {
			sentAt := now
			db.Model(message).Updates(map[string]interface{}{
				"status":  models.MessageStatusSent,
				"sent_at": &sentAt,
			})
			sent++
		} else {
			db.Model(message).Update("status", models.MessageStatusFailed)
		}
	}

	if sent > 0 {
		log.Printf("[DRIP] sent %d scheduled message(s)", sent)
	}
	return sent
}
