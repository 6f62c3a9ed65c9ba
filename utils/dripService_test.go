package utils

import (
	"testing"
	"time"

	"rau/config"
	"rau/database"
	"rau/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDripTest(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Booking{},
		&models.SystemConfig{},
		&models.CommunicationLog{},
		&models.MessageTemplate{},
		&models.DripCampaign{},
		&models.ScheduledMessage{},
	))

	database.Database = database.DbInstance{Db: db}
	config.AppConfig = &config.Config{}
	return db
}

func seedDripBooking(t *testing.T, db *gorm.DB) *models.Booking {
	t.Helper()
	salesman := models.User{FirstName: "Alex", Email: "alex@example.com", Role: models.RoleSalesman, Password: "x"}
	require.NoError(t, db.Create(&salesman).Error)
	client := models.Client{FirstName: "Dana", Email: "dana@example.com", PhoneNumber: "+17025096502"}
	require.NoError(t, db.Create(&client).Error)
	booking := models.Booking{
		Reference:       "ref-drip-1",
		ClientID:        &client.ID,
		SalesmanID:      salesman.ID,
		AppointmentDate: "2026-03-06",
		AppointmentTime: "10:00",
		DurationMinutes: 30,
		AppointmentType: models.AppointmentZoom,
		Status:          models.BookingStatusCompleted,
	}
	require.NoError(t, db.Create(&booking).Error)
	return &booking
}

func seedDripTemplates(t *testing.T, db *gorm.DB, types ...string) {
	t.Helper()
	for _, messageType := range types {
		require.NoError(t, db.Create(&models.MessageTemplate{
			MessageType:  messageType,
			EmailSubject: "Follow-up",
			EmailBody:    "Hi {client_name}",
			SMSBody:      "Hi {client_name}",
		}).Error)
	}
}

func TestStartDripCampaignSchedulesExistingTemplatesOnly(t *testing.T) {
	db := setupDripTest(t)
	booking := seedDripBooking(t, db)
	seedDripTemplates(t, db, "ad_day_1", "ad_day_7")

	now := time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)
	campaign, err := StartDripCampaign(booking, models.CampaignAttended, now)
	require.NoError(t, err)
	require.NotNil(t, campaign)
	assert.True(t, campaign.IsActive)

	var messages []models.ScheduledMessage
	require.NoError(t, db.Where("drip_campaign_id = ?", campaign.ID).Order("scheduled_for ASC").Find(&messages).Error)
	require.Len(t, messages, 2)
	assert.Equal(t, now.AddDate(0, 0, 1), messages[0].ScheduledFor.UTC())
	assert.Equal(t, now.AddDate(0, 0, 7), messages[1].ScheduledFor.UTC())
	assert.Equal(t, "dana@example.com", messages[0].RecipientEmail)
}

func TestStartDripCampaignSkipsAlreadyEnrolled(t *testing.T) {
	db := setupDripTest(t)
	booking := seedDripBooking(t, db)
	seedDripTemplates(t, db, "ad_day_1")

	now := time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)
	first, err := StartDripCampaign(booking, models.CampaignAttended, now)
	require.NoError(t, err)
	second, err := StartDripCampaign(booking, models.CampaignAttended, now)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.DripCampaign{}).Where("booking_id = ?", booking.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestStopDripCampaignsCancelsQueuedMessages(t *testing.T) {
	db := setupDripTest(t)
	booking := seedDripBooking(t, db)
	seedDripTemplates(t, db, "dna_day_1", "dna_day_7")

	now := time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)
	campaign, err := StartDripCampaign(booking, models.CampaignDidNotShow, now)
	require.NoError(t, err)

	require.NoError(t, StopDripCampaigns(booking.ID))

	var reloaded models.DripCampaign
	require.NoError(t, db.First(&reloaded, campaign.ID).Error)
	assert.False(t, reloaded.IsActive)

	var queued int64
	db.Model(&models.ScheduledMessage{}).
		Where("drip_campaign_id = ? AND status = ?", campaign.ID, models.MessageStatusQueued).
		Count(&queued)
	assert.Equal(t, int64(0), queued)
}

func TestProcessScheduledMessagesSendsDueOnly(t *testing.T) {
	db := setupDripTest(t)
	booking := seedDripBooking(t, db)
	seedDripTemplates(t, db, "ad_day_1", "ad_day_7")

	start := time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)
	campaign, err := StartDripCampaign(booking, models.CampaignAttended, start)
	require.NoError(t, err)

	// Two days later the day-1 touch is due, the day-7 one is not.
	sent := ProcessScheduledMessages(start.AddDate(0, 0, 2))
	assert.Equal(t, 1, sent)

	var messages []models.ScheduledMessage
	require.NoError(t, db.Where("drip_campaign_id = ?", campaign.ID).Order("scheduled_for ASC").Find(&messages).Error)
	assert.Equal(t, models.MessageStatusSent, messages[0].Status)
	assert.NotNil(t, messages[0].SentAt)
	assert.Equal(t, models.MessageStatusQueued, messages[1].Status)
}

func TestProcessScheduledMessagesSkipsStoppedCampaigns(t *testing.T) {
	db := setupDripTest(t)
	booking := seedDripBooking(t, db)
	seedDripTemplates(t, db, "ad_day_1")

	start := time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)
	_, err := StartDripCampaign(booking, models.CampaignAttended, start)
	require.NoError(t, err)
	require.NoError(t, StopDripCampaigns(booking.ID))

	sent := ProcessScheduledMessages(start.AddDate(0, 0, 2))
	assert.Equal(t, 0, sent)

	var sentCount int64
	db.Model(&models.ScheduledMessage{}).Where("status = ?", models.MessageStatusSent).Count(&sentCount)
	assert.Equal(t, int64(0), sentCount)
}
