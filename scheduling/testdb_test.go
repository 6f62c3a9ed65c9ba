package scheduling

import (
	"testing"
	"time"

	"rau/models"
	"rau/payroll"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.AvailabilityCycle{},
		&models.AvailableTimeSlot{},
		&models.PayrollPeriod{},
		&models.Booking{},
		&models.SystemConfig{},
		&models.AuditLog{},
		&models.CommunicationLog{},
		&models.MessageTemplate{},
		&models.DripCampaign{},
		&models.ScheduledMessage{},
	))
	return db
}

func createTestSalesman(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	salesman := &models.User{
		FirstName:          "Test",
		LastName:           "Salesman",
		Email:              email,
		Role:               models.RoleSalesman,
		Password:           "x",
		IsActiveSalesman:   true,
		BookingAdvanceDays: 3,
		BookingWeekdays:    "0,1,2,3,4",
		BookingStartTime:   "09:00",
		BookingEndTime:     "12:00",
	}
	require.NoError(t, db.Create(salesman).Error)
	return salesman
}

func easternDate(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, payroll.Location())
}

func countSlots(t *testing.T, db *gorm.DB, where string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.AvailableTimeSlot{}).Where(where, args...).Count(&count).Error)
	return count
}
