package utils

import (
	"encoding/json"
	"log"

	"rau/database"
	"rau/models"
)

// CreateAuditLog records a structured change entry. Audit writes are
// best-effort: a failure is logged with enough identifiers to reproduce and
// never propagated to the caller.
func CreateAuditLog(userID *uint, action, entityType string, entityID uint, changes map[string]interface{}) {
	payload, err := json.Marshal(changes)
	if err != nil {
		log.Printf("[AUDIT] failed to marshal changes for %s %d: %v", entityType, entityID, err)
		payload = []byte("{}")
	}

	entry := models.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes:    payload,
	}
	if err := database.Database.Db.Create(&entry).Error; err != nil {
		log.Printf("[AUDIT] failed to record %s on %s %d: %v", action, entityType, entityID, err)
	}
}

// BookingChanges builds the audit payload for a booking create or update.
func BookingChanges(booking *models.Booking) map[string]interface{} {
	changes := map[string]interface{}{
		"salesman_id": booking.SalesmanID,
		"date":        booking.AppointmentDate,
		"time":        booking.AppointmentTime,
		"type":        booking.AppointmentType,
		"status":      booking.Status,
	}
	if booking.ClientID != nil {
		changes["client_id"] = *booking.ClientID
	}
	if booking.PayrollPeriodID != nil {
		changes["payroll_period_id"] = *booking.PayrollPeriodID
	}
	return changes
}
