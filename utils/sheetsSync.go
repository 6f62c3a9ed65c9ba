package utils

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"rau/config"
	"rau/database"
	"rau/models"

	"github.com/go-resty/resty/v2"
)

// Two-way mirror between live transfer bookings and an external spreadsheet
// bridge API. Each booking remembers the sheet row it occupies plus a
// fingerprint of the last written approval status, so the periodic poll and
// the push path never ping-pong updates between the two systems.

type sheetRow struct {
	RowNumber    int    `json:"rowNumber"`
	Reference    string `json:"reference"`
	ClientName   string `json:"clientName"`
	BusinessName string `json:"businessName"`
	PhoneNumber  string `json:"phoneNumber"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	SalesmanName string `json:"salesmanName"`
	Status       string `json:"status"`
}

type sheetAppendResponse struct {
	RowNumber int `json:"rowNumber"`
}

type sheetListResponse struct {
	Rows []sheetRow `json:"rows"`
}

func sheetsClient() *resty.Client {
	return resty.New().
		SetBaseURL(config.AppConfig.SheetsApiURL).
		SetHeader("Authorization", "Bearer "+config.AppConfig.SheetsApiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
}

func sheetsEnabled() bool {
	return config.AppConfig.SheetsSyncEnabled && config.AppConfig.SheetsApiURL != ""
}

// sheetSyncHash fingerprints the fields the sheet is allowed to change, so a
// row read back with the same status is recognized as our own write.
func sheetSyncHash(status string) string {
	sum := md5.Sum([]byte("status:" + status))
	return hex.EncodeToString(sum[:])
}

func buildSheetRow(booking *models.Booking) sheetRow {
	row := sheetRow{
		RowNumber: booking.SheetRowNumber,
		Reference: booking.Reference,
		Date:      booking.AppointmentDate,
		Time:      booking.AppointmentTime,
		Status:    booking.Status,
	}
	if booking.Client != nil {
		row.ClientName = booking.Client.FullName()
		row.BusinessName = booking.Client.BusinessName
		row.PhoneNumber = booking.Client.PhoneNumber
	}
	if booking.Salesman != nil {
		row.SalesmanName = booking.Salesman.FullName()
	}
	return row
}

func loadBookingAssociations(booking *models.Booking) {
	db := database.Database.Db
	if booking.Client == nil && booking.ClientID != nil {
		var client models.Client
		if err := db.First(&client, *booking.ClientID).Error; err == nil {
			booking.Client = &client
		}
	}
	if booking.Salesman == nil {
		var salesman models.User
		if err := db.First(&salesman, booking.SalesmanID).Error; err == nil {
			booking.Salesman = &salesman
		}
	}
}

// SyncNewBookingToSheet appends a live transfer booking to the sheet and
// records the assigned row number. Bookings already on the sheet are skipped.
func SyncNewBookingToSheet(booking *models.Booking) error {
	if !sheetsEnabled() || booking.AppointmentType != models.AppointmentLiveTransfer {
		return nil
	}
	if booking.SheetRowNumber != 0 {
		return nil
	}
	loadBookingAssociations(booking)

	var result sheetAppendResponse
	resp, err := sheetsClient().R().
		SetBody(buildSheetRow(booking)).
		SetResult(&result).
		Post("/rows")
	if err != nil {
		log.Printf("[SHEETS] append failed for booking %d: %v", booking.ID, err)
		return err
	}
	if resp.IsError() {
		log.Printf("[SHEETS] append returned %d for booking %d", resp.StatusCode(), booking.ID)
		return fmt.Errorf("sheets append returned status %d", resp.StatusCode())
	}

	now := time.Now()
	return database.Database.Db.Model(booking).Updates(map[string]interface{}{
		"sheet_row_number": result.RowNumber,
		"sheet_sync_hash":  sheetSyncHash(booking.Status),
		"last_synced_at":   &now,
	}).Error
}

// UpdateSheetFromBooking pushes a status change out to the sheet. A booking
// whose fingerprint already matches its current status was last written by us
// and needs no push.
func UpdateSheetFromBooking(booking *models.Booking) error {
	if !sheetsEnabled() || booking.AppointmentType != models.AppointmentLiveTransfer {
		return nil
	}
	if booking.SheetRowNumber == 0 {
		return SyncNewBookingToSheet(booking)
	}
	if booking.SheetSyncHash == sheetSyncHash(booking.Status) {
		return nil
	}
	loadBookingAssociations(booking)

	resp, err := sheetsClient().R().
		SetBody(buildSheetRow(booking)).
		Put(fmt.Sprintf("/rows/%d", booking.SheetRowNumber))
	if err != nil {
		log.Printf("[SHEETS] update failed for booking %d: %v", booking.ID, err)
		return err
	}
	if resp.IsError() {
		log.Printf("[SHEETS] update returned %d for booking %d", resp.StatusCode(), booking.ID)
		return fmt.Errorf("sheets update returned status %d", resp.StatusCode())
	}

	now := time.Now()
	return database.Database.Db.Model(booking).Updates(map[string]interface{}{
		"sheet_sync_hash": sheetSyncHash(booking.Status),
		"last_synced_at":  &now,
	}).Error
}

// SyncSheetChangesToDB polls the sheet and applies status edits made there to
// the matching bookings. Rows whose status matches the stored fingerprint are
// our own writes and are left alone. Returns the number of bookings updated.
func SyncSheetChangesToDB() int {
	if !sheetsEnabled() {
		return 0
	}
	db := database.Database.Db

	var result sheetListResponse
	resp, err := sheetsClient().R().
		SetResult(&result).
		Get("/rows")
	if err != nil {
		log.Printf("[SHEETS] poll failed: %v", err)
		return 0
	}
	if resp.IsError() {
		log.Printf("[SHEETS] poll returned %d", resp.StatusCode())
		return 0
	}

	allowed := map[string]bool{
		models.BookingStatusPending:   true,
		models.BookingStatusConfirmed: true,
		models.BookingStatusDeclined:  true,
		models.BookingStatusCanceled:  true,
		models.BookingStatusCompleted: true,
	}

	updated := 0
	for _, row := range result.Rows {
		if row.Reference == "" || !allowed[row.Status] {
			continue
		}
		var booking models.Booking
		if err := db.Where("reference = ? AND appointment_type = ?",
			row.Reference, models.AppointmentLiveTransfer).First(&booking).Error; err != nil {
			continue
		}
		if booking.Status == row.Status {
			continue
		}
		if booking.SheetSyncHash == sheetSyncHash(row.Status) {
			continue
		}

		previousStatus := booking.Status
		now := time.Now()
		err := db.Model(&booking).Updates(map[string]interface{}{
			"status":          row.Status,
			"sheet_sync_hash": sheetSyncHash(row.Status),
			"last_synced_at":  &now,
		}).Error
		if err != nil {
			log.Printf("[SHEETS] failed to apply sheet status for booking %d: %v", booking.ID, err)
			continue
		}
		CreateAuditLog(nil, "sheet_sync", "booking", booking.ID, map[string]interface{}{
			"status": map[string]string{"from": previousStatus, "to": row.Status},
		})
		updated++
	}

	if updated > 0 {
		log.Printf("[SHEETS] applied %d status change(s) from sheet", updated)
	}
	return updated
}
