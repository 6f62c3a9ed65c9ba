package utils

import (
	"log"
	"time"

	"rau/models"
	"rau/payroll"
	"rau/scheduling"
)

// RegisterBookingSubscribers wires post-commit booking events to the
// notification, audit, sheet mirror and drip campaign services. Call once at
// startup, before the server starts accepting requests.
func RegisterBookingSubscribers() {
	scheduling.Subscribe(handleNotifications)
	scheduling.Subscribe(handleAudit)
	scheduling.Subscribe(handleSheetMirror)
	scheduling.Subscribe(handleDripCampaigns)
}

func handleNotifications(event scheduling.BookingEvent) {
	switch event.Kind {
	case scheduling.EventBookingCreated:
		SendBookingCreatedNotification(event.Booking)
	case scheduling.EventBookingApproved:
		SendBookingApprovedNotification(event.Booking)
	case scheduling.EventBookingDeclined:
		SendBookingDeclinedNotification(event.Booking)
	case scheduling.EventBookingReminder:
		SendBookingReminder(event.Booking)
	}
}

func handleAudit(event scheduling.BookingEvent) {
	changes := map[string]interface{}{
		"status": map[string]string{
			"from": event.PreviousStatus,
			"to":   event.NewStatus,
		},
	}
	if event.Kind == scheduling.EventBookingCreated {
		changes = BookingChanges(event.Booking)
	}
	CreateAuditLog(event.ActorID, string(event.Kind), "booking", event.Booking.ID, changes)
}

func handleSheetMirror(event scheduling.BookingEvent) {
	var err error
	switch event.Kind {
	case scheduling.EventBookingCreated:
		err = SyncNewBookingToSheet(event.Booking)
	case scheduling.EventBookingApproved, scheduling.EventBookingDeclined,
		scheduling.EventBookingCanceled, scheduling.EventBookingCompleted:
		err = UpdateSheetFromBooking(event.Booking)
	}
	if err != nil {
		log.Printf("[EVENTS] sheet mirror failed for booking %d: %v", event.Booking.ID, err)
	}
}

func handleDripCampaigns(event scheduling.BookingEvent) {
	now := time.Now().In(payroll.Location())
	switch event.Kind {
	case scheduling.EventBookingCompleted:
		if _, err := StartDripCampaign(event.Booking, models.CampaignAttended, now); err != nil {
			log.Printf("[EVENTS] attended drip failed for booking %d: %v", event.Booking.ID, err)
		}
	case scheduling.EventBookingDeclined:
		// A decline by itself does not enroll anyone; no-show enrollment is
		// explicit through the booking controller.
	case scheduling.EventBookingCreated:
		// A fresh booking means the client re-engaged; stop any running
		// follow-up sequence tied to older bookings for the same client.
		if event.Booking.ClientID != nil {
			stopClientDrips(*event.Booking.ClientID)
		}
	}
}

func stopClientDrips(clientID uint) {
	ids, err := activeCampaignBookingIDs(clientID)
	if err != nil {
		log.Printf("[EVENTS] failed to look up drip campaigns for client %d: %v", clientID, err)
		return
	}
	for _, id := range ids {
		if err := StopDripCampaigns(id); err != nil {
			log.Printf("[EVENTS] failed to stop drip campaigns for booking %d: %v", id, err)
		}
	}
}
