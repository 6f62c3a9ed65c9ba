package scheduling

import (
	"log"
	"sync"

	"rau/models"
)

type EventKind string

const (
	EventBookingCreated   EventKind = "booking_created"
	EventBookingApproved  EventKind = "booking_approved"
	EventBookingDeclined  EventKind = "booking_declined"
	EventBookingCanceled  EventKind = "booking_canceled"
	EventBookingCompleted EventKind = "booking_completed"
	EventBookingReminder  EventKind = "booking_reminder"
)

// BookingEvent is published after a booking transaction commits. Subscribers
// (notifications, audit, sheet mirror) run outside the transaction; their
// failures are logged and never unwind the booking. Before/after status is
// carried explicitly so subscribers need no shadow state to detect changes.
type BookingEvent struct {
	Kind           EventKind
	Booking        *models.Booking
	PreviousStatus string
	NewStatus      string
	ActorID        *uint
}

type Subscriber func(BookingEvent)

var (
	subscriberMu sync.RWMutex
	subscribers  []Subscriber
)

// Subscribe registers a post-commit event handler. Call during startup,
// before traffic.
func Subscribe(fn Subscriber) {
	subscriberMu.Lock()
	defer subscriberMu.Unlock()
	subscribers = append(subscribers, fn)
}

// publish fans the event out to all subscribers on a background goroutine.
func publish(event BookingEvent) {
	subscriberMu.RLock()
	handlers := make([]Subscriber, len(subscribers))
	copy(handlers, subscribers)
	subscriberMu.RUnlock()

	go func() {
		for _, fn := range handlers {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("[EVENTS] subscriber panic for %s on booking %d: %v", event.Kind, event.Booking.ID, r)
					}
				}()
				fn(event)
			}()
		}
	}()
}
