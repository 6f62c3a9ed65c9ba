package utils

import (
	"log"
	"time"

	"rau/config"
	"rau/database"
	"rau/models"
	"rau/payroll"
	"rau/scheduling"

	"github.com/robfig/cron/v3"
)

// RunDailyGeneration tops up rolling availability for every active salesman.
// Returns slots created and dates skipped.
func RunDailyGeneration() (int, int) {
	now := time.Now().In(payroll.Location())
	created, skipped, err := scheduling.GenerateDaily(database.Database.Db, now)
	if err != nil {
		log.Printf("[SCHEDULER daily-generation] failed: %v", err)
		return created, skipped
	}
	log.Printf("[SCHEDULER daily-generation] created %d slot(s), skipped %d date(s)", created, skipped)
	return created, skipped
}

// RunPastSlotCleanup deactivates slots for past dates and today's elapsed
// times. Returns the number of slots deactivated.
func RunPastSlotCleanup() int64 {
	now := time.Now().In(payroll.Location())
	deactivated, err := scheduling.RunPastSlotCleanup(database.Database.Db, now)
	if err != nil {
		log.Printf("[SCHEDULER past-cleanup] failed: %v", err)
		return deactivated
	}
	log.Printf("[SCHEDULER past-cleanup] deactivated %d slot(s)", deactivated)
	return deactivated
}

// RunWeeklyStaleCleanup deactivates unbooked slots older than the configured
// number of weeks. Returns the number of slots deactivated.
func RunWeeklyStaleCleanup() int64 {
	now := time.Now().In(payroll.Location())
	weeks := config.AppConfig.StaleCleanupWeeks
	deactivated, err := scheduling.DeactivateStale(database.Database.Db, now, weeks)
	if err != nil {
		log.Printf("[SCHEDULER stale-cleanup] failed: %v", err)
		return deactivated
	}
	log.Printf("[SCHEDULER stale-cleanup] deactivated %d stale slot(s) older than %d week(s)", deactivated, weeks)
	return deactivated
}

// RunReminderSweep sends reminders for confirmed bookings whose appointment
// falls inside the next hourly window at the configured lead time. The sweep
// runs hourly, so each booking lands in exactly one window.
func RunReminderSweep() int {
	db := database.Database.Db
	now := time.Now().In(payroll.Location())

	cfg, err := models.GetSystemConfig(db)
	if err != nil {
		log.Printf("[SCHEDULER reminders] failed to load config: %v", err)
		return 0
	}

	windowStart := now.Add(time.Duration(cfg.ReminderHours) * time.Hour)
	windowEnd := windowStart.Add(time.Hour)

	var bookings []models.Booking
	err = db.Where("status = ? AND appointment_type <> ?",
		models.BookingStatusConfirmed, models.AppointmentLiveTransfer).
		Where("appointment_date IN ?", []string{
			windowStart.Format(models.DateLayout),
			windowEnd.Format(models.DateLayout),
		}).
		Find(&bookings).Error
	if err != nil {
		log.Printf("[SCHEDULER reminders] query failed: %v", err)
		return 0
	}

	sent := 0
	for i := range bookings {
		booking := &bookings[i]
		appointmentAt, err := time.ParseInLocation(
			models.DateLayout+" "+models.TimeLayout,
			booking.AppointmentDate+" "+booking.AppointmentTime,
			payroll.Location(),
		)
		if err != nil {
			continue
		}
		if appointmentAt.Before(windowStart) || !appointmentAt.Before(windowEnd) {
			continue
		}
		SendBookingReminder(booking)
		sent++
	}

	if sent > 0 {
		log.Printf("[SCHEDULER reminders] sent reminders for %d booking(s)", sent)
	}
	return sent
}

// InitializeSchedulers registers all recurring jobs and starts the scheduler.
// Jobs run on the payroll timezone so date boundaries line up with slot dates.
func InitializeSchedulers() *cron.Cron {
	c := cron.New(cron.WithLocation(payroll.Location()))

	// Midnight: extend every active salesman's rolling window.
	if _, err := c.AddFunc("0 0 * * *", func() { RunDailyGeneration() }); err != nil {
		log.Printf("[SCHEDULER] failed to register daily generation: %v", err)
	}

	// 1 AM: sweep past-date and elapsed-today slots.
	if _, err := c.AddFunc("0 1 * * *", func() { RunPastSlotCleanup() }); err != nil {
		log.Printf("[SCHEDULER] failed to register past cleanup: %v", err)
	}

	// Sunday 2 AM: sweep stale unbooked slots.
	if _, err := c.AddFunc("0 2 * * 0", func() { RunWeeklyStaleCleanup() }); err != nil {
		log.Printf("[SCHEDULER] failed to register stale cleanup: %v", err)
	}

	// Hourly: appointment reminders.
	if _, err := c.AddFunc("0 * * * *", func() { RunReminderSweep() }); err != nil {
		log.Printf("[SCHEDULER] failed to register reminder sweep: %v", err)
	}

	// Every 15 minutes: due drip campaign messages.
	if _, err := c.AddFunc("*/15 * * * *", func() {
		ProcessScheduledMessages(time.Now().In(payroll.Location()))
	}); err != nil {
		log.Printf("[SCHEDULER] failed to register drip pump: %v", err)
	}

	// Every 5 minutes: pull status edits from the sheet mirror.
	if _, err := c.AddFunc("*/5 * * * *", func() { SyncSheetChangesToDB() }); err != nil {
		log.Printf("[SCHEDULER] failed to register sheet poll: %v", err)
	}

	c.Start()
	log.Println("[SCHEDULER] recurring jobs started")
	return c
}
