package scheduling

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"rau/models"
	"rau/payroll"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SlotIntervalMinutes is the length of one bookable slot.
const SlotIntervalMinutes = 30

var defaultWeekdays = map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true}

// weekdayIndex maps Go weekdays onto the stored convention (0 = Monday).
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// ParseWeekdays parses the booking_weekdays CSV. Malformed or empty input
// falls back to Mon-Fri rather than failing the salesman's whole run.
func ParseWeekdays(csv string) map[int]bool {
	if strings.TrimSpace(csv) == "" {
		return defaultWeekdays
	}
	enabled := make(map[int]bool)
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		day, err := strconv.Atoi(part)
		if err != nil || day < 0 || day > 6 {
			return defaultWeekdays
		}
		enabled[day] = true
	}
	if len(enabled) == 0 {
		return defaultWeekdays
	}
	return enabled
}

// EnabledAppointmentTypes reads which meeting types the org currently offers.
func EnabledAppointmentTypes(cfg *models.SystemConfig) []string {
	var types []string
	if cfg.ZoomEnabled {
		types = append(types, models.AppointmentZoom)
	}
	if cfg.InPersonEnabled {
		types = append(types, models.AppointmentInPerson)
	}
	return types
}

// slotTicks expands a daily window into 30-minute start times, half-open on
// the end: 09:00-10:00 yields 09:00 and 09:30.
func slotTicks(startTime, endTime string) ([]string, error) {
	start, err := time.Parse(models.TimeLayout, startTime)
	if err != nil {
		return nil, &ConfigurationError{Message: "invalid booking_start_time " + startTime}
	}
	end, err := time.Parse(models.TimeLayout, endTime)
	if err != nil {
		return nil, &ConfigurationError{Message: "invalid booking_end_time " + endTime}
	}
	if !start.Before(end) {
		return nil, &ConfigurationError{Message: fmt.Sprintf("booking window %s-%s is empty", startTime, endTime)}
	}

	var ticks []string
	for t := start; t.Before(end); t = t.Add(SlotIntervalMinutes * time.Minute) {
		ticks = append(ticks, t.Format(models.TimeLayout))
	}
	return ticks, nil
}

// GenerateRolling is the daily batch policy for one salesman: walk today
// through today+advance_days-1, skip disabled weekdays, and skip any date
// that already has ANY slot for the salesman (that date is assumed fully
// populated). Inserts are duplicate-key tolerant regardless. Returns
// (slots created, dates skipped).
func GenerateRolling(db *gorm.DB, salesman *models.User, cycle *models.AvailabilityCycle, enabledTypes []string, now time.Time) (int, int, error) {
	local := now.In(payroll.Location())
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, payroll.Location())
	furthest := today.AddDate(0, 0, salesman.BookingAdvanceDays-1)

	weekdays := ParseWeekdays(salesman.BookingWeekdays)
	ticks, err := slotTicks(salesman.BookingStartTime, salesman.BookingEndTime)
	if err != nil {
		return 0, 0, err
	}

	var toCreate []models.AvailableTimeSlot
	skipped := 0
	for date := today; !date.After(furthest); date = date.AddDate(0, 0, 1) {
		if !weekdays[weekdayIndex(date)] {
			continue
		}
		dateStr := date.Format(models.DateLayout)

		var existing int64
		if err := db.Model(&models.AvailableTimeSlot{}).
			Where("salesman_id = ? AND date = ?", salesman.ID, dateStr).
			Count(&existing).Error; err != nil {
			return 0, 0, fmt.Errorf("failed to count slots for salesman %d on %s: %w", salesman.ID, dateStr, err)
		}
		if existing > 0 {
			skipped++
			continue
		}

		toCreate = append(toCreate, buildSlots(salesman, cycle, dateStr, ticks, enabledTypes)...)
	}

	created, err := insertIgnoringDuplicates(db, toCreate)
	if err != nil {
		return 0, skipped, err
	}
	return created, skipped, nil
}

// GenerateBulk is the on-demand policy (new salesman onboarding, backfill):
// every tick × enabled type over [from, to], duplicates silently dropped via
// the composite unique key.
func GenerateBulk(db *gorm.DB, salesman *models.User, cycle *models.AvailabilityCycle, from, to time.Time, enabledTypes []string) (int, error) {
	weekdays := ParseWeekdays(salesman.BookingWeekdays)
	ticks, err := slotTicks(salesman.BookingStartTime, salesman.BookingEndTime)
	if err != nil {
		return 0, err
	}

	var toCreate []models.AvailableTimeSlot
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		if !weekdays[weekdayIndex(date)] {
			continue
		}
		toCreate = append(toCreate, buildSlots(salesman, cycle, date.Format(models.DateLayout), ticks, enabledTypes)...)
	}
	return insertIgnoringDuplicates(db, toCreate)
}

func buildSlots(salesman *models.User, cycle *models.AvailabilityCycle, date string, ticks, enabledTypes []string) []models.AvailableTimeSlot {
	var cycleID *uint
	if cycle != nil {
		cycleID = &cycle.ID
	}
	slots := make([]models.AvailableTimeSlot, 0, len(ticks)*len(enabledTypes))
	for _, tick := range ticks {
		for _, appointmentType := range enabledTypes {
			slots = append(slots, models.AvailableTimeSlot{
				SalesmanID:      salesman.ID,
				CycleID:         cycleID,
				Date:            date,
				StartTime:       tick,
				AppointmentType: appointmentType,
				IsActive:        true,
				CreatedByID:     salesman.ID,
			})
		}
	}
	return slots
}

func insertIgnoringDuplicates(db *gorm.DB, slots []models.AvailableTimeSlot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&slots)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to bulk insert slots: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}

// GenerateDaily runs the rolling policy for every active salesman. One bad
// salesman never aborts the batch; the error is logged and the loop moves on.
// Returns aggregate (created, skipped-dates) counts.
func GenerateDaily(db *gorm.DB, now time.Time) (int, int, error) {
	cfg, err := models.GetSystemConfig(db)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load system config: %w", err)
	}
	enabledTypes := EnabledAppointmentTypes(cfg)
	if len(enabledTypes) == 0 {
		return 0, 0, &ConfigurationError{Message: "no meeting types enabled in system config"}
	}

	cycle, err := GetCurrentCycle(db, now)
	if err != nil {
		return 0, 0, err
	}

	var salesmen []models.User
	if err := db.Where("is_active_salesman = ? AND is_blocked = ? AND is_deleted = ?", true, false, false).
		Find(&salesmen).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to load active salesmen: %w", err)
	}

	totalCreated := 0
	totalSkipped := 0
	for i := range salesmen {
		created, skipped, err := GenerateRolling(db, &salesmen[i], cycle, enabledTypes, now)
		if err != nil {
			log.Printf("[SLOT-GENERATOR] error for salesman %d (%s): %v", salesmen[i].ID, salesmen[i].FullName(), err)
			continue
		}
		totalCreated += created
		totalSkipped += skipped
	}
	return totalCreated, totalSkipped, nil
}
