package payroll

import (
	"time"

	"rau/models"
)

// Payroll weeks run Friday 00:00 through Thursday, with a 3 PM Eastern cutoff
// on Thursday: a booking created Thursday at or after 15:00 belongs to the
// following week's period. All weekday/time decisions are made on the wall
// clock in US Eastern so DST transitions do not shift the boundary.

const cutoffHour = 15

var eastern *time.Location

func init() {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.FixedZone("EST", -5*60*60)
	}
	eastern = loc
}

// Location returns the civil timezone all payroll math runs in.
func Location() *time.Location {
	return eastern
}

// Period is one Friday→Thursday payroll week. Start/End carry the local
// midnight bounds; StartDate/EndDate are the date-only keys persisted on
// PayrollPeriod rows.
type Period struct {
	Start     time.Time
	End       time.Time
	StartDate string
	EndDate   string
}

// CurrentPayrollPeriod computes the payroll week a booking created at `now`
// belongs to. Days back to the most recent Friday: Friday 0, Saturday 1,
// Sunday 2, Monday-Thursday weekday+2 (Go weekday indices, Sunday=0). On
// Thursday at or after 15:00 local the whole window shifts forward one week;
// exactly 15:00:00 counts as after.
func CurrentPayrollPeriod(now time.Time) Period {
	local := now.In(eastern)

	var daysBack int
	switch local.Weekday() {
	case time.Friday:
		daysBack = 0
	case time.Saturday:
		daysBack = 1
	case time.Sunday:
		daysBack = 2
	default: // Monday..Thursday
		daysBack = int(local.Weekday()) + 2
	}

	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, eastern)
	start := today.AddDate(0, 0, -daysBack)
	end := start.AddDate(0, 0, 6)

	if local.Weekday() == time.Thursday && local.Hour() >= cutoffHour {
		start = start.AddDate(0, 0, 7)
		end = end.AddDate(0, 0, 7)
	}

	return Period{
		Start:     start,
		End:       end,
		StartDate: start.Format(models.DateLayout),
		EndDate:   end.Format(models.DateLayout),
	}
}

// IsWithinCutoff reports whether a booking created now would still land in
// the period named "this week" on screens: false from Thursday 3 PM through
// Saturday. Display only; assignment always goes through
// CurrentPayrollPeriod.
func IsWithinCutoff(now time.Time) bool {
	local := now.In(eastern)
	if local.Weekday() == time.Thursday && local.Hour() >= cutoffHour {
		return false
	}
	if local.Weekday() == time.Friday || local.Weekday() == time.Saturday {
		return false
	}
	return true
}

// RecentPeriods returns the current period and the weeks-1 periods before it,
// newest first.
func RecentPeriods(now time.Time, weeks int) []Period {
	current := CurrentPayrollPeriod(now)
	periods := make([]Period, 0, weeks)
	for i := 0; i < weeks; i++ {
		start := current.Start.AddDate(0, 0, -7*i)
		end := start.AddDate(0, 0, 6)
		periods = append(periods, Period{
			Start:     start,
			End:       end,
			StartDate: start.Format(models.DateLayout),
			EndDate:   end.Format(models.DateLayout),
		})
	}
	return periods
}
