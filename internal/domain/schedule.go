package domain

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// DayHours is the business window for one weekday: either open between
// Open and Close (wall-clock, business-local) or closed.
// The zero value is a closed day.
type DayHours struct {
	Open   types.TimeString
	Close  types.TimeString
	IsOpen bool
}

// OpenDay returns an open day between open and close
func OpenDay(open, close types.TimeString) DayHours {
	return DayHours{Open: open, Close: close, IsOpen: true}
}

// ClosedDay returns a closed day
func ClosedDay() DayHours {
	return DayHours{}
}

// WeekHours holds business hours for every weekday, indexed by time.Weekday
type WeekHours [7]DayHours

// For returns the hours of the given weekday
func (w WeekHours) For(day time.Weekday) DayHours {
	return w[day]
}

// ScheduleConfig is the resolved, immutable scheduling configuration used by
// slot generation, availability resolution and single-slot validation.
type ScheduleConfig struct {
	Hours               WeekHours
	BufferMinutes       int
	SlotIntervalMinutes int
	BookingWindowDays   int
	Location            *time.Location
}

// Buffer returns the inter-appointment buffer as a duration
func (c ScheduleConfig) Buffer() time.Duration {
	return time.Duration(c.BufferMinutes) * time.Minute
}

// Today returns the business-local calendar date of now
func (c ScheduleConfig) Today(now time.Time) civil.Date {
	return civil.DateOf(now.In(c.Location))
}

// WindowEnd returns the first date outside the booking window (exclusive bound)
func (c ScheduleConfig) WindowEnd(now time.Time) civil.Date {
	return c.Today(now).AddDays(c.BookingWindowDays)
}

// InWindow reports whether date lies in [today, today + BookingWindowDays)
func (c ScheduleConfig) InWindow(date civil.Date, now time.Time) bool {
	today := c.Today(now)
	return !date.Before(today) && date.Before(c.WindowEnd(now))
}

// At returns the absolute instant of the wall-clock time ts on date in the
// business location, and whether that wall-clock time exists on that date
// (it does not inside a spring-forward gap).
func (c ScheduleConfig) At(date civil.Date, ts types.TimeString) (time.Time, bool) {
	instant := ts.On(date.Year, date.Month, date.Day, c.Location)
	if ts.Minutes() == 24*60 {
		// midnight at the end of the day always exists as the next day's 00:00
		return instant, true
	}
	return instant, civil.DateOf(instant) == date && types.NewTimeString(instant).Equal(ts)
}

// Boundary returns the instant at which wall-clock ts is reached on date.
// A wall time inside a spring-forward gap resolves to the end of the gap,
// the first instant whose local wall clock is past ts.
func (c ScheduleConfig) Boundary(date civil.Date, ts types.TimeString) time.Time {
	instant, exists := c.At(date, ts)
	if exists {
		return instant
	}

	target := civil.DateTime{Date: date, Time: civil.Time{Hour: ts.Hour(), Minute: ts.Minute()}}
	start, end := instant.ZoneBounds()
	if civil.DateTimeOf(instant.In(c.Location)).Before(target) {
		return end
	}
	return start
}
