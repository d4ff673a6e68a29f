package domain

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func newYorkConfig(t *testing.T) ScheduleConfig {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return ScheduleConfig{
		BufferMinutes:       DefaultBufferMinutes,
		SlotIntervalMinutes: DefaultSlotIntervalMinutes,
		BookingWindowDays:   DefaultBookingWindowDays,
		Location:            loc,
	}
}

func TestScheduleConfig_At(t *testing.T) {
	cfg := newYorkConfig(t)
	springForward := civil.Date{Year: 2026, Month: time.March, Day: 8}
	fallBack := civil.Date{Year: 2026, Month: time.November, Day: 1}

	tests := []struct {
		name   string
		date   civil.Date
		wall   string
		exists bool
	}{
		{name: "обычное время", date: springForward, wall: "01:30", exists: true},
		{name: "начало разрыва", date: springForward, wall: "02:00", exists: false},
		{name: "внутри разрыва", date: springForward, wall: "02:30", exists: false},
		{name: "после разрыва", date: springForward, wall: "03:00", exists: true},
		{name: "повторяющийся час", date: fallBack, wall: "01:30", exists: true},
		{name: "конец дня", date: springForward, wall: "24:00", exists: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, exists := cfg.At(tt.date, types.MustTimeString(tt.wall))
			assert.Equal(t, tt.exists, exists)
		})
	}
}

func TestScheduleConfig_AtEndOfDay(t *testing.T) {
	cfg := newYorkConfig(t)
	date := civil.Date{Year: 2026, Month: time.October, Day: 20}

	instant, exists := cfg.At(date, types.MustTimeString("24:00"))

	require.True(t, exists)
	assert.Equal(t, time.Date(2026, time.October, 21, 0, 0, 0, 0, cfg.Location), instant)
}

func TestScheduleConfig_Boundary(t *testing.T) {
	cfg := newYorkConfig(t)
	springForward := civil.Date{Year: 2026, Month: time.March, Day: 8}
	// 07:00 UTC: 02:00 EST становится 03:00 EDT
	gapEnd := time.Date(2026, time.March, 8, 7, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		wall string
		want time.Time
	}{
		{name: "до разрыва", wall: "01:30", want: time.Date(2026, time.March, 8, 6, 30, 0, 0, time.UTC)},
		{name: "начало разрыва", wall: "02:00", want: gapEnd},
		{name: "внутри разрыва", wall: "02:30", want: gapEnd},
		{name: "после разрыва", wall: "03:30", want: time.Date(2026, time.March, 8, 7, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.Boundary(springForward, types.MustTimeString(tt.wall))
			assert.True(t, tt.want.Equal(got), "got %s", got.UTC())
		})
	}
}

func TestScheduleConfig_InWindow(t *testing.T) {
	cfg := newYorkConfig(t)
	now := time.Date(2026, time.October, 18, 12, 0, 0, 0, cfg.Location)

	assert.Equal(t, civil.Date{Year: 2026, Month: time.October, Day: 18}, cfg.Today(now))
	assert.Equal(t, civil.Date{Year: 2026, Month: time.December, Day: 17}, cfg.WindowEnd(now))

	assert.False(t, cfg.InWindow(civil.Date{Year: 2026, Month: time.October, Day: 17}, now))
	assert.True(t, cfg.InWindow(civil.Date{Year: 2026, Month: time.October, Day: 18}, now))
	assert.True(t, cfg.InWindow(civil.Date{Year: 2026, Month: time.December, Day: 16}, now))
	assert.False(t, cfg.InWindow(civil.Date{Year: 2026, Month: time.December, Day: 17}, now))
}

func TestBooking_BusyInterval(t *testing.T) {
	start := time.Date(2026, time.October, 20, 16, 0, 0, 0, time.UTC)
	b := Booking{StartAt: start, EndAt: start.Add(90 * time.Minute), Status: StatusConfirmed}

	interval := b.BusyInterval()
	assert.Equal(t, SourceLedger, interval.Source)
	assert.True(t, interval.Blocks())
	assert.Equal(t, 90*time.Minute, interval.End.Sub(interval.Start))

	b.Status = StatusFailed
	assert.False(t, b.BusyInterval().Blocks())
	assert.False(t, b.CanBeCancelled())
}

func TestBooking_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		ok   bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusFailed, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCompleted, StatusNoShow, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			b := Booking{Status: tt.from}
			assert.Equal(t, tt.ok, b.CanTransitionTo(tt.to))
		})
	}
}
