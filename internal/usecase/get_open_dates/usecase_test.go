package get_open_dates

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func TestExecute(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	cfg := domain.ScheduleConfig{
		Hours:               schedule.DefaultWeek(),
		BufferMinutes:       15,
		SlotIntervalMinutes: 30,
		BookingWindowDays:   14,
		Location:            loc,
	}
	uc := NewUseCase(cfg, logger.Nop())
	uc.timeProvider = fixedTime{now: time.Date(2026, time.October, 18, 12, 0, 0, 0, loc)}

	resp, err := uc.Execute(context.Background(), &Request{DurationMinutes: 60})

	require.NoError(t, err)
	// 14 дней с воскресенья 18.10: два воскресенья выходные
	require.Len(t, resp.Dates, 12)
	assert.Equal(t, civil.Date{Year: 2026, Month: time.October, Day: 19}, resp.Dates[0])
	assert.Equal(t, civil.Date{Year: 2026, Month: time.October, Day: 31}, resp.Dates[11])
	for i := 1; i < len(resp.Dates); i++ {
		assert.True(t, resp.Dates[i-1].Before(resp.Dates[i]))
	}
}

func TestExecute_InvalidDuration(t *testing.T) {
	uc := NewUseCase(domain.ScheduleConfig{}, logger.Nop())

	_, err := uc.Execute(context.Background(), &Request{DurationMinutes: -30})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
