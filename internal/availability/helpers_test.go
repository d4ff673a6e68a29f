package availability

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// standardWeek часы работы по умолчанию: пн-ср 9-18, чт-пт 9-19, сб 10-17, вс выходной
func standardWeek() domain.WeekHours {
	var w domain.WeekHours
	w[time.Monday] = domain.OpenDay(types.MustTimeString("09:00"), types.MustTimeString("18:00"))
	w[time.Tuesday] = domain.OpenDay(types.MustTimeString("09:00"), types.MustTimeString("18:00"))
	w[time.Wednesday] = domain.OpenDay(types.MustTimeString("09:00"), types.MustTimeString("18:00"))
	w[time.Thursday] = domain.OpenDay(types.MustTimeString("09:00"), types.MustTimeString("19:00"))
	w[time.Friday] = domain.OpenDay(types.MustTimeString("09:00"), types.MustTimeString("19:00"))
	w[time.Saturday] = domain.OpenDay(types.MustTimeString("10:00"), types.MustTimeString("17:00"))
	w[time.Sunday] = domain.ClosedDay()
	return w
}

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func testConfig(t *testing.T) domain.ScheduleConfig {
	return domain.ScheduleConfig{
		Hours:               standardWeek(),
		BufferMinutes:       15,
		SlotIntervalMinutes: 30,
		BookingWindowDays:   60,
		Location:            newYork(t),
	}
}

// at возвращает момент времени по настенным часам Нью-Йорка
func at(t *testing.T, date civil.Date, hhmm string) time.Time {
	t.Helper()
	ts := types.MustTimeString(hhmm)
	return ts.On(date.Year, date.Month, date.Day, newYork(t))
}

func displayTimes(slots []domain.EvaluatedSlot, available bool) []string {
	out := make([]string, 0)
	for _, s := range slots {
		if s.Available == available {
			out = append(out, s.DisplayTime)
		}
	}
	return out
}

var (
	sunday      = civil.Date{Year: 2026, Month: time.October, Day: 18}
	tuesday     = civil.Date{Year: 2026, Month: time.October, Day: 20}
	springDay   = civil.Date{Year: 2026, Month: time.March, Day: 8}
	plainSunday = civil.Date{Year: 2026, Month: time.March, Day: 15}
	fallBackDay = civil.Date{Year: 2026, Month: time.November, Day: 1}
)
