package availability

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Generate генерирует все слоты-кандидаты на дату до учёта занятости.
// Шаг идёт по настенному времени от открытия с интервалом SlotIntervalMinutes;
// генерация останавливается на первом слоте, который заканчивается позже закрытия
// по настенным часам (начало + длительность > close) или по абсолютному времени.
// В день перехода на зимнее время повторный час не добавляет слотов,
// при переходе на летнее время несуществующее настенное время пропускается.
// Закрытый день - пустой список, а не ошибка.
func Generate(date civil.Date, durationMinutes int, cfg domain.ScheduleConfig) ([]domain.CandidateSlot, error) {
	if err := checkInputs(durationMinutes, cfg); err != nil {
		return nil, err
	}
	if !date.IsValid() {
		return nil, ErrInvalidDate
	}

	slots := make([]domain.CandidateSlot, 0)

	hours := cfg.Hours.For(weekdayOf(date))
	if !hours.IsOpen {
		return slots, nil
	}

	closeAt := cfg.Boundary(date, hours.Close)
	duration := minutes(durationMinutes)

	for wall := hours.Open.Minutes(); wall < hours.Close.Minutes(); wall += cfg.SlotIntervalMinutes {
		ts, err := types.NewTimeStringFromMinutes(wall)
		if err != nil {
			return nil, err
		}

		if !endsByClose(ts, durationMinutes, hours.Close) {
			break
		}

		start, exists := cfg.At(date, ts)
		if !exists {
			continue
		}

		end := start.Add(duration)
		if end.After(closeAt) {
			break
		}

		slots = append(slots, domain.CandidateSlot{
			Start:       start,
			End:         end,
			DisplayTime: start.In(cfg.Location).Format(domain.DisplayTimeFormat),
		})
	}

	return slots, nil
}

// checkInputs проверяет длительность и полноту конфигурации
func checkInputs(durationMinutes int, cfg domain.ScheduleConfig) error {
	if durationMinutes < domain.MinServiceDurationMinutes || durationMinutes > domain.MaxServiceDurationMinutes {
		return ErrInvalidDuration
	}
	if cfg.Location == nil || cfg.SlotIntervalMinutes <= 0 || cfg.BookingWindowDays <= 0 || cfg.BufferMinutes < 0 {
		return ErrInvalidConfig
	}
	return nil
}

// weekdayOf возвращает день недели календарной даты
func weekdayOf(date civil.Date) time.Weekday {
	return date.In(time.UTC).Weekday()
}

// endsByClose проверяет по настенным часам, что слот с началом start укладывается до closeTime
func endsByClose(start types.TimeString, durationMinutes int, closeTime types.TimeString) bool {
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return false
	}
	return !end.IsAfter(closeTime)
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
