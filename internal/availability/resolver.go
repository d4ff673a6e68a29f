package availability

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ResolveDay отмечает каждый слот-кандидат даты доступным или недоступным.
// Слот недоступен, если он начинается не позже now, или если он конфликтует
// с неотменённым занятым интервалом по правилу буфера. Порядок совпадает с порядком генерации.
// Функция чистая: никакого ввода-вывода, все данные приходят аргументами.
func ResolveDay(
	date civil.Date,
	durationMinutes int,
	cfg domain.ScheduleConfig,
	busy []domain.BusyInterval,
	now time.Time,
) ([]domain.EvaluatedSlot, error) {
	candidates, err := Generate(date, durationMinutes, cfg)
	if err != nil {
		return nil, err
	}

	buffer := cfg.Buffer()
	result := make([]domain.EvaluatedSlot, len(candidates))

	for i, candidate := range candidates {
		available := candidate.Start.After(now) &&
			!conflicts(candidate.Start, candidate.End, buffer, busy)

		result[i] = domain.EvaluatedSlot{
			CandidateSlot: candidate,
			Available:     available,
		}
	}

	return result, nil
}

// ResolveOpenDates перечисляет BookingWindowDays дат подряд начиная с сегодняшней
// (по времени бизнеса) и оставляет только рабочие дни недели.
// Конфликты по слотам здесь не проверяются: день, где все слоты заняты, всё равно считается открытым.
func ResolveOpenDates(durationMinutes int, cfg domain.ScheduleConfig, now time.Time) ([]civil.Date, error) {
	if err := checkInputs(durationMinutes, cfg); err != nil {
		return nil, err
	}

	today := cfg.Today(now)
	dates := make([]civil.Date, 0, cfg.BookingWindowDays)

	for i := 0; i < cfg.BookingWindowDays; i++ {
		date := today.AddDays(i)
		if cfg.Hours.For(weekdayOf(date)).IsOpen {
			dates = append(dates, date)
		}
	}

	return dates, nil
}
