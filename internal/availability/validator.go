package availability

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Reason причина, по которой слот не прошёл проверку
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonInPast        Reason = "in_past"
	ReasonOutsideWindow Reason = "outside_booking_window"
	ReasonClosed        Reason = "closed"
	ReasonOutsideHours  Reason = "outside_business_hours"
	ReasonConflict      Reason = "conflict"
)

// Verdict результат проверки одного слота
type Verdict struct {
	Reason Reason
}

// OK возвращает true, если слот всё ещё свободен
func (v Verdict) OK() bool {
	return v.Reason == ReasonNone
}

// Validate заново проверяет один слот перед фиксацией бронирования.
// Проверки идут по порядку и прерываются на первой неудачной:
//  1. начало строго позже now
//  2. дата начала (по времени бизнеса) внутри окна бронирования
//  3. день рабочий, начало не раньше открытия, конец не позже закрытия
//     (и по абсолютному времени, и по настенным часам, как в Generate)
//  4. нет конфликтов с busy по тому же правилу буфера, что и в ResolveDay
//
// busy должен быть получен заново непосредственно перед вызовом,
// ранее рассчитанные слоты здесь не используются.
func Validate(
	start time.Time,
	durationMinutes int,
	cfg domain.ScheduleConfig,
	busy []domain.BusyInterval,
	now time.Time,
) (Verdict, error) {
	if err := checkInputs(durationMinutes, cfg); err != nil {
		return Verdict{}, err
	}
	if start.IsZero() {
		return Verdict{}, ErrInvalidStart
	}

	if !start.After(now) {
		return Verdict{Reason: ReasonInPast}, nil
	}

	local := start.In(cfg.Location)
	date := civil.DateOf(local)

	if !cfg.InWindow(date, now) {
		return Verdict{Reason: ReasonOutsideWindow}, nil
	}

	hours := cfg.Hours.For(local.Weekday())
	if !hours.IsOpen {
		return Verdict{Reason: ReasonClosed}, nil
	}

	end := start.Add(minutes(durationMinutes))
	openAt := cfg.Boundary(date, hours.Open)
	closeAt := cfg.Boundary(date, hours.Close)
	if start.Before(openAt) || end.After(closeAt) {
		return Verdict{Reason: ReasonOutsideHours}, nil
	}
	if !endsByClose(types.NewTimeString(local), durationMinutes, hours.Close) {
		return Verdict{Reason: ReasonOutsideHours}, nil
	}

	if conflicts(start, end, cfg.Buffer(), busy) {
		return Verdict{Reason: ReasonConflict}, nil
	}

	return Verdict{}, nil
}
