package schedule

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// weekdays ключи дней недели в JSON/TOML
var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Resolver собирает domain.ScheduleConfig из сырых настроек.
// Результат неизменяемый и строится один раз при старте.
type Resolver struct {
	raw    config.ScheduleConfig
	logger Logger
}

// NewResolver создает новый экземпляр резолвера расписания
func NewResolver(raw config.ScheduleConfig, logger Logger) *Resolver {
	return &Resolver{raw: raw, logger: logger}
}

// Resolve проверяет настройки и применяет значения по умолчанию.
// Источник часов работы по приоритету: hours_json > [schedule.hours] > стандартная неделя.
func (r *Resolver) Resolve() (domain.ScheduleConfig, error) {
	loc, err := r.location()
	if err != nil {
		r.logger.Error("Resolve: %v", err)
		return domain.ScheduleConfig{}, err
	}

	buffer := intOrDefault(r.raw.BufferMinutes, domain.DefaultBufferMinutes)
	interval := intOrDefault(r.raw.SlotIntervalMinutes, domain.DefaultSlotIntervalMinutes)
	window := intOrDefault(r.raw.BookingWindowDays, domain.DefaultBookingWindowDays)

	if buffer < 0 {
		return domain.ScheduleConfig{}, fmt.Errorf("%w: buffer_minutes=%d must not be negative", ErrInvalidNumber, buffer)
	}
	if interval <= 0 || interval > domain.MaxServiceDurationMinutes {
		return domain.ScheduleConfig{}, fmt.Errorf("%w: slot_interval_minutes=%d", ErrInvalidNumber, interval)
	}
	if window <= 0 || window > domain.MaxBookingWindowDays {
		return domain.ScheduleConfig{}, fmt.Errorf("%w: booking_window_days=%d", ErrInvalidNumber, window)
	}

	hours, source, err := r.hours()
	if err != nil {
		r.logger.Error("Resolve: %v", err)
		return domain.ScheduleConfig{}, err
	}

	r.logger.Info("Resolve: schedule ready (timezone=%s, hours=%s, buffer=%dm, interval=%dm, window=%dd)",
		loc.String(), source, buffer, interval, window)

	return domain.ScheduleConfig{
		Hours:               hours,
		BufferMinutes:       buffer,
		SlotIntervalMinutes: interval,
		BookingWindowDays:   window,
		Location:            loc,
	}, nil
}

func (r *Resolver) location() (*time.Location, error) {
	name := r.raw.Timezone
	if name == "" {
		name = domain.DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, name, err)
	}
	return loc, nil
}

// hours возвращает часы работы и название источника для лога
func (r *Resolver) hours() (domain.WeekHours, string, error) {
	switch {
	case strings.TrimSpace(r.raw.HoursJSON) != "":
		hours, err := ParseHoursJSON(r.raw.HoursJSON)
		return hours, "json", err
	case len(r.raw.Hours) > 0:
		hours, err := parseHoursTable(r.raw.Hours)
		return hours, "toml", err
	default:
		return DefaultWeek(), "default", nil
	}
}

// DefaultWeek стандартная неделя: пн-ср 09-18, чт-пт 09-19, сб 10-17, вс выходной
func DefaultWeek() domain.WeekHours {
	var w domain.WeekHours
	for _, day := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday} {
		w[day] = domain.OpenDay(types.MustTimeString("09:00"), types.MustTimeString("18:00"))
	}
	for _, day := range []time.Weekday{time.Thursday, time.Friday} {
		w[day] = domain.OpenDay(types.MustTimeString("09:00"), types.MustTimeString("19:00"))
	}
	w[time.Saturday] = domain.OpenDay(types.MustTimeString("10:00"), types.MustTimeString("17:00"))
	w[time.Sunday] = domain.ClosedDay()
	return w
}

type jsonDay struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// ParseHoursJSON разбирает объект вида {"monday": {"open": "09:00", "close": "18:00"}, "sunday": null}.
// Отсутствующий день и null означают выходной.
func ParseHoursJSON(raw string) (domain.WeekHours, error) {
	var days map[string]*jsonDay
	if err := json.Unmarshal([]byte(raw), &days); err != nil {
		return domain.WeekHours{}, fmt.Errorf("%w: hours json: %v", ErrInvalidHours, err)
	}

	table := make(map[string]config.DayHoursConfig, len(days))
	for key, day := range days {
		if day == nil {
			table[key] = config.DayHoursConfig{Closed: true}
			continue
		}
		table[key] = config.DayHoursConfig{Open: day.Open, Close: day.Close}
	}

	return parseHoursTable(table)
}

func parseHoursTable(table map[string]config.DayHoursConfig) (domain.WeekHours, error) {
	var week domain.WeekHours

	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		day, ok := weekdays[strings.ToLower(key)]
		if !ok {
			return domain.WeekHours{}, fmt.Errorf("%w: unknown weekday %q", ErrInvalidHours, key)
		}

		entry := table[key]
		if entry.Closed {
			week[day] = domain.ClosedDay()
			continue
		}

		open, err := types.NewTimeStringFromString(entry.Open)
		if err != nil {
			return domain.WeekHours{}, fmt.Errorf("%w: %s open: %v", ErrInvalidHours, key, err)
		}
		closeAt, err := types.NewTimeStringFromString(entry.Close)
		if err != nil {
			return domain.WeekHours{}, fmt.Errorf("%w: %s close: %v", ErrInvalidHours, key, err)
		}
		if !open.IsBefore(closeAt) {
			return domain.WeekHours{}, fmt.Errorf("%w: %s opens at %s but closes at %s", ErrInvalidHours, key, open, closeAt)
		}

		week[day] = domain.OpenDay(open, closeAt)
	}

	return week, nil
}

func intOrDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
