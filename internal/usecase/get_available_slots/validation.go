package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if !req.Date.IsValid() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.DurationMinutes < domain.MinServiceDurationMinutes || req.DurationMinutes > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}

	return nil
}

// validateDate проверяет, что дата попадает в окно [сегодня, сегодня + BookingWindowDays)
func validateDate(req *Request, cfg domain.ScheduleConfig, now time.Time) error {
	if !cfg.InWindow(req.Date, now) {
		return fmt.Errorf("%w: %s not in [%s, %s)",
			ErrDateOutOfWindow, req.Date, cfg.Today(now), cfg.WindowEnd(now))
	}
	return nil
}
