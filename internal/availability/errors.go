package availability

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidDuration продолжительность услуги вне допустимого диапазона
	ErrInvalidDuration = fmt.Errorf("%w: service duration must be between %d and %d minutes",
		domain.ErrInvalidInput, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)

	// ErrInvalidDate календарная дата не существует
	ErrInvalidDate = fmt.Errorf("%w: invalid calendar date", domain.ErrInvalidInput)

	// ErrInvalidStart момент начала не задан
	ErrInvalidStart = fmt.Errorf("%w: slot start is required", domain.ErrInvalidInput)

	// ErrInvalidConfig конфигурация расписания непригодна для расчёта
	ErrInvalidConfig = fmt.Errorf("%w: schedule config is incomplete", domain.ErrConfig)
)
