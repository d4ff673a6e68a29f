package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: get available slots", domain.ErrInvalidInput)

	// ErrDateOutOfWindow возвращается, когда дата в прошлом или за пределами окна бронирования
	ErrDateOutOfWindow = fmt.Errorf("%w: date is outside the booking window", domain.ErrInvalidInput)
)
