package schedule

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidHours часы работы не разбираются или противоречивы
	ErrInvalidHours = fmt.Errorf("%w: invalid business hours", domain.ErrConfig)

	// ErrInvalidTimezone часовой пояс не задан или неизвестен
	ErrInvalidTimezone = fmt.Errorf("%w: invalid business timezone", domain.ErrConfig)

	// ErrInvalidNumber буфер, интервал или окно вне допустимого диапазона
	ErrInvalidNumber = fmt.Errorf("%w: invalid schedule parameter", domain.ErrConfig)
)
