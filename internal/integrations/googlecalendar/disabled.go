package googlecalendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Disabled источник-заглушка, когда календарь выключен в конфигурации.
// Занятость в этом случае определяется только журналом бронирований.
type Disabled struct{}

func (Disabled) FetchBusyIntervals(context.Context, time.Time, time.Time) ([]domain.BusyInterval, error) {
	return []domain.BusyInterval{}, nil
}
