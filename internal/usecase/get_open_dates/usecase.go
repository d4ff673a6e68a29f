package get_open_dates

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// UseCase use case для получения рабочих дат в окне бронирования (getOpenDates).
// Учитывает только часы работы: день, где все слоты заняты, остаётся в списке.
type UseCase struct {
	schedule     domain.ScheduleConfig
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(schedule domain.ScheduleConfig, logger Logger) *UseCase {
	return &UseCase{
		schedule:     schedule,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case. ctx не используется: внешние источники не читаются.
func (uc *UseCase) Execute(_ context.Context, req *Request) (*Response, error) {
	if req.DurationMinutes < domain.MinServiceDurationMinutes || req.DurationMinutes > domain.MaxServiceDurationMinutes {
		uc.logger.Warn("GetOpenDates: invalid duration=%d", req.DurationMinutes)
		return nil, fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}

	dates, err := availability.ResolveOpenDates(req.DurationMinutes, uc.schedule, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Error("GetOpenDates: failed to resolve dates: %v", err)
		return nil, err
	}

	uc.logger.Info("GetOpenDates: %d open dates in %d-day window", len(dates), uc.schedule.BookingWindowDays)

	return &Response{
		Timezone: uc.schedule.Location.String(),
		Dates:    dates,
	}, nil
}
