package get_available_slots

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// UseCase use case для получения слотов на дату (getSlotsForDate)
type UseCase struct {
	commitments  CommitmentsFetcher
	schedule     domain.ScheduleConfig
	recorder     SlotsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case. recorder может быть nil.
func NewUseCase(
	commitments CommitmentsFetcher,
	schedule domain.ScheduleConfig,
	recorder SlotsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		commitments:  commitments,
		schedule:     schedule,
		recorder:     recorder,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения слотов.
// Занятые интервалы читаются заново при каждом вызове.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: date=%s, duration=%d", req.Date, req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Один момент "сейчас" на всю операцию
	now := uc.timeProvider.Now()

	response := &Response{
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		Timezone:        uc.schedule.Location.String(),
		Slots:           []Slot{},
	}

	// 3. Выходной день - пустой список для любой даты, в том числе вне окна
	if !uc.schedule.Hours.For(req.Date.In(uc.schedule.Location).Weekday()).IsOpen {
		uc.logger.Info("GetAvailableSlots: business is closed on %s", req.Date)
		return response, nil
	}

	// 4. Рабочая дата должна попадать в окно бронирования
	if err := validateDate(req, uc.schedule, now); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 5. Получаем занятость из календаря и журнала
	busy, err := uc.commitments.Fetch(ctx, req.Date, uc.schedule)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to fetch commitments: %v", err)
		return nil, err
	}

	// 6. Рассчитываем доступность
	evaluated, err := availability.ResolveDay(req.Date, req.DurationMinutes, uc.schedule, busy, now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve slots: %v", err)
		return nil, err
	}

	available := 0
	for _, s := range evaluated {
		response.Slots = append(response.Slots, Slot{
			Start:       s.Start,
			End:         s.End,
			DisplayTime: s.DisplayTime,
			Available:   s.Available,
		})
		if s.Available {
			available++
		}
	}

	if uc.recorder != nil {
		uc.recorder.ObserveSlots("slots", available)
	}

	uc.logger.Info("GetAvailableSlots: %d of %d slots available on %s (busy intervals: %d)",
		available, len(evaluated), req.Date, len(busy))

	return response, nil
}
