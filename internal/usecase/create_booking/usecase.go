package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/lock"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	commitments  CommitmentsFetcher
	locker       SlotLocker
	txManager    TransactionManager
	recorder     CommitRecorder
	schedule     domain.ScheduleConfig
	ids          IDGenerator
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case. recorder может быть nil.
func NewUseCase(
	bookingRepo BookingRepository,
	commitments CommitmentsFetcher,
	locker SlotLocker,
	txManager TransactionManager,
	recorder CommitRecorder,
	schedule domain.ScheduleConfig,
	ids IDGenerator,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		commitments:  commitments,
		locker:       locker,
		txManager:    txManager,
		recorder:     recorder,
		schedule:     schedule,
		ids:          ids,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Дата блокируется в Redis, затем в сериализуемой транзакции занятость читается заново,
// слот проверяется повторно и бронирование сохраняется со статусом pending.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: service=%s, start=%s, duration=%d",
		req.ServiceID, req.Start.Format(time.RFC3339), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.record(OutcomeRejected)
		return nil, err
	}

	// 2. Один момент "сейчас" на всю операцию
	now := uc.timeProvider.Now()
	local := req.Start.In(uc.schedule.Location)
	date := civil.DateOf(local)

	// 3. Блокируем бизнес-дату
	release, err := uc.locker.Lock(ctx, date)
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			uc.logger.Warn("CreateBooking: date %s is locked by another request", date)
			uc.record(OutcomeBusy)
			return nil, ErrSlotBusy
		}
		uc.logger.Error("CreateBooking: failed to lock date %s: %v", date, err)
		uc.record(OutcomeError)
		return nil, fmt.Errorf("%w: failed to lock date: %v", ErrInternal, err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			uc.logger.Warn("CreateBooking: failed to release lock for %s: %v", date, err)
		}
	}()

	var result *domain.Booking

	// 4. Сериализуемая транзакция: свежая занятость, повторная проверка, запись
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		busy, err := uc.commitments.Fetch(txCtx, date, uc.schedule)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to fetch commitments: %v", err)
			return err
		}

		verdict, err := availability.Validate(req.Start, req.DurationMinutes, uc.schedule, busy, now)
		if err != nil {
			return err
		}

		switch verdict.Reason {
		case availability.ReasonNone:
		case availability.ReasonConflict:
			uc.logger.Warn("CreateBooking: slot %s conflicts with existing commitments", local.Format(time.RFC3339))
			return ErrSlotNotAvailable
		default:
			uc.logger.Warn("CreateBooking: slot %s rejected: %s", local.Format(time.RFC3339), verdict.Reason)
			return fmt.Errorf("%w: %s", ErrInvalidSlot, verdict.Reason)
		}

		booking := &domain.Booking{
			ID:              uc.ids.NewID(),
			ServiceID:       req.ServiceID,
			CustomerName:    req.CustomerName,
			CustomerEmail:   req.CustomerEmail,
			CustomerPhone:   req.CustomerPhone,
			BookingDate:     date,
			StartAt:         req.Start.UTC(),
			EndAt:           req.Start.Add(time.Duration(req.DurationMinutes) * time.Minute).UTC(),
			DurationMinutes: req.DurationMinutes,
			Status:          domain.StatusPending,
			Notes:           req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("CreateBooking: slot taken concurrently: %v", err)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// конфликт сериализации на COMMIT означает, что слот заняли параллельно
		if bookingRepo.IsSlotConflict(err) {
			err = ErrSlotNotAvailable
		}
		uc.record(outcomeOf(err))
		return nil, err
	}

	uc.record(OutcomeCreated)
	uc.logger.Info("CreateBooking: successfully created booking id=%s", result.ID)

	return &Response{
		ID:              result.ID,
		ServiceID:       result.ServiceID,
		BookingDate:     result.BookingDate,
		StartAt:         result.StartAt,
		EndAt:           result.EndAt,
		DisplayTime:     result.StartAt.In(uc.schedule.Location).Format(domain.DisplayTimeFormat),
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		CustomerName:    result.CustomerName,
		CustomerEmail:   result.CustomerEmail,
		CustomerPhone:   result.CustomerPhone,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
	}, nil
}

func (uc *UseCase) record(outcome string) {
	if uc.recorder != nil {
		uc.recorder.RecordCommit(outcome)
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrSlotNotAvailable):
		return OutcomeConflict
	case errors.Is(err, domain.ErrInvalidInput):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}
