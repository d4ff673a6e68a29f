package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/lock"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// Service сервис для работы с журналом бронирований
type Service struct {
	bookingRepo  BookingRepository
	commitments  CommitmentsFetcher
	locker       SlotLocker
	txManager    TransactionManager
	schedule     domain.ScheduleConfig
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	commitments CommitmentsFetcher,
	locker SlotLocker,
	txManager TransactionManager,
	schedule domain.ScheduleConfig,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		commitments:  commitments,
		locker:       locker,
		txManager:    txManager,
		schedule:     schedule,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s", id)

	if err := validateID(id); err != nil {
		s.logger.Warn("GetByID: %v", err)
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.repoError("GetByID", id, err)
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return models.FromDomainBooking(booking, s.schedule.Location), nil
}

// ListByDate получает бронирования на бизнес-дату.
// По умолчанию возвращаются только активные бронирования.
func (s *Service) ListByDate(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListByDate: fetching bookings for date=%s, status=%v, includeInactive=%t",
		req.Date, req.Status, req.IncludeInactive)

	date, err := civil.ParseDate(req.Date)
	if err != nil || !date.IsValid() {
		s.logger.Warn("ListByDate: invalid date=%q", req.Date)
		return nil, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, req.Date)
	}

	filter := domain.BookingsFilter{
		Date:            &date,
		IncludeInactive: req.IncludeInactive,
	}

	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListByDate: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	bookings, err := s.bookingRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListByDate: repository error for date=%s: %v", date, err)
		return nil, fmt.Errorf("%w: ListByDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByDate: successfully fetched %d bookings for date=%s", len(bookings), date)
	return models.FromDomainBookingList(bookings, s.schedule.Location), nil
}

// UpdateStatus переводит бронирование в новый статус (подтверждение, завершение, неявка, сбой оплаты).
// Отмена выполняется через Cancel.
func (s *Service) UpdateStatus(ctx context.Context, id string, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%s to status=%s", id, req.Status)

	if err := validateID(id); err != nil {
		s.logger.Warn("UpdateStatus: %v", err)
		return nil, err
	}

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%s", req.Status, id)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var result *domain.Booking
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			return s.repoError("UpdateStatus", id, err)
		}

		if !booking.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: booking id=%s cannot move from %s to %s", id, booking.Status, newStatus)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, id, newStatus); err != nil {
			return s.repoError("UpdateStatus", id, err)
		}

		booking.Status = newStatus
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%s to status=%s", id, newStatus)
	return models.FromDomainBooking(result, s.schedule.Location), nil
}

// Cancel отменяет бронирование. Отменить можно только pending и confirmed бронирования.
// Отменённое бронирование перестаёт занимать свой интервал.
func (s *Service) Cancel(ctx context.Context, id string, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%s", id)

	if err := validateID(id); err != nil {
		s.logger.Warn("Cancel: %v", err)
		return err
	}

	if len(req.CancellationReason) > domain.MaxCancellationReasonLength {
		s.logger.Warn("Cancel: cancellation reason too long for booking id=%s", id)
		return fmt.Errorf("%w: cancellation reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			return s.repoError("Cancel", id, err)
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%s cannot be cancelled, status=%s", id, booking.Status)
			return ErrCannotCancel
		}

		if err := s.bookingRepo.Cancel(txCtx, id, req.CancellationReason); err != nil {
			return s.repoError("Cancel", id, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%s", id)
	return nil
}

// Reschedule переносит бронирование на новое время начала с сохранением длительности.
// Новый слот проверяется так же, как при создании, собственный интервал бронирования
// при этом не считается занятым.
func (s *Service) Reschedule(ctx context.Context, id string, req *models.RescheduleRequest) (*models.BookingResponse, error) {
	s.logger.Info("Reschedule: moving booking id=%s to %s", id, req.Start.Format(time.RFC3339))

	if err := validateID(id); err != nil {
		s.logger.Warn("Reschedule: %v", err)
		return nil, err
	}

	if req.Start.IsZero() {
		s.logger.Warn("Reschedule: start time is required for booking id=%s", id)
		return nil, fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}

	now := s.timeProvider.Now()
	date := civil.DateOf(req.Start.In(s.schedule.Location))

	release, err := s.locker.Lock(ctx, date)
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			s.logger.Warn("Reschedule: date %s is locked by another request", date)
			return nil, ErrSlotBusy
		}
		s.logger.Error("Reschedule: failed to lock date %s: %v", date, err)
		return nil, fmt.Errorf("%w: failed to lock date: %v", ErrInternal, err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("Reschedule: failed to release lock for %s: %v", date, err)
		}
	}()

	var result *domain.Booking

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			return s.repoError("Reschedule", id, err)
		}

		if !booking.CanBeRescheduled() {
			s.logger.Warn("Reschedule: booking id=%s cannot be rescheduled, status=%s", id, booking.Status)
			return ErrCannotReschedule
		}

		busy, err := s.commitments.Fetch(txCtx, date, s.schedule)
		if err != nil {
			s.logger.Error("Reschedule: failed to fetch commitments: %v", err)
			return err
		}

		verdict, err := availability.Validate(req.Start, booking.DurationMinutes, s.schedule, withoutOwn(busy, booking), now)
		if err != nil {
			return err
		}

		switch verdict.Reason {
		case availability.ReasonNone:
		case availability.ReasonConflict:
			s.logger.Warn("Reschedule: slot %s conflicts with existing commitments", req.Start.Format(time.RFC3339))
			return ErrSlotNotAvailable
		default:
			s.logger.Warn("Reschedule: slot %s rejected: %s", req.Start.Format(time.RFC3339), verdict.Reason)
			return fmt.Errorf("%w: %s", ErrInvalidSlot, verdict.Reason)
		}

		startAt := req.Start.UTC()
		endAt := startAt.Add(time.Duration(booking.DurationMinutes) * time.Minute)

		if err := s.bookingRepo.Reschedule(txCtx, id, date, startAt, endAt); err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				s.logger.Warn("Reschedule: slot taken concurrently: %v", err)
				return ErrSlotNotAvailable
			}
			return s.repoError("Reschedule", id, err)
		}

		booking.BookingDate = date
		booking.StartAt = startAt
		booking.EndAt = endAt
		result = booking
		return nil
	})

	if err != nil {
		if bookingRepo.IsSlotConflict(err) {
			return nil, ErrSlotNotAvailable
		}
		return nil, err
	}

	s.logger.Info("Reschedule: successfully moved booking id=%s to %s", id, result.StartAt.Format(time.RFC3339))
	return models.FromDomainBooking(result, s.schedule.Location), nil
}

// repoError приводит ошибку репозитория к ошибке сервиса
func (s *Service) repoError(op, id string, err error) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		s.logger.Warn("%s: booking id=%s not found", op, id)
		return ErrBookingNotFound
	}
	s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid booking id %q", ErrInvalidInput, id)
	}
	return nil
}

// withoutOwn исключает из занятости интервал самого переносимого бронирования
func withoutOwn(busy []domain.BusyInterval, booking *domain.Booking) []domain.BusyInterval {
	own := booking.BusyInterval()
	result := make([]domain.BusyInterval, 0, len(busy))
	skipped := false
	for _, b := range busy {
		if !skipped && b.Source == domain.SourceLedger && b.Start.Equal(own.Start) && b.End.Equal(own.End) {
			skipped = true
			continue
		}
		result = append(result, b)
	}
	return result
}
