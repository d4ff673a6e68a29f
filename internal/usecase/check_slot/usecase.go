package check_slot

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// UseCase use case повторной проверки слота непосредственно перед бронированием (isSlotStillAvailable)
type UseCase struct {
	commitments  CommitmentsFetcher
	schedule     domain.ScheduleConfig
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	commitments CommitmentsFetcher,
	schedule domain.ScheduleConfig,
	logger Logger,
) *UseCase {
	return &UseCase{
		commitments:  commitments,
		schedule:     schedule,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute проверяет слот по свежим данным обоих источников.
// Ранее рассчитанные списки слотов не используются.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Start.IsZero() {
		return nil, fmt.Errorf("%w: start is required", ErrInvalidInput)
	}
	if req.DurationMinutes < domain.MinServiceDurationMinutes || req.DurationMinutes > domain.MaxServiceDurationMinutes {
		return nil, fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}

	now := uc.timeProvider.Now()
	date := civil.DateOf(req.Start.In(uc.schedule.Location))

	// Проверки без занятости (прошлое, окно, часы работы) не требуют обращения к источникам
	precheck, err := availability.Validate(req.Start, req.DurationMinutes, uc.schedule, nil, now)
	if err != nil {
		uc.logger.Error("CheckSlot: validation error: %v", err)
		return nil, err
	}
	if !precheck.OK() {
		uc.logger.Info("CheckSlot: slot %s is not available: %s", req.Start.Format(time.RFC3339), precheck.Reason)
		return newResponse(req, precheck), nil
	}

	busy, err := uc.commitments.Fetch(ctx, date, uc.schedule)
	if err != nil {
		uc.logger.Error("CheckSlot: failed to fetch commitments for %s: %v", date, err)
		return nil, err
	}

	verdict, err := availability.Validate(req.Start, req.DurationMinutes, uc.schedule, busy, now)
	if err != nil {
		uc.logger.Error("CheckSlot: validation error: %v", err)
		return nil, err
	}

	if !verdict.OK() {
		uc.logger.Info("CheckSlot: slot %s is not available: %s", req.Start.Format(time.RFC3339), verdict.Reason)
	}

	return newResponse(req, verdict), nil
}

func newResponse(req *Request, verdict availability.Verdict) *Response {
	return &Response{
		Start:     req.Start,
		End:       req.Start.Add(time.Duration(req.DurationMinutes) * time.Minute),
		Available: verdict.OK(),
		Reason:    string(verdict.Reason),
	}
}
