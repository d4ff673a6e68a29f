package commitments

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
)

// Service собирает занятые интервалы из календаря и журнала бронирований
type Service struct {
	calendar BusySource
	ledger   BusySource
	metrics  *metrics.Metrics
	logger   Logger
}

// NewService создает новый экземпляр сервиса. metrics может быть nil.
func NewService(calendar, ledger BusySource, m *metrics.Metrics, logger Logger) *Service {
	return &Service{
		calendar: calendar,
		ledger:   ledger,
		metrics:  m,
		logger:   logger,
	}
}

// Fetch читает оба источника параллельно и возвращает объединённый список.
// Диапазон чтения - бизнес-сутки date, расширенные на буфер с обеих сторон.
// Ошибка любого источника возвращается как domain.ErrSourceUnavailable без частичного результата.
func (s *Service) Fetch(ctx context.Context, date civil.Date, cfg domain.ScheduleConfig) ([]domain.BusyInterval, error) {
	from := date.In(cfg.Location).Add(-cfg.Buffer())
	to := date.AddDays(1).In(cfg.Location).Add(cfg.Buffer())

	return s.FetchRange(ctx, from, to)
}

// FetchRange читает оба источника за произвольный диапазон [from, to)
func (s *Service) FetchRange(ctx context.Context, from, to time.Time) ([]domain.BusyInterval, error) {
	var calendarBusy, ledgerBusy []domain.BusyInterval

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		calendarBusy, err = s.fetchOne(gctx, domain.SourceCalendar, s.calendar, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		ledgerBusy, err = s.fetchOne(gctx, domain.SourceLedger, s.ledger, from, to)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	busy := make([]domain.BusyInterval, 0, len(calendarBusy)+len(ledgerBusy))
	busy = append(busy, calendarBusy...)
	busy = append(busy, ledgerBusy...)

	return busy, nil
}

func (s *Service) fetchOne(
	ctx context.Context,
	source domain.BusySource,
	src BusySource,
	from, to time.Time,
) ([]domain.BusyInterval, error) {
	start := time.Now()
	busy, err := src.FetchBusyIntervals(ctx, from, to)

	if s.metrics != nil {
		s.metrics.SourceFetchDuration.WithLabelValues(string(source)).Observe(time.Since(start).Seconds())
	}

	if err != nil {
		if s.metrics != nil {
			s.metrics.SourceFetchFailures.WithLabelValues(string(source)).Inc()
		}
		s.logger.Error("Fetch: %s source failed for [%s, %s): %v",
			source, from.Format(time.RFC3339), to.Format(time.RFC3339), err)
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSourceUnavailable, source, err)
	}

	return busy, nil
}
