package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const table = "bookings"

var columns = []string{
	"id",
	"service_id",
	"customer_name",
	"customer_email",
	"customer_phone",
	"booking_date",
	"start_at",
	"end_at",
	"duration_minutes",
	"status",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository журнал бронирований в PostgreSQL
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// FetchBusyIntervals возвращает бронирования, пересекающие [from, to), как занятые интервалы.
// Каждое бронирование занимает [start_at, end_at) со своей собственной длительностью.
// Отменённые и неуспешные бронирования возвращаются с Cancelled = true.
// Внутри транзакции строки блокируются (FOR UPDATE).
func (r *Repository) FetchBusyIntervals(ctx context.Context, from, to time.Time) ([]domain.BusyInterval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := busyIntervalsQuery(from, to, dbmetrics.IsInTransaction(ctx)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FetchBusyIntervals - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FetchBusyIntervals - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	intervals := make([]domain.BusyInterval, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.StartAt, &b.EndAt, &b.Status); err != nil {
			return nil, fmt.Errorf("%w: FetchBusyIntervals - scan row: %v", ErrScanRow, err)
		}
		intervals = append(intervals, b.BusyInterval())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FetchBusyIntervals - rows error: %v", ErrScanRow, err)
	}

	return intervals, nil
}

func busyIntervalsQuery(from, to time.Time, forUpdate bool) squirrel.SelectBuilder {
	q := psqlbuilder.Select("start_at", "end_at", "status").
		From(table).
		Where(squirrel.Lt{"start_at": to}).
		Where(squirrel.Gt{"end_at": from}).
		OrderBy("start_at ASC")

	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	return q
}

// Create сохраняет новое бронирование.
// Если слот заняли параллельно, возвращает ErrSlotNotAvailable.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"service_id",
			"customer_name",
			"customer_email",
			"customer_phone",
			"booking_date",
			"start_at",
			"end_at",
			"duration_minutes",
			"status",
			"notes",
		).
		Values(
			booking.ID,
			booking.ServiceID,
			booking.CustomerName,
			booking.CustomerEmail,
			booking.CustomerPhone,
			booking.BookingDate.String(),
			booking.StartAt,
			booking.EndAt,
			booking.DurationMinutes,
			booking.Status,
			booking.Notes,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		if IsSlotConflict(err) {
			return nil, fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	q := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		q = q.Suffix("FOR UPDATE")
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ListWithFilter получает бронирования с фильтрацией по дате и статусу.
// Без статуса и без IncludeInactive отменённые и неуспешные бронирования исключаются.
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := listQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListWithFilter - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func listQuery(filter domain.BookingsFilter) squirrel.SelectBuilder {
	q := psqlbuilder.Select(columns...).From(table)

	if filter.Date != nil {
		q = q.Where(squirrel.Eq{"booking_date": filter.Date.String()})
	}

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		inactive := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactive[i] = string(s)
		}
		q = q.Where(squirrel.NotEq{"status": inactive})
	}

	return q.OrderBy("start_at ASC")
}

// Cancel отменяет бронирование с указанием причины
func (r *Repository) Cancel(ctx context.Context, id string, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execSingle(ctx, executor, "Cancel", query, args)
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execSingle(ctx, executor, "UpdateStatus", query, args)
}

// Reschedule переносит бронирование на новый интервал.
// Длительность сохраняется, меняются только границы и бизнес-дата.
func (r *Repository) Reschedule(ctx context.Context, id string, date civil.Date, startAt, endAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("booking_date", date.String()).
		Set("start_at", startAt).
		Set("end_at", endAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reschedule - build update query: %v", ErrBuildQuery, err)
	}

	return r.execSingle(ctx, executor, "Reschedule", query, args)
}

// execSingle выполняет UPDATE, который должен затронуть ровно одну строку
func (r *Repository) execSingle(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if IsSlotConflict(err) {
			return fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
		}
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку с колонками columns
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking     domain.Booking
		bookingDate time.Time
		phone       sql.NullString
	)

	err := row.Scan(
		&booking.ID,
		&booking.ServiceID,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&phone,
		&bookingDate,
		&booking.StartAt,
		&booking.EndAt,
		&booking.DurationMinutes,
		&booking.Status,
		&booking.Notes,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CustomerPhone = phone.String
	booking.BookingDate = civil.DateOf(bookingDate)

	return &booking, nil
}
