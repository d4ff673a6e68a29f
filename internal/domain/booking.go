package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// BookingStatus represents the status of a reservation in the ledger
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusFailed    BookingStatus = "failed"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
)

// Booking is a reservation record in the ledger
type Booking struct {
	ID              string
	ServiceID       string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	BookingDate     civil.Date // business-local date of StartAt
	StartAt         time.Time
	EndAt           time.Time
	DurationMinutes int
	Status          BookingStatus
	Notes           *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its interval
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled && b.Status != StatusFailed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the booking can be moved to another slot
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// statusTransitions допустимые переходы статусов, кроме отмены
var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusFailed},
	StatusConfirmed: {StatusCompleted, StatusNoShow},
}

// CanTransitionTo reports whether the booking may move to the given status
func (b *Booking) CanTransitionTo(status BookingStatus) bool {
	for _, next := range statusTransitions[b.Status] {
		if next == status {
			return true
		}
	}
	return false
}

// BusyInterval converts the booking into a ledger busy interval
func (b *Booking) BusyInterval() BusyInterval {
	return BusyInterval{
		Start:     b.StartAt,
		End:       b.EndAt,
		Source:    SourceLedger,
		Cancelled: !b.IsActive(),
	}
}

// BookingsFilter фильтр для получения бронирований из журнала
type BookingsFilter struct {
	Date            *civil.Date    // Бизнес-дата (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые и неуспешные бронирования
}
