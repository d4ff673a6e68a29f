package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// RescheduleRequest запрос на перенос бронирования
type RescheduleRequest struct {
	Start time.Time `json:"start"`
}

// ListBookingsRequest запрос на получение бронирований за бизнес-дату
type ListBookingsRequest struct {
	Date            string  `json:"date"`                      // "2026-10-20"
	Status          *string `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool    `json:"includeInactive,omitempty"` // Включить отменённые бронирования
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              string    `json:"id"`
	ServiceID       string    `json:"serviceId"`
	BookingDate     string    `json:"bookingDate"` // "2026-10-20"
	StartAt         time.Time `json:"startAt"`
	EndAt           time.Time `json:"endAt"`
	DisplayTime     string    `json:"displayTime"` // "10:00 AM"
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`

	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone string  `json:"customerPhone,omitempty"`
	Notes         *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO.
// loc задаёт бизнес-часовой пояс для displayTime.
func FromDomainBooking(b *domain.Booking, loc *time.Location) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		ServiceID:          b.ServiceID,
		BookingDate:        b.BookingDate.String(),
		StartAt:            b.StartAt,
		EndAt:              b.EndAt,
		DisplayTime:        b.StartAt.In(loc).Format(domain.DisplayTimeFormat),
		DurationMinutes:    b.DurationMinutes,
		Status:             string(b.Status),
		CustomerName:       b.CustomerName,
		CustomerEmail:      b.CustomerEmail,
		CustomerPhone:      b.CustomerPhone,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking, loc *time.Location) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking, loc); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	validStatuses := append(append([]domain.BookingStatus{}, domain.ActiveStatuses...), domain.InactiveStatuses...)
	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
