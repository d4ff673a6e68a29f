package create_booking

import (
	"time"

	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID       string    `json:"serviceId" validate:"required,max=64"`
	DurationMinutes int       `json:"durationMinutes" validate:"required,min=1,max=1440"`
	StartTime       time.Time `json:"startTime" validate:"required"` // RFC 3339
	CustomerName    string    `json:"customerName" validate:"required,max=200"`
	CustomerEmail   string    `json:"customerEmail" validate:"required,email"`
	CustomerPhone   string    `json:"customerPhone,omitempty" validate:"omitempty,max=32"`
	Notes           *string   `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              string  `json:"id"`
	ServiceID       string  `json:"serviceId"`
	BookingDate     string  `json:"bookingDate"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DisplayTime     string  `json:"displayTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	CustomerName    string  `json:"customerName"`
	CustomerEmail   string  `json:"customerEmail"`
	CustomerPhone   string  `json:"customerPhone,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() *createBooking.Request {
	return &createBooking.Request{
		ServiceID:       r.ServiceID,
		DurationMinutes: r.DurationMinutes,
		Start:           r.StartTime,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		Notes:           r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		ServiceID:       resp.ServiceID,
		BookingDate:     resp.BookingDate.String(),
		StartTime:       resp.StartAt.UTC().Format(time.RFC3339),
		EndTime:         resp.EndAt.UTC().Format(time.RFC3339),
		DisplayTime:     resp.DisplayTime,
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		CustomerName:    resp.CustomerName,
		CustomerEmail:   resp.CustomerEmail,
		CustomerPhone:   resp.CustomerPhone,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
