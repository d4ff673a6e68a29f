package create_booking

import (
	"time"

	"cloud.google.com/go/civil"
)

// Commit outcomes для метрик
const (
	OutcomeCreated  = "created"
	OutcomeConflict = "conflict"
	OutcomeRejected = "rejected"
	OutcomeBusy     = "busy"
	OutcomeError    = "error"
)

// Request модель запроса на создание бронирования
type Request struct {
	ServiceID       string    // Идентификатор услуги (каталог услуг вне сервиса)
	DurationMinutes int       // Длительность услуги в минутах
	Start           time.Time // Абсолютный момент начала
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	Notes           *string // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              string
	ServiceID       string
	BookingDate     civil.Date // Бизнес-дата начала
	StartAt         time.Time
	EndAt           time.Time
	DisplayTime     string
	DurationMinutes int
	Status          string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	Notes           *string
	CreatedAt       time.Time
}
