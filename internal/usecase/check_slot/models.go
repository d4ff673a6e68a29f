package check_slot

import "time"

// Request модель запроса на повторную проверку слота
type Request struct {
	Start           time.Time // Абсолютный момент начала
	DurationMinutes int       // Длительность услуги в минутах
}

// Response модель ответа проверки
type Response struct {
	Start     time.Time
	End       time.Time
	Available bool
	Reason    string // Причина недоступности; пусто, если слот свободен
}
