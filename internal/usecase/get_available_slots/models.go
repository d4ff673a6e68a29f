package get_available_slots

import (
	"time"

	"cloud.google.com/go/civil"
)

// Request модель запроса на получение слотов на дату
type Request struct {
	Date            civil.Date // Бизнес-дата
	DurationMinutes int        // Длительность услуги в минутах
}

// Response модель ответа со слотами дня
type Response struct {
	Date            civil.Date
	DurationMinutes int
	Timezone        string
	Slots           []Slot // Все слоты дня в порядке генерации; закрытый день - пустой список
}

// Slot модель временного слота
type Slot struct {
	Start       time.Time
	End         time.Time
	DisplayTime string // Время начала по часам бизнеса, например "10:00 AM"
	Available   bool
}
