package get_open_dates

import "cloud.google.com/go/civil"

// Request модель запроса на получение рабочих дат окна бронирования
type Request struct {
	DurationMinutes int // Длительность услуги в минутах
}

// Response модель ответа со списком рабочих дат
type Response struct {
	Timezone string
	Dates    []civil.Date // По возрастанию, без повторов
}
