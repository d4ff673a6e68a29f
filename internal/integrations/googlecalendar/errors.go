package googlecalendar

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("googlecalendar client: internal error")

	// ErrRequest возвращается, когда запрос к Calendar API завершился ошибкой
	ErrRequest = errors.New("googlecalendar client: request failed")
)
