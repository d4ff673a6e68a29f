package lock

import "errors"

var (
	// ErrLocked возвращается, когда блокировку уже держит другой запрос
	ErrLocked = errors.New("lock: already held")

	// ErrRedis возвращается при ошибках Redis
	ErrRedis = errors.New("lock: redis error")
)
