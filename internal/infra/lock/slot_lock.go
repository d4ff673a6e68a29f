package lock

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "booking:lock:"

// SlotLocker консультативная блокировка бизнес-даты в Redis.
// Пока блокировка удерживается, другие запросы не фиксируют бронирования на эту дату.
// Исключительность обеспечивает БД; блокировка лишь сужает окно гонки и снимает нагрузку с транзакций.
type SlotLocker struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSlotLocker создает блокировщик с временем жизни ttl
func NewSlotLocker(rdb *redis.Client, ttl time.Duration) *SlotLocker {
	return &SlotLocker{rdb: rdb, ttl: ttl}
}

// Lock захватывает блокировку даты и возвращает функцию её освобождения.
// Если блокировка уже удерживается, возвращает ErrLocked.
func (l *SlotLocker) Lock(ctx context.Context, date civil.Date) (func(context.Context) error, error) {
	key := keyPrefix + date.String()
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: setnx %s: %v", ErrRedis, key, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, key)
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil && err != redis.Nil {
			return fmt.Errorf("%w: release %s: %v", ErrRedis, key, err)
		}
		return nil
	}

	return release, nil
}

// releaseScript удаляет ключ, только если он всё ещё принадлежит владельцу токена
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
  return redis.call('DEL', KEYS[1])
end
return 0
`)
