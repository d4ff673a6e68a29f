package booking

import (
	"errors"

	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL, означающие, что слот заняли параллельно
const (
	codeUniqueViolation      = pq.ErrorCode("23505")
	codeExclusionViolation   = pq.ErrorCode("23P01")
	codeSerializationFailure = pq.ErrorCode("40001")
)

// IsSlotConflict проверяет, что ошибка БД вызвана конкурентным занятием слота
func IsSlotConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case codeUniqueViolation, codeExclusionViolation, codeSerializationFailure:
		return true
	default:
		return false
	}
}
