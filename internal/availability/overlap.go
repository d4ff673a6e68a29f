package availability

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// conflicts проверяет, пересекается ли слот [start, end), расширенный на buffer с обеих сторон,
// с любым неотменённым занятым интервалом. Буфер применяется только к кандидату,
// границы занятого интервала не расширяются.
//
// Интервалы полуоткрытые, касание границ пересечением не считается:
// - занято 10:00-10:30, буфер 15, слот 10:29-10:59 → [10:14, 11:14) ЕСТЬ пересечение
// - занято 10:00-10:30, буфер 15, слот 10:45-11:15 → [10:30, 11:30) НЕТ пересечения
func conflicts(start, end time.Time, buffer time.Duration, busy []domain.BusyInterval) bool {
	expandedStart := start.Add(-buffer)
	expandedEnd := end.Add(buffer)

	for _, b := range busy {
		if !b.Blocks() {
			continue
		}
		if expandedStart.Before(b.End) && expandedEnd.After(b.Start) {
			return true
		}
	}
	return false
}
