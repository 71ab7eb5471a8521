package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// generateSlots генерирует свободные начала записи на день
// Начала идут от открытия с шагом step, запись длительностью duration должна закончиться
// не позже закрытия и не пересекаться ни с одним занятым интервалом.
// Начала раньше now отбрасываются
func generateSlots(openAt, closeAt time.Time, step, duration time.Duration, busy []domain.Interval, now time.Time) []domain.AvailableSlot {
	slots := make([]domain.AvailableSlot, 0)
	if step <= 0 || duration <= 0 {
		return slots
	}

	for start := openAt; !start.Add(duration).After(closeAt); start = start.Add(step) {
		if start.Before(now) {
			continue
		}

		candidate := domain.Interval{Start: start, End: start.Add(duration)}
		if overlapsAny(candidate, busy) {
			continue
		}

		slots = append(slots, domain.AvailableSlot{
			StartTime:       candidate.Start,
			EndTime:         candidate.End,
			DurationMinutes: int(duration / time.Minute),
		})
	}

	return slots
}

// overlapsAny проверяет пересечение с занятыми интервалами
// Граничащие интервалы (один заканчивается там, где начинается другой) НЕ пересекаются
func overlapsAny(candidate domain.Interval, busy []domain.Interval) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

// busyIntervals превращает записи в занятые интервалы
func busyIntervals(appointments []*domain.Appointment) []domain.Interval {
	intervals := make([]domain.Interval, 0, len(appointments))
	for _, a := range appointments {
		if !a.IsActive() {
			continue
		}
		intervals = append(intervals, domain.Interval{Start: a.StartTime, End: a.EndTime})
	}
	return intervals
}

// dayStart обнуляет время, оставляя дату в UTC
func dayStart(date time.Time) time.Time {
	y, m, d := date.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
