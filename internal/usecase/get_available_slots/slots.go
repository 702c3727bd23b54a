package get_available_slots

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// buildSlots строит слоты на дату из шаблонов расписания
// Слот занят, только если время начала записи совпадает с временем начала шаблона
// Каждый шаблон дает ровно один слот, пересекающиеся шаблоны не схлопываются
func buildSlots(date time.Time, templates []*domain.WeeklySlotTemplate, appointments []*domain.Appointment) []domain.TimeSlot {
	taken := make(map[types.TimeString]struct{}, len(appointments))
	for _, a := range appointments {
		if !a.IsActive() {
			continue
		}
		taken[a.StartTime] = struct{}{}
	}

	slots := make([]domain.TimeSlot, 0, len(templates))
	for _, t := range templates {
		if !t.IsAvailable || t.DayOfWeek != int(date.Weekday()) {
			continue
		}

		_, isTaken := taken[t.StartTime]
		slots = append(slots, domain.TimeSlot{
			ID:        domain.NewTimeSlotID(date, t.StartTime),
			Date:      date,
			StartTime: t.StartTime,
			EndTime:   t.EndTime,
			Available: !isTaken,
		})
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].StartTime.IsBefore(slots[j].StartTime)
	})

	return slots
}

// civilDate отбрасывает время и часовой пояс, оставляя календарную дату
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
