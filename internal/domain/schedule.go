package domain

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// WeeklySlotTemplate is a recurring bookable start time for a day of the week.
// DayOfWeek follows time.Weekday: 0 is Sunday.
type WeeklySlotTemplate struct {
	ID          int64
	DayOfWeek   int
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsAvailable bool
}

// Validate checks the template invariants
func (t *WeeklySlotTemplate) Validate() error {
	if t.DayOfWeek < MinDayOfWeek || t.DayOfWeek > MaxDayOfWeek {
		return fmt.Errorf("%w: day of week must be in [%d..%d], got %d",
			ErrValidation, MinDayOfWeek, MaxDayOfWeek, t.DayOfWeek)
	}
	if err := t.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start time: %v", ErrValidation, err)
	}
	if err := t.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: end time: %v", ErrValidation, err)
	}
	if !t.StartTime.IsBefore(t.EndTime) {
		return fmt.Errorf("%w: start time %s must be before end time %s",
			ErrValidation, t.StartTime, t.EndTime)
	}
	return nil
}
