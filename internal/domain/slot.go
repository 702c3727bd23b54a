package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// TimeSlot is a bookable start time on a concrete date. Derived, never stored.
type TimeSlot struct {
	ID        string
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Available bool
}

// NewTimeSlotID returns the slot id in the form YYYY-MM-DD-HH:MM:SS
func NewTimeSlotID(date time.Time, start types.TimeString) string {
	return date.Format(DateFormat) + "-" + start.String()
}
