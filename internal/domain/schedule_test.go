package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func TestWeeklySlotTemplate_Validate(t *testing.T) {
	tests := []struct {
		name     string
		template WeeklySlotTemplate
		wantErr  bool
	}{
		{
			name:     "valid monday slot",
			template: WeeklySlotTemplate{DayOfWeek: 1, StartTime: "09:00:00", EndTime: "10:00:00"},
		},
		{
			name:     "sunday is zero",
			template: WeeklySlotTemplate{DayOfWeek: 0, StartTime: "09:00:00", EndTime: "09:30:00"},
		},
		{
			name:     "day out of range",
			template: WeeklySlotTemplate{DayOfWeek: 7, StartTime: "09:00:00", EndTime: "10:00:00"},
			wantErr:  true,
		},
		{
			name:     "negative day",
			template: WeeklySlotTemplate{DayOfWeek: -1, StartTime: "09:00:00", EndTime: "10:00:00"},
			wantErr:  true,
		},
		{
			name:     "end equals start",
			template: WeeklySlotTemplate{DayOfWeek: 1, StartTime: "09:00:00", EndTime: "09:00:00"},
			wantErr:  true,
		},
		{
			name:     "end before start",
			template: WeeklySlotTemplate{DayOfWeek: 1, StartTime: "10:00:00", EndTime: "09:00:00"},
			wantErr:  true,
		},
		{
			name:     "malformed time",
			template: WeeklySlotTemplate{DayOfWeek: 1, StartTime: types.TimeString("9am"), EndTime: "10:00:00"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.template.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}
