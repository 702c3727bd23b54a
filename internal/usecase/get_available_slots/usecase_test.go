package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (f *fakeAppointmentRepo) GetActiveByDate(ctx context.Context, date time.Time) ([]*domain.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make([]*domain.Appointment, 0)
	for _, a := range f.appointments {
		if a.BookingDate.Equal(date) && a.IsActive() {
			result = append(result, a)
		}
	}
	return result, nil
}

type fakeScheduleRepo struct {
	templates []*domain.WeeklySlotTemplate
	err       error
}

func (f *fakeScheduleRepo) ListAvailableByDay(ctx context.Context, dayOfWeek int) ([]*domain.WeeklySlotTemplate, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make([]*domain.WeeklySlotTemplate, 0)
	for _, t := range f.templates {
		if t.DayOfWeek == dayOfWeek && t.IsAvailable {
			result = append(result, t)
		}
	}
	return result, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// 2026-10-19 - понедельник
var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func mondayNine() *domain.WeeklySlotTemplate {
	return &domain.WeeklySlotTemplate{ID: 1, DayOfWeek: 1, StartTime: "09:00:00", EndTime: "10:00:00", IsAvailable: true}
}

func appointmentAt(date time.Time, start string, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{BookingDate: date, StartTime: types.MustTimeString(start), Status: status}
}

func TestExecute_MondayNine(t *testing.T) {
	tests := []struct {
		name          string
		appointments  []*domain.Appointment
		wantAvailable bool
	}{
		{
			name:          "no appointments",
			wantAvailable: true,
		},
		{
			name:          "booked appointment takes the slot",
			appointments:  []*domain.Appointment{appointmentAt(monday, "09:00", domain.StatusBooked)},
			wantAvailable: false,
		},
		{
			name:          "completed appointment takes the slot",
			appointments:  []*domain.Appointment{appointmentAt(monday, "09:00", domain.StatusCompleted)},
			wantAvailable: false,
		},
		{
			name:          "cancelled appointment frees the slot",
			appointments:  []*domain.Appointment{appointmentAt(monday, "09:00", domain.StatusCancelled)},
			wantAvailable: true,
		},
		{
			name:          "appointment at another time does not matter",
			appointments:  []*domain.Appointment{appointmentAt(monday, "09:30", domain.StatusBooked)},
			wantAvailable: true,
		},
		{
			name:          "appointment on another day does not matter",
			appointments:  []*domain.Appointment{appointmentAt(monday.AddDate(0, 0, 7), "09:00", domain.StatusBooked)},
			wantAvailable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewUseCase(
				&fakeAppointmentRepo{appointments: tt.appointments},
				&fakeScheduleRepo{templates: []*domain.WeeklySlotTemplate{mondayNine()}},
				nopLogger{},
			)

			resp, err := uc.Execute(context.Background(), &Request{Date: monday})
			require.NoError(t, err)
			require.Len(t, resp.Slots, 1)

			slot := resp.Slots[0]
			assert.Equal(t, "2026-10-19-09:00:00", slot.ID)
			assert.Equal(t, types.TimeString("09:00:00"), slot.StartTime)
			assert.Equal(t, tt.wantAvailable, slot.Available)
		})
	}
}

func TestExecute_OneSlotPerTemplateSorted(t *testing.T) {
	templates := []*domain.WeeklySlotTemplate{
		{ID: 1, DayOfWeek: 1, StartTime: "11:00:00", EndTime: "12:00:00", IsAvailable: true},
		{ID: 2, DayOfWeek: 1, StartTime: "09:00:00", EndTime: "10:00:00", IsAvailable: true},
		{ID: 3, DayOfWeek: 1, StartTime: "09:30:00", EndTime: "10:30:00", IsAvailable: true},
		{ID: 4, DayOfWeek: 1, StartTime: "10:00:00", EndTime: "11:00:00", IsAvailable: false},
		{ID: 5, DayOfWeek: 2, StartTime: "09:00:00", EndTime: "10:00:00", IsAvailable: true},
	}
	uc := NewUseCase(&fakeAppointmentRepo{}, &fakeScheduleRepo{templates: templates}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{Date: monday})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 3)
	assert.Equal(t, types.TimeString("09:00:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("09:30:00"), resp.Slots[1].StartTime)
	assert.Equal(t, types.TimeString("11:00:00"), resp.Slots[2].StartTime)
	for _, s := range resp.Slots {
		assert.True(t, s.Available)
	}
}

func TestExecute_NoTemplatesForDay(t *testing.T) {
	uc := NewUseCase(&fakeAppointmentRepo{}, &fakeScheduleRepo{templates: []*domain.WeeklySlotTemplate{mondayNine()}}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{Date: monday.AddDate(0, 0, 1)})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_NormalizesDate(t *testing.T) {
	uc := NewUseCase(
		&fakeAppointmentRepo{appointments: []*domain.Appointment{appointmentAt(monday, "09:00", domain.StatusBooked)}},
		&fakeScheduleRepo{templates: []*domain.WeeklySlotTemplate{mondayNine()}},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), &Request{Date: monday.Add(15 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, monday, resp.Date)
	require.Len(t, resp.Slots, 1)
	assert.False(t, resp.Slots[0].Available)
}

func TestExecute_Errors(t *testing.T) {
	storeErr := errors.New("connection refused")

	uc := NewUseCase(&fakeAppointmentRepo{}, &fakeScheduleRepo{}, nopLogger{})
	_, err := uc.Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	uc = NewUseCase(&fakeAppointmentRepo{}, &fakeScheduleRepo{err: storeErr}, nopLogger{})
	_, err = uc.Execute(context.Background(), &Request{Date: monday})
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	uc = NewUseCase(&fakeAppointmentRepo{err: storeErr}, &fakeScheduleRepo{templates: []*domain.WeeklySlotTemplate{mondayNine()}}, nopLogger{})
	resp, err := uc.Execute(context.Background(), &Request{Date: monday})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Nil(t, resp)
}
