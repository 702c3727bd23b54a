package upsert_schedule_slot

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type ScheduleService interface {
	Upsert(ctx context.Context, template *domain.WeeklySlotTemplate) (*domain.WeeklySlotTemplate, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
