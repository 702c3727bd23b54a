package schedule

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ScheduleRepository интерфейс репозитория недельного расписания
type ScheduleRepository interface {
	Create(ctx context.Context, template *domain.WeeklySlotTemplate) (*domain.WeeklySlotTemplate, error)
	Update(ctx context.Context, template *domain.WeeklySlotTemplate) (*domain.WeeklySlotTemplate, error)
	SetAvailable(ctx context.Context, id int64, available bool) (*domain.WeeklySlotTemplate, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.WeeklySlotTemplate, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
