package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetActiveByDate получает неотмененные записи на дату
	GetActiveByDate(ctx context.Context, date time.Time) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория недельного расписания
type ScheduleRepository interface {
	// ListAvailableByDay получает включенные слоты расписания для дня недели
	ListAvailableByDay(ctx context.Context, dayOfWeek int) ([]*domain.WeeklySlotTemplate, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
