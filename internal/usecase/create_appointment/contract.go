package create_appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/catalog"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	LockSlot(ctx context.Context, date time.Time, startTime types.TimeString) error
	LockIdempotencyKey(ctx context.Context, key uuid.UUID) error
	GetByIdempotencyKey(ctx context.Context, key uuid.UUID) (*domain.Appointment, error)
	ExistsActiveAtSlot(ctx context.Context, date time.Time, startTime types.TimeString) (bool, error)
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория недельного расписания
type ScheduleRepository interface {
	FindAvailable(ctx context.Context, dayOfWeek int, startTime types.TimeString) (*domain.WeeklySlotTemplate, error)
}

// CatalogClient интерфейс клиента каталога услуг
type CatalogClient interface {
	GetServices(ctx context.Context, ids []int64) ([]catalog.Service, error)
}

// RewardService интерфейс начисления бонусов
type RewardService interface {
	RecordServiceUsage(ctx context.Context, customerID uuid.UUID) (*domain.RewardAccount, error)
}

// EventPublisher интерфейс публикации событий о записях
type EventPublisher interface {
	PublishAppointmentCreated(ctx context.Context, appointment *domain.Appointment) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс бизнес-метрик
type Metrics interface {
	IncAppointmentsCreated()
	IncSlotConflicts()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
