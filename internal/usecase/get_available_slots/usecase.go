package get_available_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// UseCase use case для получения слотов на дату
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		logger:          logger,
	}
}

// Execute выполняет use case получения слотов
// Прошедшие слоты не отфильтровываются: это решает клиент
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date := civilDate(req.Date)
	dayOfWeek := int(date.Weekday())

	uc.logger.Info("GetAvailableSlots: date=%s, day_of_week=%d", date.Format(domain.DateFormat), dayOfWeek)

	// 2. Получаем включенные шаблоны на день недели
	templates, err := uc.scheduleRepo.ListAvailableByDay(ctx, dayOfWeek)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get schedule for day=%d: %v", dayOfWeek, err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrStoreUnavailable, err)
	}

	// 3. Получаем неотмененные записи на дату
	appointments, err := uc.appointmentRepo.GetActiveByDate(ctx, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments for date=%s: %v",
			date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrStoreUnavailable, err)
	}

	// 4. Строим слоты
	slots := buildSlots(date, templates, appointments)

	uc.logger.Info("GetAvailableSlots: date=%s, templates=%d, appointments=%d, slots=%d",
		date.Format(domain.DateFormat), len(templates), len(appointments), len(slots))

	return &Response{
		Date:  date,
		Slots: slots,
	}, nil
}
