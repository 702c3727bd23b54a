package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
)

// Service сервис для управления недельным расписанием
// Права администратора проверяются на уровне HTTP
type Service struct {
	scheduleRepo ScheduleRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(scheduleRepo ScheduleRepository, logger Logger) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// List возвращает все слоты, отсортированные по дню недели и времени начала
func (s *Service) List(ctx context.Context) ([]*domain.WeeklySlotTemplate, error) {
	templates, err := s.scheduleRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return templates, nil
}

// Upsert создает слот (ID = 0) или обновляет существующий
func (s *Service) Upsert(ctx context.Context, template *domain.WeeklySlotTemplate) (*domain.WeeklySlotTemplate, error) {
	if template == nil {
		return nil, fmt.Errorf("%w: slot is required", ErrInvalidInput)
	}

	s.logger.Info("Upsert: slot id=%d, day=%d, %s-%s, available=%t",
		template.ID, template.DayOfWeek, template.StartTime, template.EndTime, template.IsAvailable)

	if template.ID < 0 {
		return nil, fmt.Errorf("%w: slot id must not be negative", ErrInvalidInput)
	}
	if err := template.Validate(); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if template.ID == 0 {
		created, err := s.scheduleRepo.Create(ctx, template)
		if err != nil {
			s.logger.Error("Upsert: failed to create slot: %v", err)
			return nil, fmt.Errorf("%w: Upsert - create: %v", ErrInternal, err)
		}
		s.logger.Info("Upsert: created slot id=%d", created.ID)
		return created, nil
	}

	updated, err := s.scheduleRepo.Update(ctx, template)
	if err != nil {
		return nil, s.mapRepoError("Upsert", template.ID, err)
	}

	s.logger.Info("Upsert: updated slot id=%d", updated.ID)
	return updated, nil
}

// Remove удаляет слот. Существующие записи на это время не затрагиваются
func (s *Service) Remove(ctx context.Context, id int64) error {
	s.logger.Info("Remove: removing slot id=%d", id)

	if err := s.scheduleRepo.Delete(ctx, id); err != nil {
		return s.mapRepoError("Remove", id, err)
	}

	return nil
}

// SetAvailable включает или выключает слот
func (s *Service) SetAvailable(ctx context.Context, id int64, available bool) (*domain.WeeklySlotTemplate, error) {
	s.logger.Info("SetAvailable: slot id=%d, available=%t", id, available)

	template, err := s.scheduleRepo.SetAvailable(ctx, id, available)
	if err != nil {
		return nil, s.mapRepoError("SetAvailable", id, err)
	}

	return template, nil
}

func (s *Service) mapRepoError(op string, id int64, err error) error {
	if errors.Is(err, scheduleRepo.ErrSlotTemplateNotFound) {
		s.logger.Warn("%s: slot id=%d not found", op, id)
		return ErrSlotNotFound
	}
	s.logger.Error("%s: repository error for slot id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
