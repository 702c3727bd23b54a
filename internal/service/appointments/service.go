package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	publisher       EventPublisher
	txManager       TransactionManager
	metrics         Metrics
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	publisher EventPublisher,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		publisher:       publisher,
		txManager:       txManager,
		metrics:         metrics,
		logger:          logger,
	}
}

// Get получает запись по ID
// Клиент видит только свои записи, администратор - любые
func (s *Service) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Appointment, error) {
	s.logger.Info("Get: fetching appointment id=%d for customer=%s", id, actor.CustomerID)

	appointment, err := s.getByID(ctx, "Get", id)
	if err != nil {
		return nil, err
	}

	if !actor.CanAccess(appointment.Customer) {
		s.logger.Warn("Get: access denied for customer=%s to appointment id=%d", actor.CustomerID, id)
		return nil, ErrAccessDenied
	}

	return appointment, nil
}

// List получает записи, отсортированные по дате и времени
// Клиент получает только свои записи; администратор - все или одного клиента
func (s *Service) List(ctx context.Context, actor domain.Actor, req ListRequest) ([]*domain.Appointment, error) {
	filter := domain.AppointmentsFilter{
		Date:             req.Date,
		ExcludeCancelled: req.ExcludeCancelled,
	}

	if actor.IsAdmin {
		filter.Customer = req.CustomerID
	} else {
		if req.CustomerID != nil && *req.CustomerID != actor.CustomerID {
			s.logger.Warn("List: customer=%s requested appointments of customer=%s", actor.CustomerID, *req.CustomerID)
			return nil, ErrAccessDenied
		}
		customerID := actor.CustomerID
		filter.Customer = &customerID
	}

	appointments, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d appointments", len(appointments))
	return appointments, nil
}

// Cancel отменяет запись
// Повторная отмена ничего не меняет, завершенную запись отменить нельзя.
// Бонусный счет не меняется
func (s *Service) Cancel(ctx context.Context, actor domain.Actor, id int64) (*domain.Appointment, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d by customer=%s", id, actor.CustomerID)

	var (
		result    *domain.Appointment
		cancelled bool
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.getByID(txCtx, "Cancel", id)
		if err != nil {
			return err
		}

		if !actor.CanAccess(appointment.Customer) {
			s.logger.Warn("Cancel: access denied for customer=%s to appointment id=%d", actor.CustomerID, id)
			return ErrAccessDenied
		}

		if appointment.IsCancelled() {
			result = appointment
			return nil
		}

		if !appointment.CanBeCancelled() {
			s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appointment.Status)
			return ErrCannotCancel
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, id, domain.StatusCancelled); err != nil {
			s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		result, err = s.getByID(txCtx, "Cancel", id)
		if err != nil {
			return err
		}
		cancelled = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !cancelled {
		s.logger.Info("Cancel: appointment id=%d is already cancelled", id)
		return result, nil
	}

	s.metrics.IncAppointmentsCancelled()
	s.logger.Info("Cancel: successfully cancelled appointment id=%d", id)

	if err := s.publisher.PublishAppointmentCancelled(ctx, result); err != nil {
		s.logger.Error("Cancel: failed to publish event for appointment id=%d: %v", id, err)
	}

	return result, nil
}

// Complete отмечает запись выполненной (только администратор)
func (s *Service) Complete(ctx context.Context, actor domain.Actor, id int64) (*domain.Appointment, error) {
	s.logger.Info("Complete: completing appointment id=%d by customer=%s", id, actor.CustomerID)

	if !actor.IsAdmin {
		s.logger.Warn("Complete: customer=%s is not an admin", actor.CustomerID)
		return nil, ErrAccessDenied
	}

	var result *domain.Appointment

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.getByID(txCtx, "Complete", id)
		if err != nil {
			return err
		}

		if appointment.Status == domain.StatusCompleted {
			result = appointment
			return nil
		}

		if !appointment.CanBeCompleted() {
			s.logger.Warn("Complete: appointment id=%d cannot be completed, status=%s", id, appointment.Status)
			return ErrCannotComplete
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, id, domain.StatusCompleted); err != nil {
			s.logger.Error("Complete: repository error for appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
		}

		result, err = s.getByID(txCtx, "Complete", id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Complete: appointment id=%d status=%s", id, result.Status)
	return result, nil
}

func (s *Service) getByID(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appointment, nil
}
