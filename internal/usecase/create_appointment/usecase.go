package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	catalogClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/catalog"
	rewardsService "github.com/m04kA/SMC-AppointmentService/internal/service/rewards"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	catalogClient   CatalogClient
	rewardService   RewardService
	publisher       EventPublisher
	txManager       TransactionManager
	metrics         Metrics
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// location - часовой пояс бизнеса, в котором проверяется, что слот не в прошлом
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	catalogClient CatalogClient,
	rewardService RewardService,
	publisher EventPublisher,
	txManager TransactionManager,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		catalogClient:   catalogClient,
		rewardService:   rewardService,
		publisher:       publisher,
		txManager:       txManager,
		metrics:         metrics,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
// Слот блокируется advisory-блокировкой в транзакции, бонус начисляется в той же транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	date := civilDate(req.Date)
	req.Date = date

	// Гостевая запись никогда не привязывается к клиенту
	customer := domain.NoCustomer()
	if req.WithAccount && req.CustomerID != nil {
		customer = domain.SomeCustomer(*req.CustomerID)
	}

	uc.logger.Info("CreateAppointment: customer=%s, date=%s, time=%s, services=%v",
		customer, date.Format(domain.DateFormat), req.StartTime, req.ServiceIDs)

	// 2. Проверяем, что слот не в прошлом
	if err := validateNotInPast(req, uc.timeProvider.Now(), uc.location); err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, err
	}

	// 3. Получаем снимок услуг из каталога
	services, err := uc.resolveServices(ctx, req.ServiceIDs)
	if err != nil {
		return nil, err
	}

	var (
		result   *domain.Appointment
		replayed bool
	)

	// 4. Выполняем операции с БД в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 4.1. Повторный запрос с тем же ключом возвращает уже созданную запись
		if req.IdempotencyKey != nil {
			existing, err := uc.findReplay(txCtx, req)
			if err != nil {
				return err
			}
			if existing != nil {
				if !matchesReplay(existing, customer, date, req) {
					uc.logger.Warn("CreateAppointment: idempotency key %s belongs to appointment id=%d with different data",
						*req.IdempotencyKey, existing.ID)
					return ErrIdempotencyKeyReused
				}
				result = existing
				replayed = true
				return nil
			}
		}

		// 4.2. Блокируем слот до конца транзакции
		if err := uc.appointmentRepo.LockSlot(txCtx, date, req.StartTime); err != nil {
			uc.logger.Error("CreateAppointment: failed to lock slot %s %s: %v", date.Format(domain.DateFormat), req.StartTime, err)
			return fmt.Errorf("%w: failed to lock slot: %v", ErrInternal, err)
		}

		// 4.3. Слот должен быть в расписании и включен
		if _, err := uc.scheduleRepo.FindAvailable(txCtx, int(date.Weekday()), req.StartTime); err != nil {
			if errors.Is(err, scheduleRepo.ErrSlotTemplateNotFound) {
				uc.logger.Warn("CreateAppointment: slot %s %s is not offered", date.Format(domain.DateFormat), req.StartTime)
				return ErrSlotNotOffered
			}
			uc.logger.Error("CreateAppointment: failed to check schedule: %v", err)
			return fmt.Errorf("%w: failed to check schedule: %v", ErrInternal, err)
		}

		// 4.4. Проверяем, что слот свободен
		taken, err := uc.appointmentRepo.ExistsActiveAtSlot(txCtx, date, req.StartTime)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to check slot: %v", err)
			return fmt.Errorf("%w: failed to check slot: %v", ErrInternal, err)
		}
		if taken {
			return ErrSlotNotAvailable
		}

		// 4.5. Создаем запись со снимком услуг
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			Customer:       customer,
			BookingDate:    date,
			StartTime:      req.StartTime,
			Status:         domain.StatusBooked,
			ClientName:     req.ClientName,
			ClientPhone:    req.ClientPhone,
			Services:       services,
			IdempotencyKey: req.IdempotencyKey,
		})
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotTaken) || errors.Is(err, appointmentRepo.ErrDuplicateIdempotencyKey) {
				return fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		// 4.6. Начисляем бонус клиенту
		if customerID, ok := customer.Get(); ok {
			if _, err := uc.rewardService.RecordServiceUsage(txCtx, customerID); err != nil {
				if errors.Is(err, rewardsService.ErrAccountNotFound) {
					uc.logger.Warn("CreateAppointment: customer=%s has no reward account, accrual skipped", customerID)
				} else {
					uc.logger.Error("CreateAppointment: failed to record service usage for customer=%s: %v", customerID, err)
					return fmt.Errorf("%w: %v", ErrRewardUpdate, err)
				}
			}
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) {
			uc.metrics.IncSlotConflicts()
			uc.logger.Warn("CreateAppointment: slot %s %s is already taken", date.Format(domain.DateFormat), req.StartTime)
		}
		return nil, err
	}

	if replayed {
		uc.logger.Info("CreateAppointment: idempotent replay of appointment id=%d", result.ID)
		return &Response{Appointment: result, Replayed: true}, nil
	}

	uc.metrics.IncAppointmentsCreated()
	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// 5. Уведомление после коммита, ошибка не влияет на результат
	if err := uc.publisher.PublishAppointmentCreated(ctx, result); err != nil {
		uc.logger.Error("CreateAppointment: failed to publish event for appointment id=%d: %v", result.ID, err)
	}

	return &Response{Appointment: result}, nil
}

// findReplay берет блокировку на ключ идемпотентности и ищет уже созданную запись
func (uc *UseCase) findReplay(ctx context.Context, req *Request) (*domain.Appointment, error) {
	if err := uc.appointmentRepo.LockIdempotencyKey(ctx, *req.IdempotencyKey); err != nil {
		uc.logger.Error("CreateAppointment: failed to lock idempotency key: %v", err)
		return nil, fmt.Errorf("%w: failed to lock idempotency key: %v", ErrInternal, err)
	}

	existing, err := uc.appointmentRepo.GetByIdempotencyKey(ctx, *req.IdempotencyKey)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, nil
		}
		uc.logger.Error("CreateAppointment: failed to look up idempotency key: %v", err)
		return nil, fmt.Errorf("%w: failed to look up idempotency key: %v", ErrInternal, err)
	}

	return existing, nil
}

// resolveServices получает снимок услуг из каталога в порядке запроса
func (uc *UseCase) resolveServices(ctx context.Context, ids []int64) ([]domain.ServiceRef, error) {
	services, err := uc.catalogClient.GetServices(ctx, ids)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		}
		uc.logger.Error("CreateAppointment: failed to get services from catalog: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	refs := make([]domain.ServiceRef, 0, len(services))
	for _, s := range services {
		refs = append(refs, domain.ServiceRef{
			ServiceID:       s.ID,
			Name:            s.Name,
			Price:           s.Price,
			DurationMinutes: s.DurationMinutes,
		})
	}

	return refs, nil
}
