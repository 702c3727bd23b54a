package rewards

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	rewardRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/reward"
)

// Service сервис бонусных счетов и правила начисления
type Service struct {
	rewardRepo RewardRepository
	txManager  TransactionManager
	metrics    Metrics
	logger     Logger
}

// NewService создает новый экземпляр сервиса бонусов
func NewService(
	rewardRepo RewardRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		rewardRepo: rewardRepo,
		txManager:  txManager,
		metrics:    metrics,
		logger:     logger,
	}
}

// RecordServiceUsage начисляет клиенту одну услугу по текущему правилу
// Если в контексте уже есть транзакция (создание записи), выполняется в ней
func (s *Service) RecordServiceUsage(ctx context.Context, customerID uuid.UUID) (*domain.RewardAccount, error) {
	var result *domain.RewardAccount

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		account, err := s.lockAccount(txCtx, "RecordServiceUsage", customerID)
		if err != nil {
			return err
		}

		threshold, err := s.threshold(txCtx)
		if err != nil {
			return err
		}

		unlocked := account.Accrue(threshold)

		updated, err := s.rewardRepo.UpdateAccount(txCtx, account)
		if err != nil {
			s.logger.Error("RecordServiceUsage: failed to update account of customer=%s: %v", customerID, err)
			return fmt.Errorf("%w: RecordServiceUsage - update account: %v", ErrInternal, err)
		}

		if unlocked {
			s.metrics.IncRewardsUnlocked()
			s.logger.Info("RecordServiceUsage: free service unlocked for customer=%s (threshold=%d)", customerID, threshold)
		}

		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("RecordServiceUsage: customer=%s, count=%d, free=%t",
		customerID, result.ServiceCount, result.FreeServiceAvailable)
	return result, nil
}

// GrantFreeService вручную открывает клиенту бесплатную услугу, счетчик не меняется
func (s *Service) GrantFreeService(ctx context.Context, customerID uuid.UUID) (*domain.RewardAccount, error) {
	return s.mutate(ctx, "GrantFreeService", customerID, (*domain.RewardAccount).Grant)
}

// UseFreeService списывает бесплатную услугу и обнуляет счетчик
func (s *Service) UseFreeService(ctx context.Context, customerID uuid.UUID) (*domain.RewardAccount, error) {
	return s.mutate(ctx, "UseFreeService", customerID, (*domain.RewardAccount).Redeem)
}

func (s *Service) mutate(ctx context.Context, op string, customerID uuid.UUID, apply func(*domain.RewardAccount)) (*domain.RewardAccount, error) {
	s.logger.Info("%s: customer=%s", op, customerID)

	var result *domain.RewardAccount

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		account, err := s.lockAccount(txCtx, op, customerID)
		if err != nil {
			return err
		}

		apply(account)

		updated, err := s.rewardRepo.UpdateAccount(txCtx, account)
		if err != nil {
			s.logger.Error("%s: failed to update account of customer=%s: %v", op, customerID, err)
			return fmt.Errorf("%w: %s - update account: %v", ErrInternal, op, err)
		}

		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("%s: customer=%s, count=%d, free=%t",
		op, customerID, result.ServiceCount, result.FreeServiceAvailable)
	return result, nil
}

// GetStatus получает бонусный счет клиента
// Клиент видит только свой счет, администратор - любой
func (s *Service) GetStatus(ctx context.Context, actor domain.Actor, customerID uuid.UUID) (*domain.RewardAccount, error) {
	if !actor.CanAccess(domain.SomeCustomer(customerID)) {
		s.logger.Warn("GetStatus: user=%s has no access to account of customer=%s", actor.CustomerID, customerID)
		return nil, ErrAccessDenied
	}

	account, err := s.rewardRepo.GetAccount(ctx, customerID)
	if err != nil {
		if errors.Is(err, rewardRepo.ErrAccountNotFound) {
			s.logger.Warn("GetStatus: account of customer=%s not found", customerID)
			return nil, ErrAccountNotFound
		}
		s.logger.Error("GetStatus: repository error for customer=%s: %v", customerID, err)
		return nil, fmt.Errorf("%w: GetStatus - repository error: %v", ErrInternal, err)
	}

	return account, nil
}

// OpenAccount создает пустой бонусный счет клиента
// Повторный вызов возвращает существующий счет без изменений
func (s *Service) OpenAccount(ctx context.Context, customerID uuid.UUID) (*domain.RewardAccount, error) {
	if customerID == uuid.Nil {
		return nil, fmt.Errorf("%w: customer id is required", ErrInvalidInput)
	}

	account, err := s.rewardRepo.CreateAccount(ctx, customerID)
	if err != nil {
		s.logger.Error("OpenAccount: repository error for customer=%s: %v", customerID, err)
		return nil, fmt.Errorf("%w: OpenAccount - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("OpenAccount: account id=%d for customer=%s", account.ID, customerID)
	return account, nil
}

// ListAccounts получает все бонусные счета
func (s *Service) ListAccounts(ctx context.Context) ([]*domain.RewardAccount, error) {
	accounts, err := s.rewardRepo.ListAccounts(ctx)
	if err != nil {
		s.logger.Error("ListAccounts: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAccounts - repository error: %v", ErrInternal, err)
	}

	return accounts, nil
}

// GetPolicy получает текущее правило начисления
// Если правило не сохранено, возвращается значение по умолчанию
func (s *Service) GetPolicy(ctx context.Context) (*domain.RewardPolicy, error) {
	policy, err := s.rewardRepo.GetPolicy(ctx)
	if err != nil {
		if errors.Is(err, rewardRepo.ErrPolicyNotFound) {
			s.logger.Warn("GetPolicy: policy row is missing, using default %d", domain.DefaultServicesForReward)
			return &domain.RewardPolicy{ServicesForReward: domain.DefaultServicesForReward}, nil
		}
		s.logger.Error("GetPolicy: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetPolicy - repository error: %v", ErrInternal, err)
	}

	return policy, nil
}

// UpdatePolicy меняет порог начисления
// Уже накопленные счетчики не пересчитываются
func (s *Service) UpdatePolicy(ctx context.Context, servicesForReward int) (*domain.RewardPolicy, error) {
	policy := &domain.RewardPolicy{ServicesForReward: servicesForReward}
	if err := policy.Validate(); err != nil {
		s.logger.Warn("UpdatePolicy: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	updated, err := s.rewardRepo.UpdatePolicy(ctx, policy)
	if err != nil {
		s.logger.Error("UpdatePolicy: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdatePolicy - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdatePolicy: services for reward set to %d", updated.ServicesForReward)
	return updated, nil
}

func (s *Service) lockAccount(ctx context.Context, op string, customerID uuid.UUID) (*domain.RewardAccount, error) {
	account, err := s.rewardRepo.GetAccountForUpdate(ctx, customerID)
	if err != nil {
		if errors.Is(err, rewardRepo.ErrAccountNotFound) {
			s.logger.Warn("%s: account of customer=%s not found", op, customerID)
			return nil, ErrAccountNotFound
		}
		s.logger.Error("%s: failed to get account of customer=%s: %v", op, customerID, err)
		return nil, fmt.Errorf("%w: %s - get account: %v", ErrInternal, op, err)
	}
	return account, nil
}

func (s *Service) threshold(ctx context.Context) (int, error) {
	policy, err := s.GetPolicy(ctx)
	if err != nil {
		return 0, err
	}
	return policy.ServicesForReward, nil
}
