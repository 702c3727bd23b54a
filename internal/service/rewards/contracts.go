package rewards

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// RewardRepository интерфейс репозитория бонусов
type RewardRepository interface {
	CreateAccount(ctx context.Context, customerID uuid.UUID) (*domain.RewardAccount, error)
	GetAccount(ctx context.Context, customerID uuid.UUID) (*domain.RewardAccount, error)
	GetAccountForUpdate(ctx context.Context, customerID uuid.UUID) (*domain.RewardAccount, error)
	UpdateAccount(ctx context.Context, account *domain.RewardAccount) (*domain.RewardAccount, error)
	ListAccounts(ctx context.Context) ([]*domain.RewardAccount, error)
	GetPolicy(ctx context.Context) (*domain.RewardPolicy, error)
	UpdatePolicy(ctx context.Context, policy *domain.RewardPolicy) (*domain.RewardPolicy, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс бизнес-метрик
type Metrics interface {
	IncRewardsUnlocked()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
