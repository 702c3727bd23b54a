package list_reward_accounts

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type RewardService interface {
	ListAccounts(ctx context.Context) ([]*domain.RewardAccount, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
