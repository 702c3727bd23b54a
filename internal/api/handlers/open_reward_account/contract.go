package open_reward_account

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type RewardService interface {
	OpenAccount(ctx context.Context, customerID uuid.UUID) (*domain.RewardAccount, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
