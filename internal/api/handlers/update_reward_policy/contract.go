package update_reward_policy

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type RewardService interface {
	UpdatePolicy(ctx context.Context, servicesForReward int) (*domain.RewardPolicy, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
