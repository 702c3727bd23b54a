package get_reward_policy

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

type Handler struct {
	service RewardService
	logger  Logger
}

func NewHandler(service RewardService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/reward-policy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	policy, err := h.service.GetPolicy(r.Context())
	if err != nil {
		h.logger.Error("GET /reward-policy - Failed to get policy: %v", err)
		handlers.RespondDomainError(w, err, "")
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainRewardPolicy(policy))
}
