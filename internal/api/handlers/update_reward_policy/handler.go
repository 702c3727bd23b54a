package update_reward_policy

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingThreshold   = "servicesForReward обязателен"
	msgInvalidThreshold   = "servicesForReward должен быть не меньше 1"
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

// Handle PUT /api/v1/reward-policy
// Новый порог применяется к следующим начислениям, текущие счета не пересчитываются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req UpdatePolicyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /reward-policy - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.ServicesForReward == nil {
		handlers.RespondBadRequest(w, msgMissingThreshold)
		return
	}

	policy, err := h.service.UpdatePolicy(r.Context(), *req.ServicesForReward)
	if err != nil {
		h.logger.Warn("PUT /reward-policy - Failed to update policy: threshold=%d, error=%v", *req.ServicesForReward, err)
		handlers.RespondDomainError(w, err, msgInvalidThreshold)
		return
	}

	h.logger.Info("PUT /reward-policy - Policy updated: threshold=%d", policy.ServicesForReward)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainRewardPolicy(policy))
}
