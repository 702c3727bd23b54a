package list_reward_accounts

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

// Handle GET /api/v1/rewards
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListAccounts(r.Context())
	if err != nil {
		h.logger.Error("GET /rewards - Failed to list accounts: %v", err)
		handlers.RespondDomainError(w, err, "")
		return
	}

	result := make([]handlers.RewardAccountResponse, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, handlers.FromDomainRewardAccount(a))
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
