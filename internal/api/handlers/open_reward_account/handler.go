package open_reward_account

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const msgUnauthorized = "требуется авторизация"

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

// Handle POST /api/v1/rewards/me
// Повторный вызов возвращает существующий счет
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	account, err := h.service.OpenAccount(r.Context(), identity.ID)
	if err != nil {
		h.logger.Error("POST /rewards/me - Failed to open account: customer=%s, error=%v", identity.ID, err)
		handlers.RespondDomainError(w, err, "")
		return
	}

	h.logger.Info("POST /rewards/me - Account opened: customer=%s", identity.ID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainRewardAccount(account))
}
