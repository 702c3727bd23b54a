package grant_free_service

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/rewards"
)

const (
	msgInvalidCustomerID = "некорректный ID клиента"
	msgNotFound          = "бонусный счет не найден"
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

// Handle POST /api/v1/rewards/{customerId}/grant
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, err := handlers.PathUUID(r, "customerId")
	if err != nil {
		h.logger.Warn("POST /rewards/{customerId}/grant - Invalid customer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCustomerID)
		return
	}

	account, err := h.service.GrantFreeService(r.Context(), customerID)
	if err != nil {
		if errors.Is(err, rewards.ErrAccountNotFound) {
			h.logger.Warn("POST /rewards/{customerId}/grant - Account not found: customer=%s", customerID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("POST /rewards/{customerId}/grant - Failed: customer=%s, error=%v", customerID, err)
		handlers.RespondDomainError(w, err, "")
		return
	}

	h.logger.Info("POST /rewards/{customerId}/grant - Free service granted: customer=%s", customerID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainRewardAccount(account))
}
