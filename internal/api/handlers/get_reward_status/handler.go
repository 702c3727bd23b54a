package get_reward_status

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/rewards"
)

const (
	msgUnauthorized      = "требуется авторизация"
	msgInvalidCustomerID = "некорректный ID клиента"
	msgNotFound          = "бонусный счет не найден"
	msgForbidden         = "доступ запрещен"
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

// Handle GET /api/v1/rewards/me и GET /api/v1/rewards/{customerId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	customerID := identity.ID
	if _, ok := mux.Vars(r)["customerId"]; ok {
		id, err := handlers.PathUUID(r, "customerId")
		if err != nil {
			h.logger.Warn("GET /rewards/{customerId} - Invalid customer ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidCustomerID)
			return
		}
		customerID = id
	}

	account, err := h.service.GetStatus(r.Context(), identity.Actor(), customerID)
	if err != nil {
		switch {
		case errors.Is(err, rewards.ErrAccountNotFound):
			h.logger.Warn("GET /rewards - Account not found: customer=%s", customerID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rewards.ErrAccessDenied):
			h.logger.Warn("GET /rewards - Access denied: customer=%s, user=%s", customerID, identity.ID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /rewards - Failed to get status: customer=%s, error=%v", customerID, err)
			handlers.RespondDomainError(w, err, "")
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainRewardAccount(account))
}
