package list_appointments

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
)

const (
	msgUnauthorized       = "требуется авторизация"
	msgInvalidCustomerID  = "некорректный ID клиента"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidExcludeFlag = "параметр excludeCancelled должен быть true или false"
	msgForbidden          = "можно просматривать только свои записи"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments
// Query params: customerId (только администратор), date, excludeCancelled
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	query := r.URL.Query()
	var req appointments.ListRequest

	if raw := query.Get("customerId"); raw != "" {
		customerID, err := uuid.Parse(raw)
		if err != nil {
			h.logger.Warn("GET /appointments - Invalid customer ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidCustomerID)
			return
		}
		req.CustomerID = &customerID
	}

	if raw := query.Get("date"); raw != "" {
		date, err := handlers.ParseDate(raw)
		if err != nil {
			h.logger.Warn("GET /appointments - Invalid date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.Date = &date
	}

	if raw := query.Get("excludeCancelled"); raw != "" {
		exclude, err := strconv.ParseBool(raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidExcludeFlag)
			return
		}
		req.ExcludeCancelled = exclude
	}

	items, err := h.service.List(r.Context(), identity.Actor(), req)
	if err != nil {
		h.logger.Warn("GET /appointments - Failed to list appointments: user=%s, error=%v", identity.ID, err)
		handlers.RespondDomainError(w, err, msgForbidden)
		return
	}

	h.logger.Info("GET /appointments - Listed %d appointments for user=%s", len(items), identity.ID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainAppointments(items))
}
