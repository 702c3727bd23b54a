package create_appointment

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidDate           = "некорректный формат даты записи, ожидается YYYY-MM-DD"
	msgInvalidTime           = "некорректный формат времени начала, ожидается HH:MM:SS"
	msgInvalidIdempotencyKey = "заголовок Idempotency-Key должен быть UUID"
	msgInvalidInput          = "некорректные данные записи"
	msgServiceNotFound       = "услуга не найдена в каталоге"
	msgSlotInPast            = "нельзя записаться на прошедшее время"
	msgSlotNotOffered        = "в расписании нет такого слота"
	msgSlotNotAvailable      = "выбранный временной слот уже занят"
	msgIdempotencyKeyReused  = "Idempotency-Key уже использован для другой записи"
)

const headerIdempotencyKey = "Idempotency-Key"

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
// Токен необязателен; без него запись создается как гостевая
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var idempotencyKey *uuid.UUID
	if raw := strings.TrimSpace(r.Header.Get(headerIdempotencyKey)); raw != "" {
		key, err := uuid.Parse(raw)
		if err != nil {
			h.logger.Warn("POST /appointments - Invalid idempotency key: %v", err)
			handlers.RespondBadRequest(w, msgInvalidIdempotencyKey)
			return
		}
		idempotencyKey = &key
	}

	var identity *middleware.Identity
	if id, ok := middleware.IdentityFromContext(r.Context()); ok {
		identity = &id
	}

	useCaseReq, err := req.ToUseCaseRequest(identity, idempotencyKey)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments - Slot not available: date=%s, time=%s", req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createAppointment.ErrIdempotencyKeyReused):
			h.logger.Warn("POST /appointments - Idempotency key reused with different data: %v", err)
			handlers.RespondBadRequest(w, msgIdempotencyKeyReused)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: services=%v", req.ServiceIDs)
			handlers.RespondBadRequest(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrSlotInPast):
			h.logger.Warn("POST /appointments - Slot in the past: date=%s, time=%s", req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgSlotInPast)

		case errors.Is(err, createAppointment.ErrSlotNotOffered):
			h.logger.Warn("POST /appointments - Slot not offered: date=%s, time=%s", req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgSlotNotOffered)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: date=%s, time=%s, error=%v",
				req.Date, req.StartTime, err)
			handlers.RespondDomainError(w, err, "")
		}
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%d, customer=%s, replayed=%t",
		result.Appointment.ID, result.Appointment.Customer, result.Replayed)
	handlers.RespondJSON(w, status, handlers.FromDomainAppointment(result.Appointment))
}
