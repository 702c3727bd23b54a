package upsert_schedule_slot

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidSlot        = "некорректный слот: день недели 0-6, время HH:MM:SS, начало раньше конца"
	msgNotFound           = "слот расписания не найден"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/schedule и PUT /api/v1/schedule/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var id int64
	if _, ok := mux.Vars(r)["id"]; ok {
		parsed, err := handlers.PathInt64(r, "id")
		if err != nil {
			h.logger.Warn("PUT /schedule/{id} - Invalid slot ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSlotID)
			return
		}
		id = parsed
	}

	var req SlotTemplateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s /schedule - Invalid request body: %v", r.Method, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	template, err := req.ToDomain(id)
	if err != nil {
		h.logger.Warn("%s /schedule - Invalid slot: %v", r.Method, err)
		handlers.RespondBadRequest(w, msgInvalidSlot)
		return
	}

	saved, err := h.service.Upsert(r.Context(), template)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrSlotNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("%s /schedule - Validation failed: %v", r.Method, err)
			handlers.RespondBadRequest(w, msgInvalidSlot)
		default:
			h.logger.Error("%s /schedule - Failed to save slot: %v", r.Method, err)
			handlers.RespondDomainError(w, err, "")
		}
		return
	}

	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}

	h.logger.Info("%s /schedule - Slot saved: id=%d, day=%d, %s-%s", r.Method, saved.ID, saved.DayOfWeek, saved.StartTime, saved.EndTime)
	handlers.RespondJSON(w, status, handlers.FromDomainSlotTemplate(saved))
}
