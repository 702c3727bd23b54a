package delete_schedule_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
)

const (
	msgInvalidSlotID = "некорректный ID слота"
	msgNotFound      = "слот расписания не найден"
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

// Handle DELETE /api/v1/schedule/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("DELETE /schedule/{id} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	if err := h.service.Remove(r.Context(), id); err != nil {
		if errors.Is(err, schedule.ErrSlotNotFound) {
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("DELETE /schedule/{id} - Failed to remove slot id=%d: %v", id, err)
		handlers.RespondDomainError(w, err, "")
		return
	}

	h.logger.Info("DELETE /schedule/{id} - Slot removed: id=%d", id)
	w.WriteHeader(http.StatusNoContent)
}
