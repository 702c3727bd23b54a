package list_schedule

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
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

// Handle GET /api/v1/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	templates, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("GET /schedule - Failed to list schedule: %v", err)
		handlers.RespondDomainError(w, err, "")
		return
	}

	result := make([]handlers.SlotTemplateResponse, 0, len(templates))
	for _, t := range templates {
		result = append(result, handlers.FromDomainSlotTemplate(t))
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
