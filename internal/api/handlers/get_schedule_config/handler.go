package get_schedule_config

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedule"
)

const (
	msgInvalidContractorID = "некорректный ID подрядчика"
	msgNotFound            = "конфигурация расписания не найдена"
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

// Handle GET /api/v1/contractors/{contractorId}/schedule-config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	contractorID, err := handlers.PathID(r, "contractorId")
	if err != nil {
		h.logger.Warn("GET /schedule-config - %v", err)
		handlers.RespondBadRequest(w, msgInvalidContractorID)
		return
	}

	config, err := h.service.GetConfig(r.Context(), contractorID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrConfigNotFound):
			h.logger.Warn("GET /schedule-config - Config not found: contractor_id=%d", contractorID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /schedule-config - Failed to get config: contractor_id=%d, error=%v", contractorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /schedule-config - Config retrieved: contractor_id=%d", contractorID)
	handlers.RespondJSON(w, http.StatusOK, config)
}
