package update_schedule_config

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedule"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedule/models"
)

const (
	msgInvalidContractorID = "некорректный ID подрядчика"
	msgInvalidRequestBody  = "некорректное тело запроса"
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

// Handle PUT /api/v1/contractors/{contractorId}/schedule-config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	contractorID, err := handlers.PathID(r, "contractorId")
	if err != nil {
		h.logger.Warn("PUT /schedule-config - %v", err)
		handlers.RespondBadRequest(w, msgInvalidContractorID)
		return
	}

	var req models.ScheduleConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /schedule-config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	config, err := h.service.UpsertConfig(r.Context(), contractorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /schedule-config - Invalid config: contractor_id=%d, error=%v", contractorID, err)
			handlers.RespondDomainError(w, err)

		default:
			h.logger.Error("PUT /schedule-config - Failed to save config: contractor_id=%d, error=%v", contractorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /schedule-config - Config saved: contractor_id=%d, config_id=%d", contractorID, config.ID)
	handlers.RespondJSON(w, http.StatusOK, config)
}
