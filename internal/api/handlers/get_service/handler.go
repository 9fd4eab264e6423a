package get_service

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedule"
)

const (
	msgInvalidID = "некорректный ID подрядчика или услуги"
	msgNotFound  = "услуга не найдена"
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

// Handle GET /api/v1/contractors/{contractorId}/services/{serviceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	contractorID, errContractor := handlers.PathID(r, "contractorId")
	serviceID, errService := handlers.PathID(r, "serviceId")
	if errContractor != nil || errService != nil {
		h.logger.Warn("GET /services/{id} - Invalid path: %v", errors.Join(errContractor, errService))
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	service, err := h.service.GetService(r.Context(), contractorID, serviceID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrServiceNotFound):
			h.logger.Warn("GET /services/{id} - Service not found: contractor_id=%d, service_id=%d", contractorID, serviceID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /services/{id} - Failed to get service: service_id=%d, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{id} - Service retrieved: contractor_id=%d, service_id=%d", contractorID, serviceID)
	handlers.RespondJSON(w, http.StatusOK, service)
}
