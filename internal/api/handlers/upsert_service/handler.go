package upsert_service

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedule"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedule/models"
)

const (
	msgInvalidID          = "некорректный ID подрядчика или услуги"
	msgInvalidRequestBody = "некорректное тело запроса"
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

// Handle PUT /api/v1/contractors/{contractorId}/services/{serviceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	contractorID, errContractor := handlers.PathID(r, "contractorId")
	serviceID, errService := handlers.PathID(r, "serviceId")
	if errContractor != nil || errService != nil {
		h.logger.Warn("PUT /services/{id} - Invalid path: %v", errors.Join(errContractor, errService))
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req models.ServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /services/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	service, err := h.service.UpsertService(r.Context(), contractorID, serviceID, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrServiceOwnership):
			h.logger.Warn("PUT /services/{id} - Service owned by another contractor: contractor_id=%d, service_id=%d",
				contractorID, serviceID)
			handlers.RespondDomainError(w, err)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /services/{id} - Invalid service: service_id=%d, error=%v", serviceID, err)
			handlers.RespondDomainError(w, err)

		default:
			h.logger.Error("PUT /services/{id} - Failed to save service: service_id=%d, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /services/{id} - Service saved: contractor_id=%d, service_id=%d", contractorID, serviceID)
	handlers.RespondJSON(w, http.StatusOK, service)
}
