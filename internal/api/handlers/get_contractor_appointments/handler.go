package get_contractor_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
)

const (
	msgInvalidContractorID = "некорректный ID подрядчика"
	msgInvalidParams       = "некорректные параметры запроса"
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

// Handle GET /api/v1/contractors/{contractorId}/appointments
// Query params: from, to, status (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	contractorID, err := handlers.PathID(r, "contractorId")
	if err != nil {
		h.logger.Warn("GET /contractors/{id}/appointments - %v", err)
		handlers.RespondBadRequest(w, msgInvalidContractorID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(contractorID, query.Get("from"), query.Get("to"), query.Get("status"))
	if err != nil {
		h.logger.Warn("GET /contractors/{id}/appointments - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListByContractor(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /contractors/{id}/appointments - Invalid input: contractor_id=%d, error=%v",
				contractorID, err)
			handlers.RespondDomainError(w, err)

		default:
			h.logger.Error("GET /contractors/{id}/appointments - Failed to list appointments: contractor_id=%d, error=%v",
				contractorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /contractors/{id}/appointments - Appointments retrieved: contractor_id=%d, count=%d",
		contractorID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
