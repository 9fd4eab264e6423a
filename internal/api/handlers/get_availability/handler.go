package get_availability

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_availability"
)

const (
	msgInvalidContractorID = "некорректный ID подрядчика"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidServiceID    = "некорректный ID услуги"
	msgInvalidSlotMinutes  = "некорректная длительность слота"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/contractors/{contractorId}/availability?date=YYYY-MM-DD&serviceId=&slotMinutes=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	contractorID, err := handlers.PathID(r, "contractorId")
	if err != nil {
		h.logger.Warn("GET /availability - %v", err)
		handlers.RespondBadRequest(w, msgInvalidContractorID)
		return
	}

	query := r.URL.Query()

	date, err := handlers.ParseDate(query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /availability - Invalid date: contractor_id=%d, date=%q", contractorID, query.Get("date"))
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	req := &getAvailability.Request{
		ContractorID: contractorID,
		Date:         date,
	}

	if raw := query.Get("serviceId"); raw != "" {
		serviceID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /availability - Invalid service_id=%q", raw)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		req.ServiceID = &serviceID
	}

	if raw := query.Get("slotMinutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			h.logger.Warn("GET /availability - Invalid slot_minutes=%q", raw)
			handlers.RespondBadRequest(w, msgInvalidSlotMinutes)
			return
		}
		req.SlotMinutes = &minutes
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		if handlers.IsClientError(err) {
			h.logger.Warn("GET /availability - Rejected: contractor_id=%d, error=%v", contractorID, err)
			handlers.RespondDomainError(w, err)
			return
		}
		h.logger.Error("GET /availability - Failed to get availability: contractor_id=%d, error=%v", contractorID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /availability - Availability calculated: contractor_id=%d, date=%s, slots=%d",
		contractorID, query.Get("date"), len(result.TimeSlots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
