package get_scheduling_analytics

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	getAnalytics "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_scheduling_analytics"
)

const (
	msgInvalidContractorID = "некорректный ID подрядчика"
	msgInvalidRange        = "некорректный период, ожидаются start и end в формате YYYY-MM-DD"
)

type Handler struct {
	useCase GetAnalyticsUseCase
	logger  Logger
}

func NewHandler(useCase GetAnalyticsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/contractors/{contractorId}/analytics?start=&end=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	contractorID, err := handlers.PathID(r, "contractorId")
	if err != nil {
		h.logger.Warn("GET /analytics - %v", err)
		handlers.RespondBadRequest(w, msgInvalidContractorID)
		return
	}

	query := r.URL.Query()
	start, errStart := handlers.ParseDate(query.Get("start"))
	end, errEnd := handlers.ParseDate(query.Get("end"))
	if errStart != nil || errEnd != nil {
		h.logger.Warn("GET /analytics - Invalid range: contractor_id=%d, start=%q, end=%q",
			contractorID, query.Get("start"), query.Get("end"))
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAnalytics.Request{
		ContractorID: contractorID,
		Start:        start,
		End:          end,
	})
	if err != nil {
		if handlers.IsClientError(err) {
			h.logger.Warn("GET /analytics - Rejected: contractor_id=%d, error=%v", contractorID, err)
			handlers.RespondDomainError(w, err)
			return
		}
		h.logger.Error("GET /analytics - Failed to aggregate: contractor_id=%d, error=%v", contractorID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /analytics - Analytics calculated: contractor_id=%d, total=%d",
		contractorID, result.Result.TotalBookings)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
