package get_contractor_appointments

import (
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

// ToServiceRequest собирает запрос к сервису из query параметров
func ToServiceRequest(contractorID int64, fromStr, toStr, statusStr string) (*models.ListAppointmentsRequest, error) {
	req := &models.ListAppointmentsRequest{ContractorID: contractorID}

	if fromStr != "" {
		from, err := handlers.ParseDateOrTime(fromStr)
		if err != nil {
			return nil, fmt.Errorf("from: %w", err)
		}
		req.From = &from
	}

	if toStr != "" {
		to, err := handlers.ParseDateOrTime(toStr)
		if err != nil {
			return nil, fmt.Errorf("to: %w", err)
		}
		req.To = &to
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	return req, nil
}
