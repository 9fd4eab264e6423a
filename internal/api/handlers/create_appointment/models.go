package create_appointment

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	createAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// CreateAppointmentRequest HTTP запрос на создание записи
type CreateAppointmentRequest struct {
	ContractorID    int64            `json:"contractorId"`
	ClientID        *int64           `json:"clientId,omitempty"`
	ServiceID       int64            `json:"serviceId"`
	AppointmentDate string           `json:"appointmentDate"` // "2025-10-15"
	StartTime       string           `json:"startTime"`       // "10:00"
	EndTime         *string          `json:"endTime,omitempty"`
	DepositAmount   *decimal.Decimal `json:"depositAmount,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest() (*createAppointment.Request, error) {
	date, err := handlers.ParseDate(r.AppointmentDate)
	if err != nil {
		return nil, fmt.Errorf("appointmentDate: %w", err)
	}

	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}

	req := &createAppointment.Request{
		ContractorID:  r.ContractorID,
		ClientID:      r.ClientID,
		ServiceID:     r.ServiceID,
		Date:          date,
		StartTime:     start,
		DepositAmount: r.DepositAmount,
		Notes:         r.Notes,
	}

	if r.EndTime != nil {
		end, err := types.NewTimeStringFromString(*r.EndTime)
		if err != nil {
			return nil, fmt.Errorf("endTime: %w", err)
		}
		req.EndTime = &end
	}

	return req, nil
}
