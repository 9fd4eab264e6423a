package create_appointment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	ContractorID  int64
	ClientID      *int64
	ServiceID     int64
	Date          time.Time         // calendar day in the contractor's timezone
	StartTime     types.TimeString  // HH:MM
	EndTime       *types.TimeString // overrides the service duration
	DepositAmount *decimal.Decimal
	Notes         *string
}

// Response модель ответа
type Response struct {
	Appointment *domain.Appointment
}
