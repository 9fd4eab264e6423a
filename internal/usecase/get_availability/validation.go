package get_availability

import (
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ContractorID <= 0 {
		return fmt.Errorf("%w: contractorID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.SlotMinutes != nil && (*req.SlotMinutes < domain.MinSlotMinutes || *req.SlotMinutes > domain.MaxSlotMinutes) {
		return fmt.Errorf("%w: slotMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotMinutes, domain.MaxSlotMinutes)
	}

	return nil
}
