package get_scheduling_analytics

import (
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ContractorID <= 0 {
		return fmt.Errorf("%w: contractorID must be positive", ErrInvalidInput)
	}

	if req.Start.IsZero() || req.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}

	days := domain.DaysBetween(req.Start, req.End)
	if days < 0 {
		return fmt.Errorf("%w: start must not be after end", ErrInvalidInput)
	}
	if days > domain.MaxAnalyticsRangeDays {
		return fmt.Errorf("%w: range must be at most %d days", ErrInvalidInput, domain.MaxAnalyticsRangeDays)
	}

	return nil
}
