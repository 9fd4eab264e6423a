package get_scheduling_analytics

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("get_scheduling_analytics: invalid input data: %w", domain.ErrValidation)

	// ErrScheduleNotFound contractor has no schedule configuration
	ErrScheduleNotFound = fmt.Errorf("get_scheduling_analytics: schedule not found: %w", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_scheduling_analytics: internal error")
)
