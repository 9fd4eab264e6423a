package get_availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrScheduleNotFound contractor has no schedule configuration
	ErrScheduleNotFound = fmt.Errorf("get_availability: schedule not found: %w", domain.ErrNotFound)

	// ErrServiceNotFound service does not exist, is inactive or belongs to another contractor
	ErrServiceNotFound = fmt.Errorf("get_availability: service not found: %w", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("get_availability: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
