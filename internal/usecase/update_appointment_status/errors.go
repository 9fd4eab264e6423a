package update_appointment_status

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("update_appointment_status: invalid input data: %w", domain.ErrValidation)

	// ErrAppointmentNotFound запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("update_appointment_status: appointment not found: %w", domain.ErrNotFound)

	// ErrScheduleNotFound contractor has no schedule configuration
	ErrScheduleNotFound = fmt.Errorf("update_appointment_status: schedule not found: %w", domain.ErrNotFound)

	// ErrInvalidTransition edge is not part of the state machine
	ErrInvalidTransition = fmt.Errorf("update_appointment_status: %w", domain.ErrInvalidTransition)

	// ErrCancellationNotAllowed contractor disabled cancellations
	ErrCancellationNotAllowed = fmt.Errorf("update_appointment_status: %w", domain.ErrCancellationNotAllowed)

	// ErrStatusChanged status was changed by a concurrent request
	ErrStatusChanged = fmt.Errorf("update_appointment_status: status changed concurrently: %w", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_appointment_status: internal error")
)
