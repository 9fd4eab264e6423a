package create_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("create_appointment: invalid input data: %w", domain.ErrValidation)

	// ErrScheduleNotFound contractor has no schedule configuration
	ErrScheduleNotFound = fmt.Errorf("create_appointment: schedule not found: %w", domain.ErrNotFound)

	// ErrServiceNotFound service does not exist, is inactive or belongs to another contractor
	ErrServiceNotFound = fmt.Errorf("create_appointment: service not found: %w", domain.ErrNotFound)

	// ErrNotAcceptingBookings contractor switched bookings off
	ErrNotAcceptingBookings = fmt.Errorf("create_appointment: contractor is not accepting bookings: %w", domain.ErrPolicyViolation)

	// ErrInsufficientNotice start is closer than minimumNoticeHours
	ErrInsufficientNotice = fmt.Errorf("create_appointment: insufficient notice: %w", domain.ErrPolicyViolation)

	// ErrBeyondAdvanceWindow date is further than advanceBookingDays
	ErrBeyondAdvanceWindow = fmt.Errorf("create_appointment: date is beyond the advance booking window: %w", domain.ErrPolicyViolation)

	// ErrOutsideWorkingHours window is not inside the working hours of the day
	ErrOutsideWorkingHours = fmt.Errorf("create_appointment: outside working hours: %w", domain.ErrPolicyViolation)

	// ErrTimeUnavailable blackout date or recurring unavailable window
	ErrTimeUnavailable = fmt.Errorf("create_appointment: time is unavailable: %w", domain.ErrPolicyViolation)

	// ErrDepositRequired deposit is required but missing
	ErrDepositRequired = fmt.Errorf("create_appointment: deposit is required: %w", domain.ErrPolicyViolation)

	// ErrDepositInconsistent deposit below the required amount or above the total price
	ErrDepositInconsistent = fmt.Errorf("create_appointment: deposit is inconsistent with total price: %w", domain.ErrPolicyViolation)

	// ErrSlotConflict window is taken by another active appointment
	ErrSlotConflict = fmt.Errorf("create_appointment: requested time is no longer available: %w", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
