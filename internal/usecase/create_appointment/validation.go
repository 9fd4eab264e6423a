package create_appointment

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ContractorID <= 0 {
		return fmt.Errorf("%w: contractorID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.ClientID != nil && *req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}

	if req.EndTime != nil {
		if err := req.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: endTime: %v", ErrInvalidInput, err)
		}
		if !req.StartTime.IsBefore(*req.EndTime) {
			return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
		}
	}

	if req.DepositAmount != nil && req.DepositAmount.IsNegative() {
		return fmt.Errorf("%w: deposit must not be negative", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validatePolicy проверяет окно записи против настроек расписания
func validatePolicy(cfg *domain.ScheduleConfig, slot domain.Interval, day, now time.Time) error {
	if !cfg.IsAcceptingBookings {
		return ErrNotAcceptingBookings
	}

	if !cfg.MeetsMinimumNotice(slot.Start, now) {
		return fmt.Errorf("%w: at least %d hours are required", ErrInsufficientNotice, cfg.MinimumNoticeHours)
	}

	loc := slot.Start.Location()
	if !cfg.WithinAdvanceWindow(day, now, loc) {
		return fmt.Errorf("%w: at most %d days ahead", ErrBeyondAdvanceWindow, cfg.AdvanceBookingDays)
	}

	if cfg.IsBlackedOut(day) {
		return fmt.Errorf("%w: %s is a blackout date", ErrTimeUnavailable, day.Format(domain.DateFormat))
	}

	window, open, err := cfg.WorkingWindow(day, loc)
	if err != nil {
		return fmt.Errorf("%w: working hours: %v", ErrInternal, err)
	}
	if !open {
		return fmt.Errorf("%w: %s is a day off", ErrOutsideWorkingHours, day.Weekday())
	}
	if !window.Contains(slot) {
		return fmt.Errorf("%w: %s-%s", ErrOutsideWorkingHours,
			window.Start.Format(domain.TimeFormat), window.End.Format(domain.TimeFormat))
	}

	if cfg.HitsUnavailableWindow(slot, loc) {
		return fmt.Errorf("%w: overlaps a recurring break", ErrTimeUnavailable)
	}

	return nil
}

// resolveDeposit returns the deposit to store for a booking of total.
// Config percentage and service fixed amount both apply, the larger one wins.
func resolveDeposit(cfg *domain.ScheduleConfig, svc *domain.ScheduleService, total decimal.Decimal, supplied *decimal.Decimal) (*decimal.Decimal, error) {
	required := cfg.RequiredDeposit(total)
	if svc.DepositRequired && svc.DepositAmount != nil && svc.DepositAmount.GreaterThan(required) {
		required = *svc.DepositAmount
	}

	if supplied != nil && supplied.GreaterThan(total) {
		return nil, fmt.Errorf("%w: deposit %s exceeds total %s", ErrDepositInconsistent, supplied, total)
	}

	if !required.IsPositive() {
		if supplied == nil || supplied.IsZero() {
			return nil, nil
		}
		return supplied, nil
	}

	if supplied == nil || supplied.IsZero() {
		return nil, fmt.Errorf("%w: %s", ErrDepositRequired, required)
	}
	if supplied.LessThan(required) {
		return nil, fmt.Errorf("%w: deposit %s is below required %s", ErrDepositInconsistent, supplied, required)
	}

	return supplied, nil
}
