package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleService bookable offering of a contractor
type ScheduleService struct {
	ID                 int64
	ContractorID       int64
	Name               string
	Category           string
	DurationMinutes    int
	Price              decimal.Decimal
	DepositRequired    bool
	DepositAmount      *decimal.Decimal
	PreparationMinutes int
	CleanupMinutes     int
	IsActive           bool

	SyncState

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the service invariants
func (s *ScheduleService) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: service name is required", ErrValidation)
	}
	if s.DurationMinutes < MinSlotMinutes || s.DurationMinutes > MaxSlotMinutes {
		return fmt.Errorf("%w: duration must be between %d and %d minutes", ErrValidation, MinSlotMinutes, MaxSlotMinutes)
	}
	if s.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if s.PreparationMinutes < 0 || s.CleanupMinutes < 0 {
		return fmt.Errorf("%w: preparation and cleanup time must not be negative", ErrValidation)
	}
	if s.DepositAmount != nil {
		if s.DepositAmount.IsNegative() {
			return fmt.Errorf("%w: deposit amount must not be negative", ErrValidation)
		}
		if s.DepositAmount.GreaterThan(s.Price) {
			return fmt.Errorf("%w: deposit amount exceeds price", ErrValidation)
		}
	}
	if s.DepositRequired && s.DepositAmount == nil {
		return fmt.Errorf("%w: deposit amount is required when deposit is required", ErrValidation)
	}
	return nil
}
