package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

var hundred = decimal.NewFromInt(100)

// RefundPolicy what happens to the deposit on a timely cancellation
type RefundPolicy string

const (
	RefundFull     RefundPolicy = "FULL"
	RefundPartial  RefundPolicy = "PARTIAL"
	RefundNoRefund RefundPolicy = "NO_REFUND"
)

func (p RefundPolicy) Valid() bool {
	return p == RefundFull || p == RefundPartial || p == RefundNoRefund
}

// DaySchedule working hours of one weekday, half-open [Start, End)
type DaySchedule struct {
	Start   types.TimeString `json:"start"`
	End     types.TimeString `json:"end"`
	Enabled bool             `json:"enabled"`
}

// WorkingHours keyed by lowercase weekday name ("monday")
type WorkingHours map[string]DaySchedule

// CancellationPolicy contractor rules for client cancellations
type CancellationPolicy struct {
	AllowCancellation         bool             `json:"allowCancellation"`
	CancellationDeadlineHours int              `json:"cancellationDeadlineHours"`
	RefundPolicy              RefundPolicy     `json:"refundPolicy"`
	PartialRefundPercentage   *decimal.Decimal `json:"partialRefundPercentage,omitempty"`
}

// UnavailableWindow recurring weekly break
type UnavailableWindow struct {
	Weekday string           `json:"weekday"`
	Start   types.TimeString `json:"start"`
	End     types.TimeString `json:"end"`
}

// ScheduleConfig contractor's booking configuration
type ScheduleConfig struct {
	ID                  int64
	ContractorID        int64
	Timezone            string
	WorkingHours        WorkingHours
	BufferMinutes       int
	AdvanceBookingDays  int // 0 = unlimited
	MinimumNoticeHours  int
	IsAcceptingBookings bool
	AutoConfirmBookings bool
	RequiresDeposit     bool
	DepositPercentage   decimal.Decimal
	CancellationPolicy  CancellationPolicy
	BlackoutDates       []string // YYYY-MM-DD
	UnavailableWindows  []UnavailableWindow

	SyncState

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WeekdayKey key of WorkingHours for the weekday
func WeekdayKey(d time.Weekday) string {
	return strings.ToLower(d.String())
}

func validWeekdayKey(key string) bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if WeekdayKey(d) == key {
			return true
		}
	}
	return false
}

// Location contractor's timezone, UTC when unset
func (c *ScheduleConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", ErrValidation, c.Timezone)
	}
	return loc, nil
}

// WorkingWindow working hours on the calendar day of date, ok=false if the day is off
func (c *ScheduleConfig) WorkingWindow(date time.Time, loc *time.Location) (Interval, bool, error) {
	day, found := c.WorkingHours[WeekdayKey(date.Weekday())]
	if !found || !day.Enabled {
		return Interval{}, false, nil
	}
	start, err := day.Start.On(date, loc)
	if err != nil {
		return Interval{}, false, err
	}
	end, err := day.End.On(date, loc)
	if err != nil {
		return Interval{}, false, err
	}
	return Interval{Start: start, End: end}, true, nil
}

// WithinAdvanceWindow date is at most AdvanceBookingDays calendar days after today (inclusive)
func (c *ScheduleConfig) WithinAdvanceWindow(date, now time.Time, loc *time.Location) bool {
	if c.AdvanceBookingDays <= 0 {
		return true
	}
	return DaysBetween(now.In(loc), date) <= c.AdvanceBookingDays
}

// MeetsMinimumNotice start is at least MinimumNoticeHours after now
func (c *ScheduleConfig) MeetsMinimumNotice(start, now time.Time) bool {
	earliest := now.Add(time.Duration(c.MinimumNoticeHours) * time.Hour)
	return !start.Before(earliest)
}

// IsBlackedOut date is listed in BlackoutDates
func (c *ScheduleConfig) IsBlackedOut(date time.Time) bool {
	key := date.Format(DateFormat)
	for _, d := range c.BlackoutDates {
		if d == key {
			return true
		}
	}
	return false
}

// HitsUnavailableWindow slot overlaps one of the recurring breaks of its weekday
func (c *ScheduleConfig) HitsUnavailableWindow(slot Interval, loc *time.Location) bool {
	key := WeekdayKey(slot.Start.In(loc).Weekday())
	for _, w := range c.UnavailableWindows {
		if w.Weekday != key {
			continue
		}
		start, err := w.Start.On(slot.Start.In(loc), loc)
		if err != nil {
			continue
		}
		end, err := w.End.On(slot.Start.In(loc), loc)
		if err != nil {
			continue
		}
		if slot.Overlaps(Interval{Start: start, End: end}) {
			return true
		}
	}
	return false
}

// RequiredDeposit deposit the contractor asks for a booking of total
func (c *ScheduleConfig) RequiredDeposit(total decimal.Decimal) decimal.Decimal {
	if !c.RequiresDeposit {
		return decimal.Zero
	}
	return total.Mul(c.DepositPercentage).Div(hundred).Round(2)
}

// Validate checks the configuration invariants
func (c *ScheduleConfig) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.BufferMinutes < 0 || c.BufferMinutes > MaxBufferMinutes {
		return fmt.Errorf("%w: buffer time must be between 0 and %d minutes", ErrValidation, MaxBufferMinutes)
	}
	if c.AdvanceBookingDays < 0 || c.AdvanceBookingDays > MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advance booking days must be between 0 and %d", ErrValidation, MaxAdvanceBookingDays)
	}
	if c.MinimumNoticeHours < 0 || c.MinimumNoticeHours > MaxMinimumNoticeHours {
		return fmt.Errorf("%w: minimum notice must be between 0 and %d hours", ErrValidation, MaxMinimumNoticeHours)
	}
	if !isPercentage(c.DepositPercentage) {
		return fmt.Errorf("%w: deposit percentage must be between 0 and 100", ErrValidation)
	}
	if c.RequiresDeposit && !c.DepositPercentage.IsPositive() {
		return fmt.Errorf("%w: deposit percentage is required when deposit is required", ErrValidation)
	}

	for key, day := range c.WorkingHours {
		if !validWeekdayKey(key) {
			return fmt.Errorf("%w: unknown weekday %q", ErrValidation, key)
		}
		if !day.Enabled {
			continue
		}
		if err := validateRange(day.Start, day.End); err != nil {
			return fmt.Errorf("%w: working hours of %s: %v", ErrValidation, key, err)
		}
	}

	policy := c.CancellationPolicy
	if !policy.RefundPolicy.Valid() {
		return fmt.Errorf("%w: unknown refund policy %q", ErrValidation, policy.RefundPolicy)
	}
	if policy.CancellationDeadlineHours < 0 {
		return fmt.Errorf("%w: cancellation deadline must not be negative", ErrValidation)
	}
	if policy.RefundPolicy == RefundPartial && policy.PartialRefundPercentage == nil {
		return fmt.Errorf("%w: partial refund percentage is required for PARTIAL refund policy", ErrValidation)
	}
	if policy.PartialRefundPercentage != nil && !isPercentage(*policy.PartialRefundPercentage) {
		return fmt.Errorf("%w: partial refund percentage must be between 0 and 100", ErrValidation)
	}

	for _, d := range c.BlackoutDates {
		if _, err := time.Parse(DateFormat, d); err != nil {
			return fmt.Errorf("%w: invalid blackout date %q", ErrValidation, d)
		}
	}
	for _, w := range c.UnavailableWindows {
		if !validWeekdayKey(w.Weekday) {
			return fmt.Errorf("%w: unknown weekday %q in unavailable window", ErrValidation, w.Weekday)
		}
		if err := validateRange(w.Start, w.End); err != nil {
			return fmt.Errorf("%w: unavailable window on %s: %v", ErrValidation, w.Weekday, err)
		}
	}
	return nil
}

func validateRange(start, end types.TimeString) error {
	if err := start.Validate(); err != nil {
		return err
	}
	if err := end.Validate(); err != nil {
		return err
	}
	if !start.IsBefore(end) {
		return fmt.Errorf("start %s must be before end %s", start, end)
	}
	return nil
}

func isPercentage(d decimal.Decimal) bool {
	return !d.IsNegative() && !d.GreaterThan(hundred)
}

// DaysBetween calendar days from the day of a to the day of b, each taken in its own location
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
