package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "SCHEDULED"
	StatusConfirmed  AppointmentStatus = "CONFIRMED"
	StatusInProgress AppointmentStatus = "IN_PROGRESS"
	StatusCompleted  AppointmentStatus = "COMPLETED"
	StatusCancelled  AppointmentStatus = "CANCELLED"
	StatusNoShow     AppointmentStatus = "NO_SHOW"
)

// ParseAppointmentStatus validates a status coming from outside
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	status := AppointmentStatus(s)
	switch status {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return status, true
	}
	return "", false
}

// IsActive true for statuses that hold the contractor's time
func (s AppointmentStatus) IsActive() bool {
	return s == StatusScheduled || s == StatusConfirmed || s == StatusInProgress
}

// IsTerminal true for statuses without outgoing transitions
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// Appointment represents a booked visit of a client to a contractor
type Appointment struct {
	ID              int64
	ContractorID    int64
	ClientID        *int64 // nil for non-member clients
	ServiceID       int64
	AppointmentDate time.Time // calendar day in the contractor's timezone
	StartTime       time.Time
	EndTime         time.Time

	// Padding snapshot taken at booking time
	PreparationMinutes int
	CleanupMinutes     int
	BufferMinutes      int

	Status AppointmentStatus

	TotalPrice       decimal.Decimal
	DepositAmount    *decimal.Decimal
	RemainingBalance decimal.Decimal
	LateFees         decimal.Decimal
	RefundAmount     decimal.Decimal
	ForfeitedAmount  decimal.Decimal
	BalanceDue       bool
	LateCancellation bool

	Notes       *string
	StatusNotes *string

	ConfirmedAt *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
	NoShowAt    *time.Time

	SyncState

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still blocks the schedule
func (a *Appointment) IsActive() bool {
	return a.Status.IsActive()
}

// BlockedInterval range unavailable to other appointments
func (a *Appointment) BlockedInterval() Interval {
	return BlockedInterval(a.StartTime, a.EndTime, a.PreparationMinutes, a.CleanupMinutes, a.BufferMinutes)
}

// BlockedIntervalWithBuffer blocked range under the contractor's current buffer.
// The larger of the booked and the current buffer is kept before the start.
func (a *Appointment) BlockedIntervalWithBuffer(currentBufferMinutes int) Interval {
	return BlockedInterval(a.StartTime, a.EndTime, a.PreparationMinutes, a.CleanupMinutes,
		max(a.BufferMinutes, currentBufferMinutes))
}

// Deposit deposit amount or zero
func (a *Appointment) Deposit() decimal.Decimal {
	if a.DepositAmount == nil {
		return decimal.Zero
	}
	return *a.DepositAmount
}

// AppointmentsFilter filter for contractor appointment listings
type AppointmentsFilter struct {
	ContractorID int64
	From         *time.Time // StartTime >= From
	To           *time.Time // StartTime < To
	Statuses     []AppointmentStatus
}
