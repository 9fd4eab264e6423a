package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// transitions forward edges of the appointment state machine
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusScheduled:  {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusNoShow},
}

// CanTransition reports whether from -> to is an edge of the state machine
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Settlement money movement of a cancellation
type Settlement struct {
	Refund           decimal.Decimal
	Forfeited        decimal.Decimal
	RemainingBalance decimal.Decimal
	Late             bool
}

// Settle applies the policy to a cancellation made at now.
// Inside the deadline the refund policy is skipped and the deposit is forfeited.
func (p CancellationPolicy) Settle(deposit, remaining decimal.Decimal, start, now time.Time) Settlement {
	deadline := time.Duration(p.CancellationDeadlineHours) * time.Hour
	if start.Sub(now) < deadline {
		return Settlement{Refund: decimal.Zero, Forfeited: deposit, RemainingBalance: remaining, Late: true}
	}

	switch p.RefundPolicy {
	case RefundFull:
		return Settlement{Refund: deposit, Forfeited: decimal.Zero, RemainingBalance: decimal.Zero}
	case RefundPartial:
		pct := decimal.Zero
		if p.PartialRefundPercentage != nil {
			pct = *p.PartialRefundPercentage
		}
		refund := deposit.Mul(pct).Div(hundred).Round(2)
		return Settlement{Refund: refund, Forfeited: deposit.Sub(refund), RemainingBalance: decimal.Zero}
	default:
		return Settlement{Refund: decimal.Zero, Forfeited: deposit, RemainingBalance: remaining}
	}
}

// Transition moves the appointment to status to, applying the side effects of the edge.
// The appointment is left untouched when an error is returned.
func (a *Appointment) Transition(to AppointmentStatus, now time.Time, policy CancellationPolicy, notes *string) error {
	if a.Status.IsTerminal() {
		return fmt.Errorf("%w: %s is final", ErrInvalidTransition, a.Status)
	}
	if !CanTransition(a.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, to)
	}
	if to == StatusCancelled && !policy.AllowCancellation {
		return ErrCancellationNotAllowed
	}

	at := now
	switch to {
	case StatusConfirmed:
		a.ConfirmedAt = &at
	case StatusInProgress:
		a.StartedAt = &at
	case StatusCompleted:
		a.CompletedAt = &at
	case StatusCancelled:
		s := policy.Settle(a.Deposit(), a.RemainingBalance, a.StartTime, now)
		a.RefundAmount = s.Refund
		a.ForfeitedAmount = s.Forfeited
		a.RemainingBalance = s.RemainingBalance
		a.LateCancellation = s.Late
		a.CancelledAt = &at
	case StatusNoShow:
		a.ForfeitedAmount = a.Deposit()
		a.RefundAmount = decimal.Zero
		a.BalanceDue = true
		a.NoShowAt = &at
	}

	a.Status = to
	if notes != nil {
		a.StatusNotes = notes
	}
	a.UpdatedAt = now
	return nil
}
