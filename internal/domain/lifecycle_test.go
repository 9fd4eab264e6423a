package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newAppointment(status AppointmentStatus, start time.Time) *Appointment {
	deposit := dec("30")
	return &Appointment{
		ID:               1,
		ContractorID:     7,
		StartTime:        start,
		EndTime:          start.Add(time.Hour),
		Status:           status,
		TotalPrice:       dec("100"),
		DepositAmount:    &deposit,
		RemainingBalance: dec("70"),
	}
}

func fullRefundPolicy() CancellationPolicy {
	return CancellationPolicy{
		AllowCancellation:         true,
		CancellationDeadlineHours: 24,
		RefundPolicy:              RefundFull,
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to AppointmentStatus
		want     bool
	}{
		{StatusScheduled, StatusConfirmed, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusScheduled, StatusInProgress, false},
		{StatusConfirmed, StatusInProgress, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusNoShow, true},
		{StatusInProgress, StatusCancelled, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusCancelled, StatusScheduled, false},
		{StatusNoShow, StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTransitionRejectsReverseEdge(t *testing.T) {
	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	a := newAppointment(StatusCompleted, now.Add(48*time.Hour))

	err := a.Transition(StatusConfirmed, now, fullRefundPolicy(), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, StatusCompleted, a.Status)
}

func TestTransitionFromFinalStatus(t *testing.T) {
	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	for _, status := range []AppointmentStatus{StatusCompleted, StatusCancelled, StatusNoShow} {
		t.Run(string(status), func(t *testing.T) {
			assert.True(t, status.IsTerminal())

			a := newAppointment(status, now.Add(48*time.Hour))
			err := a.Transition(StatusCancelled, now, fullRefundPolicy(), nil)

			require.ErrorIs(t, err, ErrInvalidTransition)
			assert.Contains(t, err.Error(), "is final")
			assert.Equal(t, status, a.Status)
		})
	}

	assert.False(t, StatusInProgress.IsTerminal())
}

func TestCancelFullRefundBeforeDeadline(t *testing.T) {
	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	a := newAppointment(StatusConfirmed, now.Add(48*time.Hour))

	require.NoError(t, a.Transition(StatusCancelled, now, fullRefundPolicy(), nil))

	assert.Equal(t, StatusCancelled, a.Status)
	assert.True(t, a.RefundAmount.Equal(dec("30")))
	assert.True(t, a.ForfeitedAmount.IsZero())
	assert.True(t, a.RemainingBalance.IsZero())
	assert.False(t, a.LateCancellation)
	require.NotNil(t, a.CancelledAt)
	assert.Equal(t, now, *a.CancelledAt)
}

func TestCancelLateForfeitsDeposit(t *testing.T) {
	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	a := newAppointment(StatusConfirmed, now.Add(2*time.Hour))

	require.NoError(t, a.Transition(StatusCancelled, now, fullRefundPolicy(), nil))

	assert.True(t, a.RefundAmount.IsZero())
	assert.True(t, a.ForfeitedAmount.Equal(dec("30")))
	assert.True(t, a.RemainingBalance.Equal(dec("70")))
	assert.True(t, a.LateCancellation)
}

func TestSettle(t *testing.T) {
	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	start := now.Add(72 * time.Hour)
	pct := dec("40")

	tests := []struct {
		name          string
		policy        CancellationPolicy
		wantRefund    string
		wantForfeit   string
		wantRemaining string
	}{
		{
			name:          "partial",
			policy:        CancellationPolicy{CancellationDeadlineHours: 24, RefundPolicy: RefundPartial, PartialRefundPercentage: &pct},
			wantRefund:    "12",
			wantForfeit:   "18",
			wantRemaining: "0",
		},
		{
			name:          "no refund",
			policy:        CancellationPolicy{CancellationDeadlineHours: 24, RefundPolicy: RefundNoRefund},
			wantRefund:    "0",
			wantForfeit:   "30",
			wantRemaining: "70",
		},
		{
			name:          "exactly at deadline is on time",
			policy:        CancellationPolicy{CancellationDeadlineHours: 72, RefundPolicy: RefundFull},
			wantRefund:    "30",
			wantForfeit:   "0",
			wantRemaining: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.policy.Settle(dec("30"), dec("70"), start, now)
			assert.True(t, s.Refund.Equal(dec(tt.wantRefund)), "refund %s", s.Refund)
			assert.True(t, s.Forfeited.Equal(dec(tt.wantForfeit)), "forfeited %s", s.Forfeited)
			assert.True(t, s.RemainingBalance.Equal(dec(tt.wantRemaining)), "remaining %s", s.RemainingBalance)
			assert.False(t, s.Late)
		})
	}
}

func TestCancelNotAllowed(t *testing.T) {
	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	a := newAppointment(StatusScheduled, now.Add(48*time.Hour))
	policy := fullRefundPolicy()
	policy.AllowCancellation = false

	err := a.Transition(StatusCancelled, now, policy, nil)

	assert.ErrorIs(t, err, ErrPolicyViolation)
	assert.Equal(t, StatusScheduled, a.Status)
}

func TestNoShowForfeitsDeposit(t *testing.T) {
	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	a := newAppointment(StatusConfirmed, now)
	notes := "client did not come"

	require.NoError(t, a.Transition(StatusNoShow, now, fullRefundPolicy(), &notes))

	assert.Equal(t, StatusNoShow, a.Status)
	assert.True(t, a.ForfeitedAmount.Equal(dec("30")))
	assert.True(t, a.RemainingBalance.Equal(dec("70")))
	assert.True(t, a.BalanceDue)
	assert.Equal(t, &notes, a.StatusNotes)
	assert.NotNil(t, a.NoShowAt)
}

func TestForwardPathTimestamps(t *testing.T) {
	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	a := newAppointment(StatusScheduled, now)

	require.NoError(t, a.Transition(StatusConfirmed, now, fullRefundPolicy(), nil))
	require.NoError(t, a.Transition(StatusInProgress, now.Add(time.Minute), fullRefundPolicy(), nil))
	require.NoError(t, a.Transition(StatusCompleted, now.Add(time.Hour), fullRefundPolicy(), nil))

	assert.Equal(t, StatusCompleted, a.Status)
	assert.NotNil(t, a.ConfirmedAt)
	assert.NotNil(t, a.StartedAt)
	require.NotNil(t, a.CompletedAt)
	assert.Equal(t, now.Add(time.Hour), *a.CompletedAt)
}
