package create_appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/lock"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// 2025-03-03 is a Monday
var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

const serviceID = int64(7)

func weekHours() domain.WorkingHours {
	hours := domain.WorkingHours{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		hours[domain.WeekdayKey(d)] = domain.DaySchedule{Start: "09:00", End: "17:00", Enabled: true}
	}
	return hours
}

func testConfig() *domain.ScheduleConfig {
	return &domain.ScheduleConfig{
		ContractorID:        1,
		Timezone:            "UTC",
		WorkingHours:        weekHours(),
		BufferMinutes:       15,
		IsAcceptingBookings: true,
		CancellationPolicy: domain.CancellationPolicy{
			AllowCancellation:         true,
			CancellationDeadlineHours: 24,
			RefundPolicy:              domain.RefundFull,
		},
	}
}

func testService() *domain.ScheduleService {
	return &domain.ScheduleService{
		ID:              serviceID,
		ContractorID:    1,
		Name:            "Consultation",
		DurationMinutes: 60,
		Price:           decimal.NewFromInt(100),
		IsActive:        true,
	}
}

type harness struct {
	uc        *UseCase
	store     *memStore
	tx        *memTx
	publisher *recordingPublisher
	metrics   *countingMetrics
}

func newHarness(cfg *domain.ScheduleConfig, locker Locker, now time.Time) *harness {
	store := newMemStore(cfg, testService())
	h := &harness{
		store:     store,
		tx:        &memTx{store: store},
		publisher: &recordingPublisher{},
		metrics:   &countingMetrics{},
	}
	h.uc = NewUseCase(store, store, store, locker, h.publisher, h.metrics, h.tx, 5, nopLogger{})
	h.uc.timeProvider = fixedTime{now: now}
	return h
}

func request(date time.Time, start string) *Request {
	return &Request{
		ContractorID: 1,
		ClientID:     ptr.Ptr(int64(42)),
		ServiceID:    serviceID,
		Date:         date,
		StartTime:    types.TimeString(start),
	}
}

func TestCreateAppointmentBufferScenario(t *testing.T) {
	h := newHarness(testConfig(), nopLocker{}, monday.AddDate(0, 0, -3))
	ctx := context.Background()

	_, err := h.uc.Execute(ctx, request(monday, "10:00"))
	require.NoError(t, err)

	tests := []struct {
		start   string
		wantErr error
	}{
		{start: "10:30", wantErr: ErrSlotConflict},
		{start: "11:10", wantErr: ErrSlotConflict},
		{start: "11:15"},
	}
	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			resp, err := h.uc.Execute(ctx, request(monday, tt.start))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrConflict)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.StatusScheduled, resp.Appointment.Status)
		})
	}

	assert.Equal(t, 2, h.store.activeCount())
	assert.Equal(t, 2, h.metrics.outcomes["created"])
	assert.Equal(t, 2, h.metrics.outcomes["conflict"])
}

func TestCreateAppointmentRaisedBufferAppliesOnBothSides(t *testing.T) {
	cfg := testConfig()
	cfg.BufferMinutes = 0
	h := newHarness(cfg, nopLocker{}, monday.AddDate(0, 0, -3))
	ctx := context.Background()

	_, err := h.uc.Execute(ctx, request(monday, "11:00"))
	require.NoError(t, err)

	cfg.BufferMinutes = 15

	tests := []struct {
		start   string
		wantErr error
	}{
		{start: "10:00", wantErr: ErrSlotConflict},
		{start: "12:00", wantErr: ErrSlotConflict},
		{start: "12:15"},
		{start: "09:30"},
	}
	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			_, err := h.uc.Execute(ctx, request(monday, tt.start))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}

	assert.Equal(t, 3, h.store.activeCount())
}

func TestCreateAppointmentMinimumNotice(t *testing.T) {
	cfg := testConfig()
	cfg.MinimumNoticeHours = 24
	h := newHarness(cfg, nopLocker{}, monday.Add(10*time.Hour))

	_, err := h.uc.Execute(context.Background(), request(monday, "15:00"))
	assert.ErrorIs(t, err, ErrInsufficientNotice)
	assert.ErrorIs(t, err, domain.ErrPolicyViolation)

	resp, err := h.uc.Execute(context.Background(), request(monday.AddDate(0, 0, 2), "10:00"))
	require.NoError(t, err)
	assert.Equal(t, monday.AddDate(0, 0, 2).Add(10*time.Hour), resp.Appointment.StartTime)
}

func TestCreateAppointmentAdvanceWindow(t *testing.T) {
	cfg := testConfig()
	cfg.AdvanceBookingDays = 30

	h := newHarness(cfg, nopLocker{}, monday.AddDate(0, 0, -31))
	_, err := h.uc.Execute(context.Background(), request(monday, "10:00"))
	assert.ErrorIs(t, err, ErrBeyondAdvanceWindow)
	assert.ErrorIs(t, err, domain.ErrPolicyViolation)

	h = newHarness(cfg, nopLocker{}, monday.AddDate(0, 0, -30))
	_, err = h.uc.Execute(context.Background(), request(monday, "10:00"))
	assert.NoError(t, err)
}

func TestCreateAppointmentConcurrentRequestsForSameWindow(t *testing.T) {
	lockers := map[string]Locker{
		"contractor lock":      lock.NewLocalLocker(),
		"exclusion constraint": nopLocker{},
	}

	for name, locker := range lockers {
		t.Run(name, func(t *testing.T) {
			h := newHarness(testConfig(), locker, monday.AddDate(0, 0, -1))
			const n = 16

			var wg sync.WaitGroup
			errs := make([]error, n)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, errs[i] = h.uc.Execute(context.Background(), request(monday, "13:00"))
				}(i)
			}
			wg.Wait()

			succeeded := 0
			for _, err := range errs {
				if err == nil {
					succeeded++
					continue
				}
				assert.ErrorIs(t, err, domain.ErrConflict)
			}
			assert.Equal(t, 1, succeeded)
			assert.Equal(t, 1, h.store.activeCount())
			assert.Len(t, h.store.jobs, 1)
		})
	}
}

func TestCreateAppointmentDeposit(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(cfg *domain.ScheduleConfig, svc *domain.ScheduleService)
		deposit       *decimal.Decimal
		wantErr       error
		wantRemaining string
	}{
		{
			name:          "no deposit policy",
			mutate:        func(*domain.ScheduleConfig, *domain.ScheduleService) {},
			wantRemaining: "100",
		},
		{
			name: "percentage deposit missing",
			mutate: func(cfg *domain.ScheduleConfig, _ *domain.ScheduleService) {
				cfg.RequiresDeposit = true
				cfg.DepositPercentage = decimal.NewFromInt(20)
			},
			wantErr: ErrDepositRequired,
		},
		{
			name: "percentage deposit below required",
			mutate: func(cfg *domain.ScheduleConfig, _ *domain.ScheduleService) {
				cfg.RequiresDeposit = true
				cfg.DepositPercentage = decimal.NewFromInt(20)
			},
			deposit: ptr.Ptr(decimal.NewFromInt(10)),
			wantErr: ErrDepositInconsistent,
		},
		{
			name: "deposit above total",
			mutate: func(cfg *domain.ScheduleConfig, _ *domain.ScheduleService) {
				cfg.RequiresDeposit = true
				cfg.DepositPercentage = decimal.NewFromInt(20)
			},
			deposit: ptr.Ptr(decimal.NewFromInt(150)),
			wantErr: ErrDepositInconsistent,
		},
		{
			name: "percentage deposit accepted",
			mutate: func(cfg *domain.ScheduleConfig, _ *domain.ScheduleService) {
				cfg.RequiresDeposit = true
				cfg.DepositPercentage = decimal.NewFromInt(20)
			},
			deposit:       ptr.Ptr(decimal.NewFromInt(20)),
			wantRemaining: "80",
		},
		{
			name: "service fixed deposit",
			mutate: func(_ *domain.ScheduleConfig, svc *domain.ScheduleService) {
				svc.DepositRequired = true
				svc.DepositAmount = ptr.Ptr(decimal.NewFromInt(30))
			},
			deposit: ptr.Ptr(decimal.NewFromInt(25)),
			wantErr: ErrDepositInconsistent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(testConfig(), nopLocker{}, monday.AddDate(0, 0, -1))
			tt.mutate(h.store.config, h.store.services[serviceID])

			req := request(monday, "10:00")
			req.DepositAmount = tt.deposit

			resp, err := h.uc.Execute(context.Background(), req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrPolicyViolation)
				assert.Zero(t, h.store.activeCount())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRemaining, resp.Appointment.RemainingBalance.String())
		})
	}
}

func TestCreateAppointmentAutoConfirm(t *testing.T) {
	cfg := testConfig()
	cfg.AutoConfirmBookings = true
	now := monday.AddDate(0, 0, -1)
	h := newHarness(cfg, nopLocker{}, now)

	resp, err := h.uc.Execute(context.Background(), request(monday, "10:00"))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, resp.Appointment.Status)
	require.NotNil(t, resp.Appointment.ConfirmedAt)
	assert.Equal(t, now, *resp.Appointment.ConfirmedAt)
	assert.Equal(t, []domain.AppointmentStatus{domain.StatusScheduled, domain.StatusConfirmed}, h.publisher.statuses)

	require.Len(t, h.store.jobs, 1)
	assert.Equal(t, domain.EntityAppointment, h.store.jobs[0].EntityType)
	assert.Equal(t, resp.Appointment.ID, h.store.jobs[0].EntityID)
	assert.Equal(t, 5, h.store.jobs[0].MaxAttempts)
}

func TestCreateAppointmentEndTimeOverride(t *testing.T) {
	h := newHarness(testConfig(), nopLocker{}, monday.AddDate(0, 0, -1))
	req := request(monday, "16:00")
	req.EndTime = ptr.Ptr(types.TimeString("16:45"))

	resp, err := h.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, monday.Add(16*time.Hour+45*time.Minute), resp.Appointment.EndTime)

	req = request(monday, "16:30")
	_, err = h.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestCreateAppointmentRejections(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(h *harness, req *Request)
		wantErr  error
		wantKind error
	}{
		{
			name:     "invalid start time",
			mutate:   func(_ *harness, req *Request) { req.StartTime = "25:00" },
			wantErr:  ErrInvalidInput,
			wantKind: domain.ErrValidation,
		},
		{
			name:     "unknown contractor",
			mutate:   func(_ *harness, req *Request) { req.ContractorID = 9 },
			wantErr:  ErrScheduleNotFound,
			wantKind: domain.ErrNotFound,
		},
		{
			name:     "unknown service",
			mutate:   func(_ *harness, req *Request) { req.ServiceID = 99 },
			wantErr:  ErrServiceNotFound,
			wantKind: domain.ErrNotFound,
		},
		{
			name:     "not accepting bookings",
			mutate:   func(h *harness, _ *Request) { h.store.config.IsAcceptingBookings = false },
			wantErr:  ErrNotAcceptingBookings,
			wantKind: domain.ErrPolicyViolation,
		},
		{
			name:     "day off",
			mutate:   func(h *harness, _ *Request) { delete(h.store.config.WorkingHours, "monday") },
			wantErr:  ErrOutsideWorkingHours,
			wantKind: domain.ErrPolicyViolation,
		},
		{
			name:     "blackout date",
			mutate:   func(h *harness, _ *Request) { h.store.config.BlackoutDates = []string{"2025-03-03"} },
			wantErr:  ErrTimeUnavailable,
			wantKind: domain.ErrPolicyViolation,
		},
		{
			name: "recurring break",
			mutate: func(h *harness, _ *Request) {
				h.store.config.UnavailableWindows = []domain.UnavailableWindow{{Weekday: "monday", Start: "10:30", End: "11:00"}}
			},
			wantErr:  ErrTimeUnavailable,
			wantKind: domain.ErrPolicyViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(testConfig(), nopLocker{}, monday.AddDate(0, 0, -1))
			req := request(monday, "10:00")
			tt.mutate(h, req)

			_, err := h.uc.Execute(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, tt.wantKind)
			assert.Zero(t, h.store.activeCount())
			assert.Empty(t, h.publisher.statuses)
		})
	}
}

func TestCreateAppointmentLockTimeoutIsConflict(t *testing.T) {
	h := newHarness(testConfig(), failingLocker{err: lock.ErrLockTimeout}, monday.AddDate(0, 0, -1))

	_, err := h.uc.Execute(context.Background(), request(monday, "10:00"))
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Zero(t, h.store.activeCount())
}

func TestCreateAppointmentSerializationFailureIsConflict(t *testing.T) {
	h := newHarness(testConfig(), nopLocker{}, monday.AddDate(0, 0, -1))
	h.tx.commitErr = &pq.Error{Code: "40001"}

	_, err := h.uc.Execute(context.Background(), request(monday, "10:00"))
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Zero(t, h.store.activeCount())
	assert.Empty(t, h.publisher.statuses)
}

func TestCreateAppointmentLeavesNoPartialState(t *testing.T) {
	h := newHarness(testConfig(), nopLocker{}, monday.AddDate(0, 0, -1))
	h.store.enqueueErr = errors.New("connection reset")

	_, err := h.uc.Execute(context.Background(), request(monday, "10:00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.Zero(t, h.store.activeCount())
	assert.Empty(t, h.store.jobs)
}
