package create_appointment

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
)

// memStore in-memory appointments, sync jobs and schedule rows.
// Create rejects overlapping blocked ranges the way the exclusion constraint does.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	items    []*domain.Appointment
	jobs     []*domain.SyncJob
	config   *domain.ScheduleConfig
	services map[int64]*domain.ScheduleService

	enqueueErr error
}

func newMemStore(cfg *domain.ScheduleConfig, services ...*domain.ScheduleService) *memStore {
	s := &memStore{config: cfg, services: map[int64]*domain.ScheduleService{}}
	for _, svc := range services {
		s.services[svc.ID] = svc
	}
	return s
}

func (s *memStore) ListActiveOverlapping(_ context.Context, contractorID int64, from, to time.Time) ([]*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	window := domain.Interval{Start: from, End: to}
	var out []*domain.Appointment
	for _, a := range s.items {
		if a.ContractorID == contractorID && a.IsActive() && a.BlockedInterval().Overlaps(window) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memStore) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, other := range s.items {
		if other.ContractorID == a.ContractorID && other.IsActive() && other.BlockedInterval().Overlaps(a.BlockedInterval()) {
			return nil, appointmentRepo.ErrOverlap
		}
	}
	s.nextID++
	a.ID = s.nextID
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	a.HubspotSyncStatus = domain.SyncPending
	stored := *a
	s.items = append(s.items, &stored)
	if log, ok := ctx.Value(txLogKey{}).(*txLog); ok {
		log.appointments = append(log.appointments, a.ID)
	}
	return a, nil
}

func (s *memStore) UpdateStatus(_ context.Context, a *domain.Appointment, expected domain.AppointmentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, stored := range s.items {
		if stored.ID != a.ID {
			continue
		}
		if stored.Status != expected {
			return appointmentRepo.ErrStaleStatus
		}
		copied := *a
		s.items[i] = &copied
		return nil
	}
	return appointmentRepo.ErrAppointmentNotFound
}

func (s *memStore) GetConfigForUpdate(_ context.Context, contractorID int64) (*domain.ScheduleConfig, error) {
	if s.config == nil || s.config.ContractorID != contractorID {
		return nil, scheduleRepo.ErrConfigNotFound
	}
	return s.config, nil
}

func (s *memStore) GetService(_ context.Context, serviceID int64) (*domain.ScheduleService, error) {
	svc, ok := s.services[serviceID]
	if !ok {
		return nil, scheduleRepo.ErrServiceNotFound
	}
	return svc, nil
}

func (s *memStore) Enqueue(ctx context.Context, job *domain.SyncJob) error {
	if s.enqueueErr != nil {
		return s.enqueueErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
	if log, ok := ctx.Value(txLogKey{}).(*txLog); ok {
		log.jobs = append(log.jobs, job.ID)
	}
	return nil
}

func (s *memStore) activeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.items {
		if a.IsActive() {
			n++
		}
	}
	return n
}

type txLogKey struct{}

// txLog rows written inside one memTx
type txLog struct {
	appointments []int64
	jobs         []uuid.UUID
}

// memTx drops the rows written by fn when it fails, then returns commitErr if set
type memTx struct {
	store     *memStore
	commitErr error
}

func (m *memTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	log := &txLog{}
	err := fn(context.WithValue(ctx, txLogKey{}, log))
	if err == nil {
		err = m.commitErr
	}
	if err != nil {
		m.store.rollback(log)
	}
	return err
}

func (s *memStore) rollback(log *txLog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.items[:0]
	for _, a := range s.items {
		if !slices.Contains(log.appointments, a.ID) {
			items = append(items, a)
		}
	}
	s.items = items

	jobs := s.jobs[:0]
	for _, j := range s.jobs {
		if !slices.Contains(log.jobs, j.ID) {
			jobs = append(jobs, j)
		}
	}
	s.jobs = jobs
}

type nopLocker struct{}

func (nopLocker) Lock(context.Context, int64) (func(), error) { return func() {}, nil }

type failingLocker struct{ err error }

func (l failingLocker) Lock(context.Context, int64) (func(), error) { return nil, l.err }

type recordingPublisher struct {
	mu       sync.Mutex
	statuses []domain.AppointmentStatus
}

func (p *recordingPublisher) PublishStatusChanged(_ context.Context, a *domain.Appointment, _ time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses = append(p.statuses, a.Status)
}

type countingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *countingMetrics) IncBooking(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = map[string]int{}
	}
	m.outcomes[outcome]++
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
