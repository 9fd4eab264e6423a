package crmsync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/syncjob"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/hubspot"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// fakeCRM in-memory CRM keyed by smc_key
type fakeCRM struct {
	mu      sync.Mutex
	records map[string]map[string]string // id -> properties
	nextID  int
	creates int
	updates int
	failing error

	// onWrite runs after a successful create or update
	onWrite func()
}

func newFakeCRM() *fakeCRM {
	return &fakeCRM{records: map[string]map[string]string{}}
}

func (c *fakeCRM) FindRecordByKey(_ context.Context, _ string, key string) (*string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing != nil {
		return nil, c.failing
	}
	for id, props := range c.records {
		if props[hubspot.KeyProperty] == key {
			found := id
			return &found, nil
		}
	}
	return nil, nil
}

func (c *fakeCRM) CreateRecord(_ context.Context, _ string, properties map[string]string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing != nil {
		return "", c.failing
	}
	c.nextID++
	c.creates++
	id := fmt.Sprintf("hs-%d", c.nextID)
	c.records[id] = properties
	if c.onWrite != nil {
		c.onWrite()
	}
	return id, nil
}

func (c *fakeCRM) UpdateRecord(_ context.Context, _ string, id string, properties map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing != nil {
		return c.failing
	}
	if _, ok := c.records[id]; !ok {
		return hubspot.ErrRecordNotFound
	}
	c.updates++
	c.records[id] = properties
	if c.onWrite != nil {
		c.onWrite()
	}
	return nil
}

// fakeStore sync state of appointments held in fakeAppointments
type fakeStore struct {
	appointments *fakeAppointments
}

func (s *fakeStore) MarkSynced(_ context.Context, key int64, remoteID string, at, version time.Time) error {
	a := s.appointments.items[key]
	a.HubspotObjectID = &remoteID
	if a.UpdatedAt.Equal(version) {
		a.HubspotSyncStatus = domain.SyncSynced
		a.HubspotLastSync = &at
	}
	return nil
}

func (s *fakeStore) MarkStatus(_ context.Context, key int64, status domain.SyncStatus) error {
	s.appointments.items[key].HubspotSyncStatus = status
	return nil
}

func (s *fakeStore) ClearRemoteID(_ context.Context, key int64) error {
	s.appointments.items[key].HubspotObjectID = nil
	return nil
}

type fakeAppointments struct {
	items map[int64]*domain.Appointment
}

func (f *fakeAppointments) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

type fakeSchedules struct{}

func (fakeSchedules) GetConfig(context.Context, int64) (*domain.ScheduleConfig, error) {
	return nil, schedule.ErrConfigNotFound
}

func (fakeSchedules) GetService(context.Context, int64) (*domain.ScheduleService, error) {
	return nil, schedule.ErrServiceNotFound
}

type fakeJobs struct {
	due         []*domain.SyncJob
	done        []uuid.UUID
	failed      []uuid.UUID
	rescheduled map[uuid.UUID]time.Time
	requeued    []*domain.SyncJob

	// leaseLost simulates another worker having reclaimed the job
	leaseLost bool
	// expiredOnClaim hands out leases that ended before processing started
	expiredOnClaim bool
}

func newFakeJobs(jobs ...*domain.SyncJob) *fakeJobs {
	return &fakeJobs{due: jobs, rescheduled: map[uuid.UUID]time.Time{}}
}

func (f *fakeJobs) ClaimDue(_ context.Context, now time.Time, lease time.Duration, limit int) ([]*domain.SyncJob, error) {
	claimed := f.due
	f.due = nil
	if len(claimed) > limit {
		f.due = claimed[limit:]
		claimed = claimed[:limit]
	}

	until := now.Add(lease)
	if f.expiredOnClaim {
		until = now.Add(-time.Second)
	}
	for _, j := range claimed {
		j.Attempts++
		j.Status = domain.JobRunning
		j.LockedUntil = &until
	}
	return claimed, nil
}

func (f *fakeJobs) MarkDone(_ context.Context, job *domain.SyncJob) error {
	if f.leaseLost {
		return syncjob.ErrLeaseLost
	}
	f.done = append(f.done, job.ID)
	return nil
}

func (f *fakeJobs) Reschedule(_ context.Context, job *domain.SyncJob, next time.Time, _ string) error {
	if f.leaseLost {
		return syncjob.ErrLeaseLost
	}
	f.rescheduled[job.ID] = next
	return nil
}

func (f *fakeJobs) MarkFailed(_ context.Context, job *domain.SyncJob, _ string) error {
	if f.leaseLost {
		return syncjob.ErrLeaseLost
	}
	f.failed = append(f.failed, job.ID)
	return nil
}

func (f *fakeJobs) RequeueFailed(context.Context, time.Time) ([]*domain.SyncJob, error) {
	return f.requeued, nil
}

type countingMetrics struct {
	outcomes map[string]int
}

func (m *countingMetrics) IncSyncJob(_ string, outcome string) {
	if m.outcomes == nil {
		m.outcomes = map[string]int{}
	}
	m.outcomes[outcome]++
}
