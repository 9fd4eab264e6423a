package domain

import (
	"time"

	"github.com/google/uuid"
)

// SyncStatus state of the CRM mirror of a local record
type SyncStatus string

const (
	SyncPending SyncStatus = "PENDING"
	SyncSynced  SyncStatus = "SYNCED"
	SyncFailed  SyncStatus = "FAILED"
)

// SyncState CRM mirror bookkeeping shared by configs, services and appointments
type SyncState struct {
	HubspotObjectID   *string
	HubspotSyncStatus SyncStatus
	HubspotLastSync   *time.Time
}

// EntityType kind of record mirrored to the CRM
type EntityType string

const (
	EntityAppointment     EntityType = "appointment"
	EntityScheduleConfig  EntityType = "schedule_config"
	EntityScheduleService EntityType = "schedule_service"
)

func (t EntityType) Valid() bool {
	switch t {
	case EntityAppointment, EntityScheduleConfig, EntityScheduleService:
		return true
	}
	return false
}

// SyncJobStatus outbox job state
type SyncJobStatus string

const (
	JobPending SyncJobStatus = "pending"
	JobRunning SyncJobStatus = "running"
	JobDone    SyncJobStatus = "done"
	JobFailed  SyncJobStatus = "failed"
)

// DefaultSyncMaxAttempts used when the caller does not configure one
const DefaultSyncMaxAttempts = 8

// SyncJob outbox row asking the worker to mirror one entity
type SyncJob struct {
	ID          uuid.UUID
	EntityType  EntityType
	EntityID    int64
	Status      SyncJobStatus
	Attempts    int
	MaxAttempts int
	NextRunAt   time.Time
	LockedUntil *time.Time // lease end while running
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewSyncJob pending job due immediately
func NewSyncJob(entityType EntityType, entityID int64, maxAttempts int, now time.Time) *SyncJob {
	if maxAttempts < 1 {
		maxAttempts = DefaultSyncMaxAttempts
	}
	return &SyncJob{
		ID:          uuid.New(),
		EntityType:  entityType,
		EntityID:    entityID,
		Status:      JobPending,
		MaxAttempts: maxAttempts,
		NextRunAt:   now,
	}
}

// HoldsLease true while the claim that returned the job has not expired
func (j *SyncJob) HoldsLease(now time.Time) bool {
	return j.LockedUntil != nil && now.Before(*j.LockedUntil)
}

// Exhausted true when no retry is left after the current attempt
func (j *SyncJob) Exhausted() bool {
	return j.Attempts >= j.MaxAttempts
}
