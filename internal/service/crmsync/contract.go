package crmsync

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// CRMClient remote create-or-update surface
type CRMClient interface {
	FindRecordByKey(ctx context.Context, objectType, key string) (*string, error)
	CreateRecord(ctx context.Context, objectType string, properties map[string]string) (string, error)
	UpdateRecord(ctx context.Context, objectType, id string, properties map[string]string) error
}

// SyncStateStore hubspot_* columns of one table
type SyncStateStore interface {
	MarkSynced(ctx context.Context, key int64, remoteID string, at, version time.Time) error
	MarkStatus(ctx context.Context, key int64, status domain.SyncStatus) error
	ClearRemoteID(ctx context.Context, key int64) error
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория конфигураций и услуг
type ScheduleRepository interface {
	GetConfig(ctx context.Context, contractorID int64) (*domain.ScheduleConfig, error)
	GetService(ctx context.Context, serviceID int64) (*domain.ScheduleService, error)
}

// JobRepository outbox of sync jobs
type JobRepository interface {
	ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]*domain.SyncJob, error)
	MarkDone(ctx context.Context, job *domain.SyncJob) error
	Reschedule(ctx context.Context, job *domain.SyncJob, nextRunAt time.Time, lastErr string) error
	MarkFailed(ctx context.Context, job *domain.SyncJob, lastErr string) error
	RequeueFailed(ctx context.Context, now time.Time) ([]*domain.SyncJob, error)
}

// Metrics счетчики синхронизации
type Metrics interface {
	IncSyncJob(entityType, outcome string)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// ObjectTypes CRM object type per local entity
type ObjectTypes struct {
	Appointment     string
	ScheduleConfig  string
	ScheduleService string
}

// SyncStores sync state stores per local entity
type SyncStores struct {
	Appointments     SyncStateStore
	ScheduleConfigs  SyncStateStore
	ScheduleServices SyncStateStore
}
