package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	ListActiveOverlapping(ctx context.Context, contractorID int64, from, to time.Time) ([]*domain.Appointment, error)
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, a *domain.Appointment, expected domain.AppointmentStatus) error
}

// ScheduleRepository интерфейс репозитория конфигураций и услуг
type ScheduleRepository interface {
	GetConfigForUpdate(ctx context.Context, contractorID int64) (*domain.ScheduleConfig, error)
	GetService(ctx context.Context, serviceID int64) (*domain.ScheduleService, error)
}

// SyncJobRepository outbox of CRM sync jobs
type SyncJobRepository interface {
	Enqueue(ctx context.Context, job *domain.SyncJob) error
}

// Locker per-contractor mutual exclusion
type Locker interface {
	Lock(ctx context.Context, contractorID int64) (func(), error)
}

// EventPublisher best-effort status events
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, a *domain.Appointment, at time.Time)
}

// Metrics счетчики бронирований
type Metrics interface {
	IncBooking(outcome string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
