package update_appointment_status

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, a *domain.Appointment, expected domain.AppointmentStatus) error
}

// ScheduleRepository источник политики отмены
type ScheduleRepository interface {
	GetConfig(ctx context.Context, contractorID int64) (*domain.ScheduleConfig, error)
}

// SyncJobRepository outbox of CRM sync jobs
type SyncJobRepository interface {
	Enqueue(ctx context.Context, job *domain.SyncJob) error
}

// EventPublisher best-effort status events
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, a *domain.Appointment, at time.Time)
}

// Metrics счетчики переходов
type Metrics interface {
	IncTransition(from, to string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
