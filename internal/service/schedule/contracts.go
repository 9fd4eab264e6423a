package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ScheduleRepository интерфейс репозитория конфигураций и услуг
type ScheduleRepository interface {
	GetConfig(ctx context.Context, contractorID int64) (*domain.ScheduleConfig, error)
	UpsertConfig(ctx context.Context, cfg *domain.ScheduleConfig) (*domain.ScheduleConfig, error)
	GetService(ctx context.Context, serviceID int64) (*domain.ScheduleService, error)
	UpsertService(ctx context.Context, s *domain.ScheduleService) (*domain.ScheduleService, error)
}

// SyncJobRepository outbox of CRM sync jobs
type SyncJobRepository interface {
	Enqueue(ctx context.Context, job *domain.SyncJob) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
