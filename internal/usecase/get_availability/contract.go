package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	ListActiveOverlapping(ctx context.Context, contractorID int64, from, to time.Time) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория конфигураций и услуг
type ScheduleRepository interface {
	GetConfig(ctx context.Context, contractorID int64) (*domain.ScheduleConfig, error)
	GetService(ctx context.Context, serviceID int64) (*domain.ScheduleService, error)
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
