package update_appointment_status

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
)

var tracer = otel.Tracer("smc.scheduling.update_appointment_status")

// UseCase use case для смены статуса записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	syncJobRepo     SyncJobRepository
	publisher       EventPublisher
	metrics         Metrics
	txManager       TransactionManager
	syncMaxAttempts int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	syncJobRepo SyncJobRepository,
	publisher EventPublisher,
	metrics Metrics,
	txManager TransactionManager,
	syncMaxAttempts int,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		syncJobRepo:     syncJobRepo,
		publisher:       publisher,
		metrics:         metrics,
		txManager:       txManager,
		syncMaxAttempts: syncMaxAttempts,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute переводит запись в новый статус.
// Запись сохраняется только если статус в БД не изменился с момента чтения.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "update_appointment_status.Execute")
	span.SetAttributes(
		attribute.Int64("appointment.id", req.AppointmentID),
		attribute.String("appointment.status", req.Status),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	uc.logger.Info("UpdateAppointmentStatus: appointment=%d, status=%s", req.AppointmentID, req.Status)

	// 1. Валидация входных данных
	to, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("UpdateAppointmentStatus: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var (
		result *domain.Appointment
		from   domain.AppointmentStatus
	)

	// 3. Переход и задача синхронизации в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3.1. Текущее состояние записи
		appointment, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("UpdateAppointmentStatus: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("UpdateAppointmentStatus: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}
		from = appointment.Status

		// 3.2. Политика отмены нужна только для отмены
		var policy domain.CancellationPolicy
		if to == domain.StatusCancelled {
			cfg, err := uc.scheduleRepo.GetConfig(txCtx, appointment.ContractorID)
			if err != nil {
				if errors.Is(err, scheduleRepo.ErrConfigNotFound) {
					uc.logger.Warn("UpdateAppointmentStatus: no schedule for contractor=%d", appointment.ContractorID)
					return ErrScheduleNotFound
				}
				uc.logger.Error("UpdateAppointmentStatus: failed to get schedule config: %v", err)
				return fmt.Errorf("%w: failed to get schedule config: %v", ErrInternal, err)
			}
			policy = cfg.CancellationPolicy
		}

		// 3.3. Переход по автомату состояний
		if err := appointment.Transition(to, now, policy, req.Notes); err != nil {
			uc.logger.Warn("UpdateAppointmentStatus: transition %s -> %s rejected: %v", from, to, err)
			switch {
			case errors.Is(err, domain.ErrCancellationNotAllowed):
				return ErrCancellationNotAllowed
			case errors.Is(err, domain.ErrInvalidTransition):
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
			default:
				return fmt.Errorf("%w: %v", ErrInternal, err)
			}
		}

		// 3.4. Compare-and-swap по статусу
		if err := uc.appointmentRepo.UpdateStatus(txCtx, appointment, from); err != nil {
			if errors.Is(err, appointmentRepo.ErrStaleStatus) {
				uc.logger.Warn("UpdateAppointmentStatus: appointment id=%d changed concurrently", appointment.ID)
				return ErrStatusChanged
			}
			uc.logger.Error("UpdateAppointmentStatus: failed to update appointment id=%d: %v", appointment.ID, err)
			return fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
		}

		// 3.5. Задача синхронизации с CRM
		job := domain.NewSyncJob(domain.EntityAppointment, appointment.ID, uc.syncMaxAttempts, now)
		if err := uc.syncJobRepo.Enqueue(txCtx, job); err != nil {
			uc.logger.Error("UpdateAppointmentStatus: failed to enqueue sync job: %v", err)
			return fmt.Errorf("%w: failed to enqueue sync job: %v", ErrInternal, err)
		}

		result = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 4. Метрики и событие после фиксации
	uc.metrics.IncTransition(string(from), string(to))
	uc.publisher.PublishStatusChanged(ctx, result, now)

	uc.logger.Info("UpdateAppointmentStatus: appointment id=%d moved %s -> %s", result.ID, from, to)

	return &Response{Appointment: result, PreviousStatus: from}, nil
}
