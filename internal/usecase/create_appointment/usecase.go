package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SchedulingService/pkg/pgerr"
)

var tracer = otel.Tracer("smc.scheduling.create_appointment")

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	syncJobRepo     SyncJobRepository
	locker          Locker
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
	locker Locker,
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
		locker:          locker,
		publisher:       publisher,
		metrics:         metrics,
		txManager:       txManager,
		syncMaxAttempts: syncMaxAttempts,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute создает запись.
// Проверка пересечений и вставка выполняются под блокировкой подрядчика в сериализуемой транзакции,
// последним рубежом служит exclusion constraint на blocked range.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "create_appointment.Execute")
	span.SetAttributes(
		attribute.Int64("contractor.id", req.ContractorID),
		attribute.Int64("service.id", req.ServiceID),
	)
	defer func() {
		uc.metrics.IncBooking(bookingOutcome(err))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	uc.logger.Info("CreateAppointment: contractor=%d, service=%d, date=%s, time=%s",
		req.ContractorID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Блокировка подрядчика
	release, err := uc.locker.Lock(ctx, req.ContractorID)
	if err != nil {
		if errors.Is(err, lock.ErrLockTimeout) {
			uc.logger.Warn("CreateAppointment: contractor=%d is busy: %v", req.ContractorID, err)
			return nil, fmt.Errorf("%w: contractor is busy, retry later", ErrSlotConflict)
		}
		uc.logger.Error("CreateAppointment: failed to lock contractor=%d: %v", req.ContractorID, err)
		return nil, fmt.Errorf("%w: failed to lock contractor: %v", ErrInternal, err)
	}
	defer release()

	var result *domain.Appointment

	// 4. Проверки и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Конфигурация расписания с блокировкой строки
		cfg, err := uc.scheduleRepo.GetConfigForUpdate(txCtx, req.ContractorID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrConfigNotFound) {
				uc.logger.Warn("CreateAppointment: no schedule for contractor=%d", req.ContractorID)
				return ErrScheduleNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get schedule config: %v", err)
			return fmt.Errorf("%w: failed to get schedule config: %v", ErrInternal, err)
		}

		// 4.2. Услуга
		svc, err := uc.getService(txCtx, req)
		if err != nil {
			return err
		}

		// 4.3. Окно записи в часовом поясе подрядчика
		loc, err := cfg.Location()
		if err != nil {
			uc.logger.Error("CreateAppointment: contractor=%d has invalid timezone: %v", req.ContractorID, err)
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		day, slot, err := requestedWindow(req, svc, loc)
		if err != nil {
			return err
		}

		// 4.4. Политика бронирования
		if err := validatePolicy(cfg, slot, day, now); err != nil {
			uc.logger.Warn("CreateAppointment: policy check failed: %v", err)
			return err
		}

		// 4.5. Депозит
		deposit, err := resolveDeposit(cfg, svc, svc.Price, req.DepositAmount)
		if err != nil {
			uc.logger.Warn("CreateAppointment: deposit check failed: %v", err)
			return err
		}

		// 4.6. Пересечения с текущим состоянием (FOR UPDATE)
		blocked := domain.BlockedInterval(slot.Start, slot.End, svc.PreparationMinutes, svc.CleanupMinutes, cfg.BufferMinutes)
		// Сохраненный blocked_start учитывает буфер на момент записи, текущий может быть больше
		searchEnd := blocked.End.Add(time.Duration(cfg.BufferMinutes) * time.Minute)
		existing, err := uc.appointmentRepo.ListActiveOverlapping(txCtx, req.ContractorID, blocked.Start, searchEnd)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to list appointments: %v", err)
			return fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
		}
		for _, other := range existing {
			if other.BlockedIntervalWithBuffer(cfg.BufferMinutes).Overlaps(blocked) {
				uc.logger.Warn("CreateAppointment: window %s-%s collides with appointment id=%d",
					slot.Start.Format(time.RFC3339), slot.End.Format(time.RFC3339), other.ID)
				return ErrSlotConflict
			}
		}

		// 4.7. Создаем запись
		remaining := svc.Price
		if deposit != nil {
			remaining = remaining.Sub(*deposit)
		}
		appointment := &domain.Appointment{
			ContractorID:       req.ContractorID,
			ClientID:           req.ClientID,
			ServiceID:          svc.ID,
			AppointmentDate:    day,
			StartTime:          slot.Start,
			EndTime:            slot.End,
			PreparationMinutes: svc.PreparationMinutes,
			CleanupMinutes:     svc.CleanupMinutes,
			BufferMinutes:      cfg.BufferMinutes,
			Status:             domain.StatusScheduled,
			TotalPrice:         svc.Price,
			DepositAmount:      deposit,
			RemainingBalance:   remaining,
			Notes:              req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrOverlap) {
				uc.logger.Warn("CreateAppointment: exclusion constraint rejected the window")
				return ErrSlotConflict
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		// 4.8. Автоподтверждение
		if cfg.AutoConfirmBookings {
			if err := created.Transition(domain.StatusConfirmed, now, cfg.CancellationPolicy, nil); err != nil {
				return fmt.Errorf("%w: auto-confirm: %v", ErrInternal, err)
			}
			if err := uc.appointmentRepo.UpdateStatus(txCtx, created, domain.StatusScheduled); err != nil {
				uc.logger.Error("CreateAppointment: failed to auto-confirm id=%d: %v", created.ID, err)
				return fmt.Errorf("%w: failed to auto-confirm: %w", ErrInternal, err)
			}
		}

		// 4.9. Задача синхронизации с CRM
		job := domain.NewSyncJob(domain.EntityAppointment, created.ID, uc.syncMaxAttempts, now)
		if err := uc.syncJobRepo.Enqueue(txCtx, job); err != nil {
			uc.logger.Error("CreateAppointment: failed to enqueue sync job: %v", err)
			return fmt.Errorf("%w: failed to enqueue sync job: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if pgerr.IsSerializationFailure(err) {
			uc.logger.Warn("CreateAppointment: serialization failure for contractor=%d: %v", req.ContractorID, err)
			return nil, ErrSlotConflict
		}
		return nil, err
	}

	// 5. События после фиксации транзакции
	if result.Status == domain.StatusConfirmed {
		scheduled := *result
		scheduled.Status = domain.StatusScheduled
		uc.publisher.PublishStatusChanged(ctx, &scheduled, result.CreatedAt)
		uc.publisher.PublishStatusChanged(ctx, result, now)
	} else {
		uc.publisher.PublishStatusChanged(ctx, result, result.CreatedAt)
	}

	span.SetAttributes(attribute.Int64("appointment.id", result.ID))
	uc.logger.Info("CreateAppointment: successfully created appointment id=%d, status=%s", result.ID, result.Status)

	return &Response{Appointment: result}, nil
}

func (uc *UseCase) getService(ctx context.Context, req *Request) (*domain.ScheduleService, error) {
	svc, err := uc.scheduleRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if svc.ContractorID != req.ContractorID || !svc.IsActive {
		uc.logger.Warn("CreateAppointment: service id=%d is not bookable for contractor=%d", svc.ID, req.ContractorID)
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

// requestedWindow anchors the requested times to the contractor's calendar day
func requestedWindow(req *Request, svc *domain.ScheduleService, loc *time.Location) (time.Time, domain.Interval, error) {
	y, m, d := req.Date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)

	start, err := req.StartTime.On(day, loc)
	if err != nil {
		return time.Time{}, domain.Interval{}, fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}

	end := start.Add(time.Duration(svc.DurationMinutes) * time.Minute)
	if req.EndTime != nil {
		end, err = req.EndTime.On(day, loc)
		if err != nil {
			return time.Time{}, domain.Interval{}, fmt.Errorf("%w: endTime: %v", ErrInvalidInput, err)
		}
	}

	return day, domain.Interval{Start: start, End: end}, nil
}

// bookingOutcome label of the booking counter
func bookingOutcome(err error) string {
	switch domain.KindOf(err) {
	case "":
		return "created"
	case domain.KindConflict:
		return "conflict"
	case domain.KindPolicyViolation:
		return "policy_violation"
	case domain.KindValidation:
		return "validation"
	case domain.KindNotFound:
		return "not_found"
	default:
		return "error"
	}
}
