package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
)

// UseCase use case для получения доступных окон записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(appointmentRepo AppointmentRepository, scheduleRepo ScheduleRepository, logger Logger) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute computes the open windows of a contractor on a date.
// Reads are lock-free, a returned slot may be taken before it is booked.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: contractor=%d, date=%s", req.ContractorID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Конфигурация расписания
	cfg, err := uc.scheduleRepo.GetConfig(ctx, req.ContractorID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrConfigNotFound) {
			uc.logger.Warn("GetAvailability: no schedule for contractor=%d", req.ContractorID)
			return nil, ErrScheduleNotFound
		}
		uc.logger.Error("GetAvailability: failed to get schedule config: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule config: %v", ErrInternal, err)
	}

	loc, err := cfg.Location()
	if err != nil {
		uc.logger.Error("GetAvailability: contractor=%d has invalid timezone: %v", req.ContractorID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 3. Размер окна
	params, err := uc.slotParams(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Активные записи вокруг дня
	y, m, d := req.Date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)

	existing, err := uc.appointmentRepo.ListActiveOverlapping(ctx, req.ContractorID, day.AddDate(0, 0, -1), day.AddDate(0, 0, 2))
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	// 5. Расчет окон
	slots, err := computeSlots(cfg, loc, day, now, params, existing)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to compute slots: %v", err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailability: contractor=%d, date=%s, %d slots of %d min",
		req.ContractorID, day.Format(domain.DateFormat), len(slots), params.DurationMinutes)

	return &Response{
		ContractorID:    req.ContractorID,
		Date:            day,
		Timezone:        loc.String(),
		DurationMinutes: params.DurationMinutes,
		Available:       len(slots) > 0,
		TimeSlots:       slots,
	}, nil
}

func (uc *UseCase) slotParams(ctx context.Context, req *Request) (slotParams, error) {
	if req.ServiceID == nil {
		minutes := domain.DefaultSlotMinutes
		if req.SlotMinutes != nil {
			minutes = *req.SlotMinutes
		}
		return slotParams{DurationMinutes: minutes}, nil
	}

	svc, err := uc.scheduleRepo.GetService(ctx, *req.ServiceID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailability: service id=%d not found", *req.ServiceID)
			return slotParams{}, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get service id=%d: %v", *req.ServiceID, err)
		return slotParams{}, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if svc.ContractorID != req.ContractorID || !svc.IsActive {
		uc.logger.Warn("GetAvailability: service id=%d is not bookable for contractor=%d", svc.ID, req.ContractorID)
		return slotParams{}, ErrServiceNotFound
	}

	return slotParams{
		DurationMinutes:    svc.DurationMinutes,
		PreparationMinutes: svc.PreparationMinutes,
		CleanupMinutes:     svc.CleanupMinutes,
	}, nil
}
