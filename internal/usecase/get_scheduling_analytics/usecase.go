package get_scheduling_analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
)

// UseCase use case для аналитики записей подрядчика
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(appointmentRepo AppointmentRepository, scheduleRepo ScheduleRepository, logger Logger) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		logger:          logger,
	}
}

// Execute считает метрики по записям с датой в [Start, End] в часовом поясе подрядчика
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetSchedulingAnalytics: contractor=%d, start=%s, end=%s",
		req.ContractorID, req.Start.Format(domain.DateFormat), req.End.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetSchedulingAnalytics: validation failed: %v", err)
		return nil, err
	}

	// 2. Часовой пояс подрядчика
	cfg, err := uc.scheduleRepo.GetConfig(ctx, req.ContractorID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrConfigNotFound) {
			uc.logger.Warn("GetSchedulingAnalytics: no schedule for contractor=%d", req.ContractorID)
			return nil, ErrScheduleNotFound
		}
		uc.logger.Error("GetSchedulingAnalytics: failed to get schedule config: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule config: %v", ErrInternal, err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	sy, sm, sd := req.Start.Date()
	ey, em, ed := req.End.Date()
	from := time.Date(sy, sm, sd, 0, 0, 0, 0, loc)
	to := time.Date(ey, em, ed, 0, 0, 0, 0, loc).AddDate(0, 0, 1)

	// 3. Записи за период
	appointments, err := uc.appointmentRepo.List(ctx, domain.AppointmentsFilter{
		ContractorID: req.ContractorID,
		From:         &from,
		To:           &to,
	})
	if err != nil {
		uc.logger.Error("GetSchedulingAnalytics: failed to list appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	// 4. Агрегация
	result := aggregate(req.ContractorID, appointments)

	uc.logger.Info("GetSchedulingAnalytics: contractor=%d, %d bookings, revenue=%s",
		req.ContractorID, result.TotalBookings, result.TotalRevenue)

	return &Response{Start: from, End: to.AddDate(0, 0, -1), Result: result}, nil
}
