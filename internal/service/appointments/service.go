package appointments

import (
	"context"
	"errors"
	"fmt"

	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

// Service сервис чтения записей
type Service struct {
	appointmentRepo AppointmentRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(appointmentRepo AppointmentRepository, logger Logger) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	if id <= 0 {
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appointment), nil
}

// ListByContractor получает записи подрядчика
// Опционально фильтрует по периоду [from, to) и статусу
func (s *Service) ListByContractor(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListByContractor: fetching appointments for contractor=%d, status=%v", req.ContractorID, req.Status)

	if req.ContractorID <= 0 {
		return nil, fmt.Errorf("%w: contractorID must be positive", ErrInvalidInput)
	}
	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	filter, ok := req.ToDomainFilter()
	if !ok {
		s.logger.Warn("ListByContractor: invalid status=%s for contractor=%d", *req.Status, req.ContractorID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListByContractor: repository error for contractor=%d: %v", req.ContractorID, err)
		return nil, fmt.Errorf("%w: ListByContractor - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByContractor: successfully fetched %d appointments for contractor=%d", len(appointments), req.ContractorID)
	return models.FromDomainAppointmentList(appointments), nil
}
